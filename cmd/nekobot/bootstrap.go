package main

import (
	"context"

	"github.com/nekoweb3/alphabot/internal/coingecko"
	"github.com/nekoweb3/alphabot/internal/config"
	"github.com/nekoweb3/alphabot/internal/dexscreener"
	"github.com/nekoweb3/alphabot/internal/ingest"
	"github.com/nekoweb3/alphabot/internal/pumpfun"
	"github.com/nekoweb3/alphabot/internal/storage/mongo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// loadConfig reads the environment and applies the log level.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return cfg
}

// providers are the market-data clients shared by the bot and ingestion.
type providers struct {
	dex   *dexscreener.Client
	gecko *coingecko.Client
	pump  *pumpfun.Client
}

func newProviders(cfg *config.Config) providers {
	return providers{
		dex:   dexscreener.NewClient(dexscreener.WithTimeout(cfg.ProviderTimeout)),
		gecko: coingecko.NewClient(coingecko.WithTimeout(cfg.ProviderTimeout), coingecko.WithAPIKey(cfg.CoinGeckoAPIKey)),
		pump:  pumpfun.NewClient(pumpfun.WithTimeout(cfg.ProviderTimeout)),
	}
}

func openStore(ctx context.Context, cfg *config.Config) *mongo.Store {
	store, err := mongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	return store
}

func newIngester(cfg *config.Config, store *mongo.Store, p providers) *ingest.Ingester {
	ingestCfg := ingest.DefaultConfig()
	if len(cfg.RefreshChains) > 0 {
		ingestCfg.Chains = cfg.RefreshChains
	}
	ingestCfg.PumpFunLimit = cfg.PumpFunLimit
	ingestCfg.IncludeTrending = cfg.IncludeTrending

	return ingest.New(store, p.dex, p.pump, p.gecko, ingestCfg)
}
