// Package ingest pulls fresh listings from the market-data providers, normalizes them and
// stores the ones not seen before.
package ingest

import (
	"context"
	"time"

	"github.com/nekoweb3/alphabot/internal/coingecko"
	"github.com/nekoweb3/alphabot/internal/dexscreener"
	"github.com/nekoweb3/alphabot/internal/metrics"
	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/normalize"
	"github.com/nekoweb3/alphabot/internal/pumpfun"
	"github.com/nekoweb3/alphabot/internal/storage"
	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/rs/zerolog/log"
)

// PairSearcher is the DexScreener capability ingestion needs.
type PairSearcher interface {
	SearchPairs(ctx context.Context, query string) upstream.Result[dexscreener.Pair]
}

// CoinLister is the pump.fun capability ingestion needs.
type CoinLister interface {
	LatestCoins(ctx context.Context, limit int) upstream.Result[pumpfun.Coin]
}

// TrendingLister is the CoinGecko capability ingestion needs.
type TrendingLister interface {
	Trending(ctx context.Context) upstream.Result[coingecko.TrendingCoin]
}

// Config holds configuration for the ingester.
type Config struct {
	// DexScreener search queries run by Refresh, one per chain.
	Chains []string

	// How many pump.fun coins to pull per refresh; zero skips pump.fun.
	PumpFunLimit int

	// Also store CoinGecko trending coins.
	IncludeTrending bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Chains:       []string{"eth", "sol", "bnb", "base"},
		PumpFunLimit: 20,
	}
}

// Summary reports one provider fetch and the resulting write.
type Summary struct {
	Source   models.Source   `json:"source"`
	Query    string          `json:"query,omitempty"`
	Status   upstream.Status `json:"status"`
	Fetched  int             `json:"fetched"`
	Inserted int             `json:"inserted"`
	Existing int             `json:"existing"`
	Error    string          `json:"error,omitempty"`
}

// Report aggregates the summaries of a Refresh.
type Report struct {
	Summaries []Summary `json:"summaries"`
	Fetched   int       `json:"fetched"`
	Inserted  int       `json:"inserted"`
	Failed    int       `json:"failed"`
}

func (r *Report) add(s Summary) {
	r.Summaries = append(r.Summaries, s)
	r.Fetched += s.Fetched
	r.Inserted += s.Inserted
	if s.Status == upstream.StatusFailed {
		r.Failed++
	}
}

// Ingester wires the providers to the project store. Nil providers are skipped.
type Ingester struct {
	store    storage.ProjectStore
	dex      PairSearcher
	pump     CoinLister
	trending TrendingLister
	config   Config
	now      func() time.Time
}

// New creates an ingester.
func New(store storage.ProjectStore, dex PairSearcher, pump CoinLister, trending TrendingLister, config Config) *Ingester {
	return &Ingester{
		store:    store,
		dex:      dex,
		pump:     pump,
		trending: trending,
		config:   config,
		now:      time.Now,
	}
}

// Chains returns the queries Refresh runs.
func (i *Ingester) Chains() []string {
	return i.config.Chains
}

// IngestChain searches DexScreener for query and stores new pairs.
func (i *Ingester) IngestChain(ctx context.Context, query string) Summary {
	sum := Summary{Source: models.SourceDexScreener, Query: query}
	if i.dex == nil {
		sum.Status = upstream.StatusEmpty
		return sum
	}

	res := i.dex.SearchPairs(ctx, query)
	return i.persist(ctx, sum, res.Err, normalize.DexPairs(res.Items, i.now()))
}

// IngestPumpFun stores the newest pump.fun coins.
func (i *Ingester) IngestPumpFun(ctx context.Context) Summary {
	sum := Summary{Source: models.SourcePumpFun}
	if i.pump == nil || i.config.PumpFunLimit <= 0 {
		sum.Status = upstream.StatusEmpty
		return sum
	}

	res := i.pump.LatestCoins(ctx, i.config.PumpFunLimit)
	return i.persist(ctx, sum, res.Err, normalize.PumpCoins(res.Items, i.now()))
}

// IngestTrending stores CoinGecko trending coins.
func (i *Ingester) IngestTrending(ctx context.Context) Summary {
	sum := Summary{Source: models.SourceCoinGecko}
	if i.trending == nil {
		sum.Status = upstream.StatusEmpty
		return sum
	}

	res := i.trending.Trending(ctx)
	return i.persist(ctx, sum, res.Err, normalize.TrendingCoins(res.Items, i.now()))
}

// Refresh runs every configured source. Provider and write failures are logged and
// reported, never returned.
func (i *Ingester) Refresh(ctx context.Context) Report {
	start := time.Now()
	var report Report

	for _, chain := range i.config.Chains {
		if ctx.Err() != nil {
			break
		}
		report.add(i.IngestChain(ctx, chain))
	}
	if i.config.PumpFunLimit > 0 && ctx.Err() == nil {
		report.add(i.IngestPumpFun(ctx))
	}
	if i.config.IncludeTrending && ctx.Err() == nil {
		report.add(i.IngestTrending(ctx))
	}

	log.Info().
		Int("fetched", report.Fetched).
		Int("inserted", report.Inserted).
		Int("failed", report.Failed).
		Dur("duration", time.Since(start)).
		Msg("Refresh completed")
	return report
}

// persist dedupes the batch by address and writes it.
func (i *Ingester) persist(ctx context.Context, sum Summary, fetchErr error, projects []models.Project) Summary {
	source := string(sum.Source)
	if fetchErr != nil {
		sum.Status = upstream.StatusFailed
		sum.Error = fetchErr.Error()
		log.Warn().Err(fetchErr).Str("source", source).Str("query", sum.Query).Msg("Provider fetch failed")
		return sum
	}

	projects = dedupe(projects)
	sum.Fetched = len(projects)
	if len(projects) == 0 {
		sum.Status = upstream.StatusEmpty
		return sum
	}
	sum.Status = upstream.StatusOK

	res, err := i.store.InsertIfAbsent(ctx, projects)
	sum.Inserted = res.Inserted
	sum.Existing = res.Existing
	metrics.IngestedProjects.WithLabelValues(source, "inserted").Add(float64(res.Inserted))
	metrics.IngestedProjects.WithLabelValues(source, "existing").Add(float64(res.Existing))
	if err != nil {
		// Write failures are not retried; the next refresh picks the projects up again.
		failed := len(projects) - res.Inserted - res.Existing
		metrics.IngestedProjects.WithLabelValues(source, "failed").Add(float64(failed))
		sum.Error = err.Error()
		log.Error().Err(err).Str("source", source).Str("query", sum.Query).Msg("Failed to save projects")
		return sum
	}

	log.Debug().
		Str("source", source).
		Str("query", sum.Query).
		Int("fetched", sum.Fetched).
		Int("inserted", sum.Inserted).
		Msg("Ingested projects")
	return sum
}

func dedupe(projects []models.Project) []models.Project {
	seen := make(map[string]struct{}, len(projects))
	out := projects[:0]
	for _, p := range projects {
		if _, ok := seen[p.Address]; ok {
			continue
		}
		seen[p.Address] = struct{}{}
		out = append(out, p)
	}
	return out
}
