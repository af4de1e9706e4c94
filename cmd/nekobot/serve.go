package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nekoweb3/alphabot/internal/api"
	"github.com/nekoweb3/alphabot/internal/bot"
	"github.com/nekoweb3/alphabot/internal/config"
	"github.com/nekoweb3/alphabot/internal/llm"
	"github.com/nekoweb3/alphabot/internal/scheduler"
	"github.com/nekoweb3/alphabot/internal/scoring"
	"github.com/nekoweb3/alphabot/internal/session"
	"github.com/nekoweb3/alphabot/internal/telegram"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the HTTP API and the scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			serve(loadConfig())
		},
	}
}

func serve(cfg *config.Config) {
	log.Info().Str("mode", cfg.BotMode).Msg("NekoWeb3 - Starting alpha bot")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Initialize storage
	store := openStore(ctx, cfg)
	defer store.Close(ctx)

	// Initialize pagination sessions
	var sessions session.Store
	memSessions := session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		defer rs.Close()
		sessions = rs
		log.Info().Str("addr", cfg.RedisAddr).Msg("Redis session store initialized")
	} else {
		sessions = memSessions
		log.Info().Msg("In-memory session store initialized")
	}

	// Initialize market data providers and ingestion
	p := newProviders(cfg)
	ingester := newIngester(cfg, store, p)

	// Initialize LLM client
	var insights bot.Insighter
	if cfg.LLMAPIKey != "" {
		insights = llm.NewClient(llm.Config{
			APIKey:   cfg.LLMAPIKey,
			Endpoint: cfg.LLMEndpoint,
			Model:    cfg.LLMModel,
		})
		log.Info().Str("model", cfg.LLMModel).Msg("LLM client initialized")
	}

	// Initialize Telegram
	tg, err := telegram.New(cfg.BotToken, nil, telegram.Options{Poll: cfg.BotMode == config.ModePolling})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	dispatcher := bot.NewDispatcher(bot.Deps{
		Store:    store,
		Sessions: sessions,
		Ingester: ingester,
		Prices:   p.gecko,
		Trending: p.gecko,
		Insights: insights,
	}, bot.Config{
		AllowedUsername: cfg.AllowedUsername,
		BotUsername:     tg.Username(),
	})
	tg.SetHandler(dispatcher)

	// Initialize scheduler
	sched := scheduler.NewScheduler(time.Minute)
	addJobs(sched, cfg, ingester, dispatcher, memSessions)

	apiServer := api.NewServer(api.Deps{
		Store:         store,
		Handler:       dispatcher,
		Deliverer:     tg,
		Refresher:     ingester,
		Scheduler:     sched,
		WebhookSecret: cfg.WebhookSecret,
	}, cfg.HTTPAddr)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start all services
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server error")
		}
	}()

	switch cfg.BotMode {
	case config.ModeWebhook:
		if err := tg.SetWebhook(cfg.WebhookURL(), cfg.WebhookSecret); err != nil {
			log.Fatal().Err(err).Msg("Failed to register webhook")
		}
	default:
		go tg.Start()
	}
	sched.Start()

	log.Info().
		Str("api", cfg.HTTPAddr).
		Str("bot", tg.Username()).
		Msg("NekoWeb3 bot running")

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if cfg.BotMode == config.ModePolling {
		tg.Stop()
	}
	sched.Stop()
	apiServer.Shutdown(shutdownCtx)

	log.Info().Msg("NekoWeb3 bot stopped")
}

// addJobs registers the periodic jobs.
func addJobs(sched *scheduler.Scheduler, cfg *config.Config, ingester api.Refresher, dispatcher *bot.Dispatcher, sessions *session.MemoryStore) {
	if cfg.RefreshInterval > 0 {
		sched.AddJob(&scheduler.Job{
			Name:     "refresh-listings",
			Schedule: scheduler.Every(cfg.RefreshInterval),
			Timeout:  5 * time.Minute,
			Handler: func(ctx context.Context) error {
				report := ingester.Refresh(ctx)
				if report.Failed > 0 && report.Failed == len(report.Summaries) {
					return errors.New("every provider failed")
				}
				return nil
			},
		})
	}

	sched.AddJob(&scheduler.Job{
		Name:     "session-sweep",
		Schedule: scheduler.Every(10 * time.Minute),
		Handler: func(ctx context.Context) error {
			if n := sessions.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Msg("Swept pagination sessions")
			}
			return nil
		},
	})

	sched.AddJob(&scheduler.Job{
		Name:     "market-phase",
		Schedule: scheduler.DailyAt(9, 0),
		Handler: func(ctx context.Context) error {
			counts := dispatcher.MarketCounts(ctx)
			log.Info().
				Str("phase", string(scoring.ClassifyPhase(counts))).
				Int64("fresh", counts.Fresh).
				Int64("low_risk", counts.LowRisk).
				Int64("memes", counts.Memes).
				Msg("Daily market phase")
			return nil
		},
	})
}
