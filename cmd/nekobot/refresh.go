package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func refreshCmd() *cobra.Command {
	var queries []string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ingest new listings once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.MongoURI == "" {
				return errors.New("MONGO_URI is required")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store := openStore(ctx, cfg)
			defer store.Close(ctx)

			ingester := newIngester(cfg, store, newProviders(cfg))

			if len(queries) > 0 {
				for _, q := range queries {
					sum := ingester.IngestChain(ctx, q)
					log.Info().
						Str("query", q).
						Str("status", string(sum.Status)).
						Int("fetched", sum.Fetched).
						Int("inserted", sum.Inserted).
						Msg("Ingested")
				}
				return nil
			}

			report := ingester.Refresh(ctx)
			if report.Failed > 0 && report.Failed == len(report.Summaries) {
				return errors.New("every provider failed")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&queries, "query", "q", nil, "DexScreener search queries (defaults to REFRESH_CHAINS)")
	return cmd
}
