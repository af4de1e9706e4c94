// NekoWeb3 - Telegram alpha bot for freshly listed crypto projects.
// Aggregates new pairs from DexScreener, CoinGecko and pump.fun and serves scored views in chat.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nekobot",
		Short:         "Telegram alpha bot for new crypto listings",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(refreshCmd())
	root.AddCommand(webhookCmd())
	return root
}
