package main

import (
	"errors"
	"fmt"

	"github.com/nekoweb3/alphabot/internal/config"
	"github.com/nekoweb3/alphabot/internal/telegram"
	"github.com/spf13/cobra"
)

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Register PUBLIC_URL/api/webhook with Telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.PublicURL == "" {
				return errors.New("PUBLIC_URL is required")
			}
			tg, err := webhookClient(cfg)
			if err != nil {
				return err
			}
			return tg.SetWebhook(cfg.WebhookURL(), cfg.WebhookSecret)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook so long polling works",
		RunE: func(cmd *cobra.Command, args []string) error {
			tg, err := webhookClient(loadConfig())
			if err != nil {
				return err
			}
			return tg.DeleteWebhook()
		},
	})

	return cmd
}

func webhookClient(cfg *config.Config) (*telegram.Client, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	tg, err := telegram.New(cfg.BotToken, nil, telegram.Options{})
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	return tg, nil
}
