package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModePolling, cfg.BotMode)
	assert.Equal(t, "nekobot", cfg.MongoDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 6*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"eth", "sol", "bnb", "base"}, cfg.RefreshChains)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("BOT_MODE", "WEBHOOK")
	t.Setenv("PUBLIC_URL", "https://bot.example.com/")
	t.Setenv("ALLOWED_USERNAME", "@neko")
	t.Setenv("REFRESH_CHAINS", " sol , ,base")
	t.Setenv("REFRESH_INTERVAL", "0s")
	t.Setenv("PUMPFUN_LIMIT", "not-a-number")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModeWebhook, cfg.BotMode)
	assert.Equal(t, "https://bot.example.com/api/webhook", cfg.WebhookURL())
	assert.Equal(t, "neko", cfg.AllowedUsername)
	assert.Equal(t, []string{"sol", "base"}, cfg.RefreshChains)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Equal(t, 20, cfg.PumpFunLimit)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	cfg := &Config{BotMode: ModePolling}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "BOT_TOKEN is required")
	assert.ErrorContains(t, err, "MONGO_URI is required")

	cfg = &Config{BotToken: "t", MongoURI: "m", BotMode: ModeWebhook}
	assert.ErrorContains(t, cfg.Validate(), "PUBLIC_URL is required")

	cfg = &Config{BotToken: "t", MongoURI: "m", BotMode: "carrier-pigeon"}
	assert.ErrorContains(t, cfg.Validate(), "BOT_MODE must be")
}
