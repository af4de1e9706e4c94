// Package config provides configuration management for the bot.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Transport modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds all application configuration.
type Config struct {
	// Telegram settings
	BotToken        string
	BotMode         string
	AllowedUsername string
	PublicURL       string
	WebhookSecret   string

	// MongoDB settings
	MongoURI string
	MongoDB  string

	// Redis session store; empty keeps sessions in memory
	RedisAddr  string
	SessionTTL time.Duration

	// Ingestion settings
	RefreshInterval time.Duration
	RefreshChains   []string
	PumpFunLimit    int
	IncludeTrending bool
	ProviderTimeout time.Duration
	CoinGeckoAPIKey string

	// LLM settings; an empty key disables /insight
	LLMAPIKey   string
	LLMEndpoint string
	LLMModel    string

	// Server settings
	HTTPAddr string
	Debug    bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		// Telegram
		BotToken:        getEnv("BOT_TOKEN", ""),
		BotMode:         strings.ToLower(getEnv("BOT_MODE", ModePolling)),
		AllowedUsername: strings.TrimPrefix(getEnv("ALLOWED_USERNAME", ""), "@"),
		PublicURL:       strings.TrimRight(getEnv("PUBLIC_URL", ""), "/"),
		WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),

		// MongoDB
		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "nekobot"),

		// Sessions
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		// Ingestion
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
		RefreshChains:   getEnvList("REFRESH_CHAINS", []string{"eth", "sol", "bnb", "base"}),
		PumpFunLimit:    getEnvInt("PUMPFUN_LIMIT", 20),
		IncludeTrending: getEnvBool("INCLUDE_TRENDING", false),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 6*time.Second),
		CoinGeckoAPIKey: getEnv("COINGECKO_API_KEY", ""),

		// LLM
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMEndpoint: getEnv("LLM_ENDPOINT", "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"),
		LLMModel:    getEnv("LLM_MODEL", "qwen-turbo"),

		// Server
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Debug:    getEnvBool("DEBUG", false),
	}

	return cfg, nil
}

// Validate checks if required configuration is present. Missing credentials are fatal.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	switch c.BotMode {
	case ModePolling:
	case ModeWebhook:
		if c.PublicURL == "" {
			errs = append(errs, errors.New("PUBLIC_URL is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("BOT_MODE must be %q or %q, got %q", ModePolling, ModeWebhook, c.BotMode))
	}

	if c.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set, /insight will be disabled")
	}
	return errors.Join(errs...)
}

// WebhookURL is the public address Telegram posts updates to.
func (c *Config) WebhookURL() string {
	return c.PublicURL + "/api/webhook"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
