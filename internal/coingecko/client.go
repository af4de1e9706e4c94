// Package coingecko provides a best-effort client for the CoinGecko public API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the CoinGecko v3 API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// DefaultTimeout keeps chat commands responsive.
	DefaultTimeout = 6 * time.Second

	// TrendingLimit caps the trending list.
	TrendingLimit = 7

	providerName = "coingecko"
	userAgent    = "NekoWeb3PJ/1.0"
)

// Client talks to CoinGecko.
type Client struct {
	http  *resty.Client
	guard *upstream.Guard
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another host, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithAPIKey sends a demo API key, which raises the rate limit.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.http.SetHeader("x-cg-demo-api-key", key)
		}
	}
}

// WithGuard replaces the default rate limiter and breaker.
func WithGuard(g *upstream.Guard) Option {
	return func(c *Client) {
		c.guard = g
	}
}

// NewClient creates a CoinGecko client.
func NewClient(opts ...Option) *Client {
	cfg := upstream.DefaultGuardConfig()
	cfg.RequestsPerMinute = 30

	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		guard: upstream.NewGuard(providerName, cfg),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Price looks up the USD price of a coin by its CoinGecko id. An unknown id yields an
// empty result.
func (c *Client) Price(ctx context.Context, id string) upstream.Result[Price] {
	id = strings.ToLower(strings.TrimSpace(id))

	var body map[string]json.RawMessage
	err := c.get(ctx, "/simple/price", map[string]string{
		"ids":                 id,
		"vs_currencies":       "usd",
		"include_24hr_change": "true",
		"include_market_cap":  "true",
	}, &body)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("CoinGecko price lookup failed")
		return upstream.Failed[Price](err)
	}

	raw, ok := body[id]
	if !ok {
		return upstream.OK[Price](nil)
	}

	var price Price
	if err := json.Unmarshal(raw, &price); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("Unexpected CoinGecko price shape")
		return upstream.OK[Price](nil)
	}
	price.ID = id

	if !price.USD.Valid {
		return upstream.OK[Price](nil)
	}
	return upstream.OK([]Price{price})
}

// Trending returns the currently trending coins.
func (c *Client) Trending(ctx context.Context) upstream.Result[TrendingCoin] {
	var body trendingResponse
	if err := c.get(ctx, "/search/trending", nil, &body); err != nil {
		log.Error().Err(err).Msg("CoinGecko trending lookup failed")
		return upstream.Failed[TrendingCoin](err)
	}

	entries := upstream.DecodeEach[trendingEntry](body.Coins)
	coins := make([]TrendingCoin, 0, len(entries))
	for _, e := range entries {
		if e.Item == nil {
			continue
		}
		coins = append(coins, *e.Item)
		if len(coins) == TrendingLimit {
			break
		}
	}

	return upstream.OK(coins)
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	return c.guard.Do(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", path, err)
		}

		if !resp.IsSuccess() {
			return fmt.Errorf("%s returned %d", path, resp.StatusCode())
		}

		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	})
}
