// Package pumpfun provides a best-effort client for the pump.fun frontend API.
package pumpfun

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the pump.fun frontend API root.
	DefaultBaseURL = "https://frontend-api-v3.pump.fun"

	// DefaultTimeout keeps chat commands responsive.
	DefaultTimeout = 6 * time.Second

	// DefaultLimit is how many of the newest coins a fetch asks for.
	DefaultLimit = 10

	providerName = "pumpfun"
	userAgent    = "NekoWeb3PJ/1.0"
)

// Client talks to pump.fun.
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

// WithGuard replaces the default rate limiter and breaker.
func WithGuard(g *upstream.Guard) Option {
	return func(c *Client) {
		c.guard = g
	}
}

// NewClient creates a pump.fun client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json").
			SetHeader("Origin", "https://pump.fun"),
		guard: upstream.NewGuard(providerName, upstream.DefaultGuardConfig()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LatestCoins returns the most recently created coins, newest first.
func (c *Client) LatestCoins(ctx context.Context, limit int) upstream.Result[Coin] {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var coins []Coin
	err := c.guard.Do(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"offset":      "0",
				"limit":       strconv.Itoa(limit),
				"sort":        "created_timestamp",
				"order":       "DESC",
				"includeNsfw": "false",
			}).
			Get("/coins")
		if err != nil {
			return fmt.Errorf("failed to fetch coins: %w", err)
		}

		if !resp.IsSuccess() {
			return fmt.Errorf("coins API returned %d", resp.StatusCode())
		}

		var raw []json.RawMessage
		if err := json.Unmarshal(resp.Body(), &raw); err != nil {
			return fmt.Errorf("failed to parse coins: %w", err)
		}

		coins = upstream.DecodeEach[Coin](raw)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("pump.fun fetch failed")
		return upstream.Failed[Coin](err)
	}

	if len(coins) > limit {
		coins = coins[:limit]
	}
	return upstream.OK(coins)
}
