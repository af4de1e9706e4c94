// Package dexscreener provides a best-effort client for the DexScreener public API.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the DexScreener API root.
	DefaultBaseURL = "https://api.dexscreener.com"

	// DefaultTimeout keeps chat commands responsive.
	DefaultTimeout = 6 * time.Second

	// SearchLimit caps how many pairs a search returns.
	SearchLimit = 10

	providerName = "dexscreener"
	userAgent    = "NekoWeb3PJ/1.0"
)

// Client talks to DexScreener.
type Client struct {
	http  *resty.Client
	guard *upstream.Guard
	limit int
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

// NewClient creates a DexScreener client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("User-Agent", userAgent),
		guard: upstream.NewGuard(providerName, upstream.DefaultGuardConfig()),
		limit: SearchLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchPairs searches pairs matching query (a chain alias, symbol or name). It never
// returns an error; failures are reported through the result.
func (c *Client) SearchPairs(ctx context.Context, query string) upstream.Result[Pair] {
	var pairs []Pair

	err := c.guard.Do(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("q", query).
			Get("/latest/dex/search")
		if err != nil {
			return fmt.Errorf("failed to search pairs: %w", err)
		}

		if !resp.IsSuccess() {
			return fmt.Errorf("search API returned %d", resp.StatusCode())
		}

		var body searchResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return fmt.Errorf("failed to parse search response: %w", err)
		}

		pairs = upstream.DecodeEach[Pair](body.Pairs)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("DexScreener fetch failed")
		return upstream.Failed[Pair](err)
	}

	if len(pairs) > c.limit {
		pairs = pairs[:c.limit]
	}

	log.Debug().Str("query", query).Int("pairs", len(pairs)).Msg("Fetched pairs from DexScreener")
	return upstream.OK(pairs)
}
