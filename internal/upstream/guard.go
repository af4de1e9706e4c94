package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/nekoweb3/alphabot/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while a provider's breaker is open.
var ErrCircuitOpen = errors.New("provider circuit open")

// GuardConfig tunes a Guard.
type GuardConfig struct {
	// Requests per minute allowed towards the provider.
	RequestsPerMinute int
	// Consecutive failures that open the breaker.
	MaxFailures uint32
	// How long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultGuardConfig returns limits suitable for the free public APIs.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RequestsPerMinute: 60,
		MaxFailures:       3,
		OpenTimeout:       60 * time.Second,
	}
}

// Guard rate limits calls to one provider and stops calling it after repeated failures.
type Guard struct {
	name    string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuard creates a guard for the named provider.
func NewGuard(name string, cfg GuardConfig) *Guard {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}

	st := gobreaker.Settings{
		Name:    name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Provider breaker state changed")
		},
	}

	return &Guard{
		name:    name,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

// Do runs fn under the limiter and breaker and records the outcome.
func (g *Guard) Do(ctx context.Context, fn func() error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		metrics.UpstreamRequests.WithLabelValues(g.name, "throttled").Inc()
		return err
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamRequests.WithLabelValues(g.name, "circuit_open").Inc()
		return ErrCircuitOpen
	case err != nil:
		metrics.UpstreamRequests.WithLabelValues(g.name, "error").Inc()
		return err
	}

	metrics.UpstreamRequests.WithLabelValues(g.name, "ok").Inc()
	return nil
}
