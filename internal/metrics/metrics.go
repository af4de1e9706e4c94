// Package metrics exposes the bot's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Commands counts dispatched chat commands by outcome (ok, error, denied).
	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nekobot_commands_total",
			Help: "Chat commands handled, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	// UpstreamRequests counts market-data provider calls.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nekobot_upstream_requests_total",
			Help: "Market-data provider requests, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// IngestedProjects counts projects written during ingestion.
	IngestedProjects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nekobot_ingested_projects_total",
			Help: "Projects seen during ingestion, by result (inserted, existing, failed)",
		},
		[]string{"source", "result"},
	)

	// WebhookUpdates counts webhook deliveries by HTTP status.
	WebhookUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nekobot_webhook_updates_total",
			Help: "Telegram webhook deliveries, by response status",
		},
		[]string{"status"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
