// Package api serves the Telegram webhook and the bot's HTTP surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nekoweb3/alphabot/internal/bot"
	"github.com/nekoweb3/alphabot/internal/ingest"
	"github.com/nekoweb3/alphabot/internal/metrics"
	"github.com/nekoweb3/alphabot/internal/scheduler"
	"github.com/nekoweb3/alphabot/internal/storage"
	"github.com/rs/zerolog/log"
)

// MessageHandler turns a chat message into replies.
type MessageHandler interface {
	Handle(ctx context.Context, msg bot.Message) []bot.Reply
}

// Deliverer sends replies back to Telegram.
type Deliverer interface {
	Deliver(ctx context.Context, replies []bot.Reply) error
}

// Refresher runs a full ingestion pass.
type Refresher interface {
	Refresh(ctx context.Context) ingest.Report
}

// JobRunner exposes the scheduler to the admin routes.
type JobRunner interface {
	GetJobStatus() []scheduler.JobStatus
	RunJobNow(name string) error
}

// Deps are the collaborators of the server. Nil optional collaborators turn their
// routes into 503 responses.
type Deps struct {
	Store         storage.ProjectStore
	Handler       MessageHandler
	Deliverer     Deliverer
	Refresher     Refresher
	Scheduler     JobRunner
	WebhookSecret string
}

// Server represents the API server.
type Server struct {
	router   *chi.Mux
	handlers *Handlers
	deps     Deps
	addr     string
	server   *http.Server
}

// NewServer creates a new API server.
func NewServer(deps Deps, addr string) *Server {
	handlers := NewHandlers(deps.Store)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	srv := &Server{
		router:   r,
		handlers: handlers,
		deps:     deps,
		addr:     addr,
	}

	r.Handle("/metrics", metrics.Handler())

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Telegram pushes updates here; every method is accepted so that non-POST
		// requests get the plain-text 405 Telegram tooling expects.
		r.HandleFunc("/webhook", srv.Webhook)

		// Health
		r.Get("/health", handlers.HealthCheck)
		r.Get("/stats", handlers.GetStats)

		// Projects
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.GetProjects)
			r.Get("/top", handlers.GetTopProjects)
		})

		// Admin routes (protect at the proxy)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/refresh", srv.AdminRefresh)
			r.Get("/jobs", srv.AdminGetJobs)
			r.Post("/jobs/{name}/run", srv.AdminRunJob)
		})
	})

	return srv
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ============================================================================
// ADMIN HANDLERS
// ============================================================================

// AdminRefresh runs an ingestion pass and returns its report.
func (s *Server) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	if s.deps.Refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "Ingester not available")
		return
	}

	report := s.deps.Refresher.Refresh(r.Context())
	respondJSON(w, http.StatusOK, report)
}

// AdminGetJobs returns the status of all scheduled jobs.
func (s *Server) AdminGetJobs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available")
		return
	}

	jobs := s.deps.Scheduler.GetJobStatus()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// AdminRunJob runs a specific job by name.
func (s *Server) AdminRunJob(w http.ResponseWriter, r *http.Request) {
	if s.deps.Scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available")
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.deps.Scheduler.RunJobNow(name); err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Job triggered: " + name,
	})
}
