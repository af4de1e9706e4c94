package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/scoring"
	"github.com/nekoweb3/alphabot/internal/storage"
)

// Handlers holds the API handlers.
type Handlers struct {
	store storage.ProjectStore
}

// NewHandlers creates new API handlers.
func NewHandlers(store storage.ProjectStore) *Handlers {
	return &Handlers{store: store}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func getLimit(r *http.Request, key string, defaultLimit, maxLimit int) int {
	limit := defaultLimit
	if l := r.URL.Query().Get(key); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxLimit {
			limit = parsed
		}
	}
	return limit
}

// ScoredProject is a project with its read-time scores.
type ScoredProject struct {
	models.Project
	AlphaScore     int `json:"alpha_score"`
	ModeratorScore int `json:"moderator_score"`
}

func scored(p models.Project) ScoredProject {
	return ScoredProject{Project: p, AlphaScore: scoring.Alpha(p), ModeratorScore: scoring.Moderator(p)}
}

// ============================================================================
// PROJECT HANDLERS
// ============================================================================

// GetProjects returns the newest projects, filtered by chain, category or risk.
func (h *Handlers) GetProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.Filter{
		NameContains: q.Get("q"),
		Risk:         models.RiskTier(q.Get("risk")),
	}
	if chain := q.Get("chain"); chain != "" {
		filter.Chain = models.ResolveChain(chain)
	}
	if c := q.Get("category"); c != "" {
		category, ok := models.ParseCategory(c)
		if !ok {
			respondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		filter.Category = category
	}

	projects, err := h.store.Find(r.Context(), filter, storage.FindOptions{
		Sort:  storage.SortNewest,
		Limit: int64(getLimit(r, "limit", 20, 100)),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	out := make([]ScoredProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, scored(p))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": out,
		"count":    len(out),
	})
}

// GetTopProjects returns projects ranked by alpha score.
func (h *Handlers) GetTopProjects(w http.ResponseWriter, r *http.Request) {
	n := getLimit(r, "n", 10, 50)

	candidates, err := h.store.Find(r.Context(), storage.Filter{ExcludeRisk: models.RiskHigh}, storage.FindOptions{Sort: storage.SortNewest})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	ranked := scoring.Top(candidates, n)
	out := make([]ScoredProject, 0, len(ranked))
	for _, rp := range ranked {
		out = append(out, scored(rp.Project))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": out,
		"count":    len(out),
	})
}

// ============================================================================
// STATS HANDLERS
// ============================================================================

// Stats holds general statistics.
type Stats struct {
	TotalProjects int64            `json:"total_projects"`
	Fresh         int64            `json:"fresh"`
	ByRisk        map[string]int64 `json:"by_risk"`
	ByCategory    map[string]int64 `json:"by_category"`
	Phase         scoring.Phase    `json:"phase"`
}

// GetStats returns general statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := Stats{ByRisk: map[string]int64{}, ByCategory: map[string]int64{}}

	var err error
	if stats.TotalProjects, err = h.store.Count(ctx, storage.Filter{}); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	if stats.Fresh, err = h.store.Count(ctx, storage.Filter{MaxAgeHours: scoring.FreshAgeHours}); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	for _, tier := range []models.RiskTier{models.RiskLow, models.RiskMedium, models.RiskHigh} {
		n, err := h.store.Count(ctx, storage.Filter{Risk: tier})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
			return
		}
		stats.ByRisk[string(tier)] = n
	}
	for _, c := range models.Categories {
		n, err := h.store.Count(ctx, storage.Filter{Category: c})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
			return
		}
		stats.ByCategory[string(c)] = n
	}

	stats.Phase = scoring.ClassifyPhase(scoring.MarketCounts{
		Fresh:   stats.Fresh,
		LowRisk: stats.ByRisk[string(models.RiskLow)],
		Memes:   stats.ByCategory[string(models.CategoryMeme)],
	})
	respondJSON(w, http.StatusOK, stats)
}

// HealthCheck returns service health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "store": "missing"})
		return
	}
	if err := h.store.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "store": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nekobot",
	})
}
