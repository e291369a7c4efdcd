package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/polysnap/polysnap/internal/domain"
)

// TrendingService defines the read-side queries the trending handler needs.
type TrendingService interface {
	Trending(ctx context.Context, q domain.TrendingQuery) ([]domain.TrendingMarket, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// TrendingHandler serves the trending listing and the dashboard stats.
type TrendingHandler struct {
	trending TrendingService
	logger   *slog.Logger
}

// NewTrendingHandler creates a TrendingHandler.
func NewTrendingHandler(trending TrendingService, logger *slog.Logger) *TrendingHandler {
	return &TrendingHandler{
		trending: trending,
		logger:   logger,
	}
}

// trendingResponse wraps the listing with a count for dashboard consumers.
type trendingResponse struct {
	Markets []domain.TrendingMarket `json:"markets"`
	Count   int                     `json:"count"`
}

// Trending returns scored markets matching the query parameters.
// GET /api/trending?limit=50&min_volume=0&min_score=0&sort_by=score
func (h *TrendingHandler) Trending(w http.ResponseWriter, r *http.Request) {
	q := parseTrendingQuery(r)

	markets, err := h.trending.Trending(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: trending failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch trending markets")
		return
	}

	writeJSON(w, http.StatusOK, trendingResponse{
		Markets: markets,
		Count:   len(markets),
	})
}

// Stats returns the aggregated dashboard totals.
// GET /api/stats
func (h *TrendingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.trending.Stats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: stats failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// parseTrendingQuery extracts the trending filters from the query string.
// Invalid values fall back to the defaults rather than erroring.
func parseTrendingQuery(r *http.Request) domain.TrendingQuery {
	vals := r.URL.Query()
	q := domain.TrendingQuery{SortBy: "score"}

	if v := vals.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}
	if v := vals.Get("min_volume"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			q.MinVolume = f
		}
	}
	if v := vals.Get("min_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			q.MinScore = f
		}
	}
	if v := vals.Get("sort_by"); v != "" {
		q.SortBy = v
	}
	return q
}
