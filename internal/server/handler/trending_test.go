package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysnap/polysnap/internal/domain"
)

type fakeTrending struct {
	query   domain.TrendingQuery
	markets []domain.TrendingMarket
	stats   domain.DashboardStats
}

func (f *fakeTrending) Trending(_ context.Context, q domain.TrendingQuery) ([]domain.TrendingMarket, error) {
	f.query = q
	return f.markets, nil
}

func (f *fakeTrending) Stats(context.Context) (domain.DashboardStats, error) {
	return f.stats, nil
}

func TestTrendingQueryParams(t *testing.T) {
	svc := &fakeTrending{markets: []domain.TrendingMarket{{ID: "m1"}, {ID: "m2"}}}
	h := NewTrendingHandler(svc, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodGet,
		"/api/trending?limit=10&min_volume=5000&min_score=20&sort_by=volume", nil)
	rec := httptest.NewRecorder()
	h.Trending(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TrendingQuery{Limit: 10, MinVolume: 5000, MinScore: 20, SortBy: "volume"}, svc.query)

	var out trendingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, 2, out.Count)
	assert.Len(t, out.Markets, 2)
}

func TestTrendingDefaults(t *testing.T) {
	svc := &fakeTrending{}
	h := NewTrendingHandler(svc, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Trending(rec, httptest.NewRequest(http.MethodGet, "/api/trending?limit=bogus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TrendingQuery{SortBy: "score"}, svc.query)
}

func TestStatsHandler(t *testing.T) {
	svc := &fakeTrending{stats: domain.DashboardStats{TotalMarkets: 42, HotMarkets: 3}}
	h := NewTrendingHandler(svc, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out domain.DashboardStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, 42, out.TotalMarkets)
	assert.Equal(t, 3, out.HotMarkets)
}
