package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysnap/polysnap/internal/cache/memory"
	"github.com/polysnap/polysnap/internal/domain"
)

type fakeLister struct {
	events []domain.Event
	err    error
	calls  int
}

func (f *fakeLister) ListTrendingEvents(context.Context, int) ([]domain.Event, error) {
	f.calls++
	return f.events, f.err
}

func listingFixture() []domain.Event {
	return []domain.Event{
		{
			Slug:  "tsla-weekly",
			Title: "Tesla weekly close",
			Markets: []domain.Market{
				{ID: "m1", Question: "Above $250?", YesPrice: 0.25, Volume: 50000, Volume24h: 9000, Liquidity: 8000},
				{ID: "m2", Question: "Above $300?", YesPrice: 0.97, Volume: 90000, Volume24h: 500, Liquidity: 20000},
			},
		},
		{
			Slug:  "nba-finals",
			Title: "NBA Finals winner",
			Markets: []domain.Market{
				{ID: "m3", Question: "Lakers?", YesPrice: 0.50, Volume: 1000, Volume24h: 50, Liquidity: 300},
			},
		},
	}
}

func newTestService(lister *fakeLister) *TrendingService {
	return NewTrendingService(lister, memory.New(), time.Minute, 30*time.Second, slog.New(slog.DiscardHandler))
}

func TestTrendingSortsByScore(t *testing.T) {
	svc := newTestService(&fakeLister{events: listingFixture()})

	markets, err := svc.Trending(context.Background(), domain.TrendingQuery{})
	require.NoError(t, err)
	require.Len(t, markets, 3)
	for i := 1; i < len(markets); i++ {
		assert.GreaterOrEqual(t, markets[i-1].Score, markets[i].Score)
	}
	// The uncertain high-activity market beats the near-settled one.
	assert.Equal(t, "m1", markets[0].ID)
}

func TestTrendingFilters(t *testing.T) {
	svc := newTestService(&fakeLister{events: listingFixture()})

	markets, err := svc.Trending(context.Background(), domain.TrendingQuery{MinVolume: 10000})
	require.NoError(t, err)
	for _, m := range markets {
		assert.GreaterOrEqual(t, m.Volume, 10000.0)
	}
	assert.Len(t, markets, 2)
}

func TestTrendingSortByVolume(t *testing.T) {
	svc := newTestService(&fakeLister{events: listingFixture()})

	markets, err := svc.Trending(context.Background(), domain.TrendingQuery{SortBy: "volume"})
	require.NoError(t, err)
	assert.Equal(t, "m2", markets[0].ID)
}

func TestTrendingLimit(t *testing.T) {
	svc := newTestService(&fakeLister{events: listingFixture()})

	markets, err := svc.Trending(context.Background(), domain.TrendingQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, markets, 1)
}

func TestTrendingListingCached(t *testing.T) {
	lister := &fakeLister{events: listingFixture()}
	svc := newTestService(lister)

	_, err := svc.Trending(context.Background(), domain.TrendingQuery{})
	require.NoError(t, err)
	_, err = svc.Trending(context.Background(), domain.TrendingQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls)
}

func TestTrendingListerError(t *testing.T) {
	svc := newTestService(&fakeLister{err: fmt.Errorf("gamma down")})

	_, err := svc.Trending(context.Background(), domain.TrendingQuery{})
	assert.Error(t, err)
}

func TestStatsTotals(t *testing.T) {
	svc := newTestService(&fakeLister{events: listingFixture()})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalMarkets)
	assert.Equal(t, 9550.0, stats.TotalVolume24h)
	assert.Equal(t, 28300.0, stats.TotalLiquidity)
	require.NotNil(t, stats.BestLiquidityMarket)
	assert.Equal(t, "Above $300?", stats.BestLiquidityMarket.Question)
	assert.Equal(t, 3, stats.TrendingMarketsCount)
	assert.Equal(t, 1, stats.HotMarkets)
}

func TestStatsCached(t *testing.T) {
	lister := &fakeLister{events: listingFixture()}
	svc := newTestService(lister)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	calls := lister.calls
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calls, lister.calls)
}
