// Package service holds the read-side query services behind the HTTP API:
// trending discovery and dashboard stats over the live Polymarket listing.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
	"github.com/polysnap/polysnap/internal/trending"
)

// EventLister fetches the active event listing ordered by 24h volume.
type EventLister interface {
	ListTrendingEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

const (
	listingCacheKey   = "trending_events"
	statsCacheKey     = "dashboard_stats"
	prevStatsCacheKey = "prev_dashboard_stats"

	listingFetchLimit = 100
	defaultLimit      = 50
)

// TrendingService serves scored market listings and dashboard stats. The
// upstream listing is cached briefly so a busy dashboard does not hammer
// the Gamma API.
type TrendingService struct {
	lister       EventLister
	cache        domain.ListingCache
	listingTTL   time.Duration
	statsTTL     time.Duration
	prevStatsTTL time.Duration
	logger       *slog.Logger
}

// NewTrendingService creates the service. listingTTL and statsTTL bound
// staleness of the listing and stats caches respectively.
func NewTrendingService(lister EventLister, cache domain.ListingCache, listingTTL, statsTTL time.Duration, logger *slog.Logger) *TrendingService {
	return &TrendingService{
		lister:       lister,
		cache:        cache,
		listingTTL:   listingTTL,
		statsTTL:     statsTTL,
		prevStatsTTL: 24 * time.Hour,
		logger:       logger.With(slog.String("component", "trending_service")),
	}
}

// Trending returns scored markets matching the query, sorted descending by
// the requested key (score by default).
func (s *TrendingService) Trending(ctx context.Context, q domain.TrendingQuery) ([]domain.TrendingMarket, error) {
	events, err := s.listEvents(ctx)
	if err != nil {
		return nil, err
	}

	markets := make([]domain.TrendingMarket, 0, len(events)*2)
	for _, ev := range events {
		for _, m := range ev.Markets {
			tm := domain.TrendingMarket{
				ID:         m.ID,
				Question:   m.Question,
				YesPrice:   m.YesPrice,
				NoPrice:    m.NoPrice,
				Volume:     m.Volume,
				Volume24h:  m.Volume24h,
				Liquidity:  m.Liquidity,
				Spread:     m.Spread,
				Change24h:  math.Abs(m.OneDayPriceChange),
				EventSlug:  ev.Slug,
				EventTitle: ev.Title,
				EndDate:    m.EndDate,
			}
			trending.Annotate(&tm)
			tm.PotentialROI = math.Round(tm.PotentialROI*10) / 10

			if q.MinVolume > 0 && tm.Volume < q.MinVolume {
				continue
			}
			if q.MinScore > 0 && tm.Score < q.MinScore {
				continue
			}
			markets = append(markets, tm)
		}
	}

	switch q.SortBy {
	case "volume":
		sort.SliceStable(markets, func(i, j int) bool { return markets[i].Volume > markets[j].Volume })
	case "liquidity":
		sort.SliceStable(markets, func(i, j int) bool { return markets[i].Liquidity > markets[j].Liquidity })
	default:
		sort.SliceStable(markets, func(i, j int) bool { return markets[i].Score > markets[j].Score })
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(markets) > limit {
		markets = markets[:limit]
	}
	return markets, nil
}

// prevTotals is the snapshot used to compute day-over-day deltas.
type prevTotals struct {
	Volume24h    float64
	Liquidity    float64
	TotalMarkets int
}

// Stats aggregates the full listing into dashboard totals with deltas
// against the previous snapshot.
func (s *TrendingService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		if stats, ok := cached.(domain.DashboardStats); ok {
			return stats, nil
		}
	}

	events, err := s.listEvents(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	var stats domain.DashboardStats
	var bestLiquidity float64
	for _, ev := range events {
		for _, m := range ev.Markets {
			stats.TotalMarkets++
			stats.TotalVolume24h += m.Volume24h
			stats.TotalLiquidity += m.Liquidity
			if m.Liquidity > bestLiquidity {
				bestLiquidity = m.Liquidity
				stats.BestLiquidityMarket = &domain.StatsMarket{
					Question:  m.Question,
					Liquidity: m.Liquidity,
					EventSlug: ev.Slug,
				}
			}
		}
	}

	prev := prevTotals{
		Volume24h:    stats.TotalVolume24h,
		Liquidity:    stats.TotalLiquidity,
		TotalMarkets: stats.TotalMarkets,
	}
	if cached, ok := s.cache.Get(prevStatsCacheKey); ok {
		if p, ok := cached.(prevTotals); ok {
			prev = p
		}
	}

	if prev.Volume24h > 0 {
		stats.VolumeChangePct = round1((stats.TotalVolume24h - prev.Volume24h) / math.Max(prev.Volume24h, 1) * 100)
	}
	if prev.Liquidity > 0 {
		stats.LiquidityChangePct = round1((stats.TotalLiquidity - prev.Liquidity) / math.Max(prev.Liquidity, 1) * 100)
	}
	stats.MarketsChange = stats.TotalMarkets - prev.TotalMarkets

	// Roll the snapshot forward only on meaningful movement, so a tight
	// polling loop does not zero out the deltas.
	if math.Abs(stats.VolumeChangePct) > 1 || math.Abs(stats.LiquidityChangePct) > 1 || abs(stats.MarketsChange) > 10 {
		s.cache.Set(prevStatsCacheKey, prevTotals{
			Volume24h:    stats.TotalVolume24h,
			Liquidity:    stats.TotalLiquidity,
			TotalMarkets: stats.TotalMarkets,
		}, s.prevStatsTTL)
	}

	scored, err := s.Trending(ctx, domain.TrendingQuery{Limit: 100})
	if err == nil {
		stats.TrendingMarketsCount = len(scored)
		for _, m := range scored {
			if m.Verdict == domain.TrendingHot {
				stats.HotMarkets++
			}
		}
	}

	s.cache.Set(statsCacheKey, stats, s.statsTTL)
	return stats, nil
}

// listEvents returns the cached listing, refreshing it on expiry.
func (s *TrendingService) listEvents(ctx context.Context) ([]domain.Event, error) {
	if cached, ok := s.cache.Get(listingCacheKey); ok {
		if events, ok := cached.([]domain.Event); ok {
			return events, nil
		}
	}

	events, err := s.lister.ListTrendingEvents(ctx, listingFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("service: list trending events: %w", err)
	}
	s.cache.Set(listingCacheKey, events, s.listingTTL)
	s.logger.Debug("listing refreshed", slog.Int("events", len(events)))
	return events, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
