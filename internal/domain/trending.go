package domain

// Trending verdict tags for discovery surfaces.
const (
	TrendingHot     = "HOT"
	TrendingWarm    = "WARM"
	TrendingObvious = "OBVIOUS"
	TrendingCool    = "COOL"
)

// TrendingMarket is a raw market listing scored for discovery. It is
// independent of the job pipeline and computed from listing data alone.
type TrendingMarket struct {
	ID           string  `json:"id"`
	Question     string  `json:"question"`
	YesPrice     float64 `json:"yes_price"`
	NoPrice      float64 `json:"no_price"`
	Volume       float64 `json:"volume"`
	Volume24h    float64 `json:"volume_24h"`
	Liquidity    float64 `json:"liquidity"`
	Spread       float64 `json:"spread"`
	Change24h    float64 `json:"change_24h"`
	PotentialROI float64 `json:"potential_roi"`
	Score        float64 `json:"score"`
	Verdict      string  `json:"verdict"`
	EventSlug    string  `json:"event_slug"`
	EventTitle   string  `json:"event_title"`
	EndDate      string  `json:"end_date,omitempty"`
}

// TrendingQuery holds listing filters for the trending endpoint.
type TrendingQuery struct {
	Limit     int
	MinVolume float64
	MinScore  float64
	SortBy    string // "score" (default), "volume", "liquidity"
}

// DashboardStats aggregates listing-wide totals for the dashboard.
type DashboardStats struct {
	TotalVolume24h       float64      `json:"total_volume_24h"`
	VolumeChangePct      float64      `json:"volume_change_pct"`
	TotalLiquidity       float64      `json:"total_liquidity"`
	LiquidityChangePct   float64      `json:"liquidity_change_pct"`
	TotalMarkets         int          `json:"total_markets"`
	MarketsChange        int          `json:"markets_change"`
	BestLiquidityMarket  *StatsMarket `json:"best_liquidity_market,omitempty"`
	TrendingMarketsCount int          `json:"markets_count"`
	HotMarkets           int          `json:"hot_markets"`
}

// StatsMarket identifies the single most liquid market in the listing.
type StatsMarket struct {
	Question  string  `json:"question"`
	Liquidity float64 `json:"liquidity"`
	EventSlug string  `json:"event_slug"`
}
