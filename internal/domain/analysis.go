package domain

import "time"

// Side identifies one tradable side of a binary market.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// Probability model identifiers, preserved in output because downstream
// confidence depends on whether the estimate came from the pricing model or
// was merely echoed back from the market.
const (
	ModelBlackScholes  = "Black-Scholes"
	ModelMarketImplied = "Market-Implied"
	ModelInvalid       = "Invalid inputs"
)

// ProbabilityEstimate is the output of the lognormal pricing model (or its
// market-implied fallback) for one market.
type ProbabilityEstimate struct {
	Spot            float64 `json:"spot"`
	Strike          float64 `json:"strike"`
	IV              float64 `json:"iv"`
	DaysToExpiry    float64 `json:"days_to_expiry"`
	TYears          float64 `json:"t_years,omitempty"`
	D1              float64 `json:"d1,omitempty"`
	D2              float64 `json:"d2,omitempty"`
	ProbAbove       float64 `json:"prob_above,omitempty"`
	ProbBelow       float64 `json:"prob_below,omitempty"`
	Delta           float64 `json:"delta,omitempty"`
	TrueProbability float64 `json:"true_probability"`
	Model           string  `json:"model"`
}

// Mispricing verdicts emitted by the arbitrage detector.
const (
	VerdictArbitrage = "ARBITRAGE"
	VerdictFair      = "FAIR"
	VerdictCheap     = "CHEAP"
	VerdictExpensive = "EXPENSIVE"
)

// Arbitrage recommendations.
const (
	RecPass   = "PASS"
	RecBuyYes = "BUY YES"
	RecBuyNo  = "BUY NO"
)

// ArbitrageSignal is the mispricing verdict for one market: how far the
// market price sits from the model probability and which side, if any, is
// worth buying.
type ArbitrageSignal struct {
	Verdict         string  `json:"verdict"`
	Recommendation  string  `json:"recommendation"`
	EdgeAbsolute    float64 `json:"edge_absolute"`
	EdgePercent     float64 `json:"edge_percent"`
	MarketYes       float64 `json:"market_yes"`
	TrueProbability float64 `json:"true_probability"`
	Mispricing      string  `json:"mispricing"` // "fair", "underpriced", "overpriced"
}

// Confidence tiers for a sized position.
const (
	ConfidenceNone   = "none"
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// SideSizing is the position-sizing result for one side of a market. A
// zero-size result carries Reason "Invalid" and must be skipped by the
// strategy selector.
type SideSizing struct {
	Price        float64 `json:"price"`
	DecimalOdds  float64 `json:"decimal_odds"`
	TrueProb     float64 `json:"true_prob"`
	FullKellyPct float64 `json:"full_kelly_pct"`
	PositionPct  float64 `json:"position_pct"` // percentage of bankroll, post-clamp
	BetAmount    float64 `json:"bet_amount"`
	EVPerDollar  float64 `json:"ev_per_dollar"`
	ROIIfWin     float64 `json:"roi_if_win"` // percent
	Confidence   string  `json:"confidence"`
	Reason       string  `json:"reason,omitempty"`
}

// Valid reports whether the sizing carries a usable position.
func (s *SideSizing) Valid() bool { return s.Reason == "" }

// KellySizing holds the sizing results for both sides of a market.
type KellySizing struct {
	Yes SideSizing `json:"YES"`
	No  SideSizing `json:"NO"`
}

// Side returns the sizing for the given side.
func (k *KellySizing) Side(side Side) SideSizing {
	if side == SideNo {
		return k.No
	}
	return k.Yes
}

// ROIScenario is a fixed-share round-trip return computation.
type ROIScenario struct {
	BuyPrice    float64 `json:"buy_price"`
	SellPrice   float64 `json:"sell_price"`
	Shares      float64 `json:"shares"`
	BuyCost     float64 `json:"buy_cost"`
	SellRevenue float64 `json:"sell_revenue"`
	NetProfit   float64 `json:"net_profit"`
	ROIPercent  float64 `json:"roi_percent"`
}

// MarketSnapshot is the slice of market fields embedded in a per-market
// analysis so the result is self-contained.
type MarketSnapshot struct {
	YesPrice  float64 `json:"yes_price"`
	NoPrice   float64 `json:"no_price"`
	Volume    float64 `json:"volume"`
	Liquidity float64 `json:"liquidity"`
	Spread    float64 `json:"spread"`
}

// MarketAnalysis bundles every model output for one market. It is computed
// once per job run and never mutated after being embedded in the result.
type MarketAnalysis struct {
	MarketID    string              `json:"market_id"`
	Strike      float64             `json:"strike"`
	Question    string              `json:"question"`
	Market      MarketSnapshot      `json:"market"`
	Probability ProbabilityEstimate `json:"probability"`
	Arbitrage   ArbitrageSignal     `json:"arbitrage"`
	Sizing      KellySizing         `json:"sizing"`
	ROIYesWins  ROIScenario         `json:"roi_yes_wins"`
	ROINoWins   ROIScenario         `json:"roi_no_wins"`
}

// Strategy is the single selected (market, side) recommendation. When no
// market has a usable side, BestSide is empty and the sizing fields are zero.
type Strategy struct {
	BestMarket          string  `json:"best_market,omitempty"`
	BestMarketShort     string  `json:"best_market_short,omitempty"`
	BestSide            Side    `json:"best_side,omitempty"`
	BestEV              float64 `json:"best_ev"`
	MultiChoice         bool    `json:"multi_choice"`
	NumMarkets          int     `json:"num_markets"`
	RecommendedPosition float64 `json:"recommended_position"`
	PositionPct         float64 `json:"position_pct"`
	Confidence          string  `json:"confidence"`
	MaxLoss             float64 `json:"max_loss"`
	EntryPrice          float64 `json:"entry_price,omitempty"`
	ROIIfWin            float64 `json:"roi_if_win,omitempty"`
	PotentialProfit     float64 `json:"potential_profit"`
	RiskReward          float64 `json:"risk_reward"`
}

// AnalysisResult is the consolidated output of one completed pipeline run.
// Soft-step failures are represented by error-tagged sub-objects rather than
// omissions, so consumers can distinguish "no data" from "zero value".
type AnalysisResult struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	Event        Event                `json:"event"`
	Quote        *EquityQuote         `json:"quote,omitempty"`
	DaysToExpiry float64              `json:"days_to_expiry"`
	Analyses     []MarketAnalysis     `json:"analyses"`
	SportsOdds   SportsOdds           `json:"sports_odds"`
	Venue        VenueComparison      `json:"venue_comparison"`
	Transfers    TransferSummary      `json:"whale_tracking"`
	Books        map[string]BookDepth `json:"orderbook_depth"`
	Strategy     Strategy             `json:"strategy"`
	Report       string               `json:"report"`
	Bankroll     float64              `json:"bankroll"`
	Ticker       string               `json:"ticker,omitempty"`
	IsSports     bool                 `json:"is_sports"`
}
