package domain

import "time"

// Event represents a prediction-market event: one question space grouping one
// or more markets. Multi-choice events bundle several mutually exclusive
// outcome markets.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Volume      float64   `json:"volume"`
	Liquidity   float64   `json:"liquidity"`
	Volume24h   float64   `json:"volume_24h"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Active      bool      `json:"active"`
	Closed      bool      `json:"closed"`
	Image       string    `json:"image,omitempty"`

	// Markets is ordered by ascending strike; markets without a parsed
	// strike (Strike == 0) keep their original source order.
	Markets []Market `json:"markets"`
}

// MultiChoice reports whether the event bundles more than one market.
func (e *Event) MultiChoice() bool { return len(e.Markets) > 1 }

// HasStrikes reports whether at least one market has a parsed strike.
func (e *Event) HasStrikes() bool {
	for i := range e.Markets {
		if e.Markets[i].Strike > 0 {
			return true
		}
	}
	return false
}

// Market represents a single binary market inside an event.
//
// Strike is 0 when the question text carries no parseable threshold; such
// markets are treated as non-strike-based for model selection.
type Market struct {
	ID                string    `json:"id"`
	Question          string    `json:"question"`
	Strike            float64   `json:"strike"`
	YesPrice          float64   `json:"yes_price"`
	NoPrice           float64   `json:"no_price"`
	Volume            float64   `json:"volume"`
	Volume24h         float64   `json:"volume_24h"`
	Liquidity         float64   `json:"liquidity"`
	Spread            float64   `json:"spread"`
	BestBid           float64   `json:"best_bid"`
	BestAsk           float64   `json:"best_ask"`
	LastTradePrice    float64   `json:"last_trade_price"`
	OneDayPriceChange float64   `json:"one_day_price_change"`
	Slug              string    `json:"slug"`
	ConditionID       string    `json:"condition_id"`
	TokenIDs          [2]string `json:"token_ids"` // order-book token ids, YES then NO
	EndDate           string    `json:"end_date"`
}

// HasBookTokens reports whether the market carries both order-book token ids
// needed for a depth fetch.
func (m *Market) HasBookTokens() bool {
	return m.TokenIDs[0] != "" && m.TokenIDs[1] != ""
}
