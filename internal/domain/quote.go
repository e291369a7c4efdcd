package domain

// EquityQuote is a snapshot of a correlated equity: spot price, implied
// volatility (ATM where available), and a few days of history.
type EquityQuote struct {
	Ticker        string       `json:"ticker"`
	Spot          float64      `json:"spot_price"`
	ImpliedVol    float64      `json:"implied_volatility"`
	Options       OptionsInfo  `json:"options"`
	History       []PricePoint `json:"recent_history,omitempty"`
	MarketCap     float64      `json:"market_cap,omitempty"`
	DayHigh       float64      `json:"day_high,omitempty"`
	DayLow        float64      `json:"day_low,omitempty"`
	PreviousClose float64      `json:"previous_close,omitempty"`
}

// OptionsInfo carries the ATM option used to source implied volatility.
type OptionsInfo struct {
	NearestExpiry string  `json:"nearest_expiry,omitempty"`
	ATMStrike     float64 `json:"atm_strike,omitempty"`
	ATMIV         float64 `json:"atm_iv,omitempty"`
}

// PricePoint is one daily close in a quote's recent history.
type PricePoint struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// SportsOdds is the (best-effort) bookmaker-odds contribution for a sports
// event. Error is set when the fetch degraded; Games is empty for
// non-sports events.
type SportsOdds struct {
	Sport      string     `json:"sport,omitempty"`
	Games      []OddsGame `json:"matching_games,omitempty"`
	TotalGames int        `json:"total_games_found,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// OddsGame is one game with its top bookmaker lines.
type OddsGame struct {
	ID           string      `json:"id"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime string      `json:"commence_time"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one bookmaker's lines for a game.
type Bookmaker struct {
	Key     string           `json:"key"`
	Title   string           `json:"title"`
	Markets []BookmakerOffer `json:"markets"`
}

// BookmakerOffer is one market kind (h2h, spreads, totals) from a bookmaker.
type BookmakerOffer struct {
	Key      string        `json:"key"`
	Outcomes []OddsOutcome `json:"outcomes"`
}

// OddsOutcome is a single priced outcome in a bookmaker offer.
type OddsOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Point float64 `json:"point,omitempty"`
}

// VenueComparison is the secondary-venue search contribution: listings on
// another prediction venue that match the event's keywords.
type VenueComparison struct {
	Venue      string         `json:"platform"`
	Found      bool           `json:"matching_markets_found"`
	Listings   []VenueListing `json:"related_events,omitempty"`
	Conclusion string         `json:"conclusion,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// VenueListing is one matched listing on the secondary venue.
type VenueListing struct {
	Ticker   string `json:"event_ticker"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}
