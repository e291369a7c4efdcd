package kalshi

// APIEvent is the Kalshi representation of an event from the public
// events listing.
type APIEvent struct {
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}
