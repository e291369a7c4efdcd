package domain

// PriceLevel is a single bid or ask level in an order book.
type PriceLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// BookSide summarizes the depth of one side's order book. Error is set when
// the fetch for this token degraded.
type BookSide struct {
	BestBid      float64      `json:"best_bid"`
	BestAsk      float64      `json:"best_ask"`
	NumBids      int          `json:"num_bids"`
	NumAsks      int          `json:"num_asks"`
	TotalBidSize float64      `json:"total_bid_size"`
	TotalAskSize float64      `json:"total_ask_size"`
	BidDepthUSD  float64      `json:"bid_depth_usd"`
	AskDepthUSD  float64      `json:"ask_depth_usd"`
	TopBids      []PriceLevel `json:"top_3_bids,omitempty"`
	TopAsks      []PriceLevel `json:"top_3_asks,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// BookDepth is the order-book contribution for one market: both sides keyed
// YES/NO plus enough context to identify the market.
type BookDepth struct {
	Question string   `json:"question"`
	Strike   float64  `json:"strike"`
	Yes      BookSide `json:"yes"`
	No       BookSide `json:"no"`
}
