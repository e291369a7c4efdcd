package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
)

// ClobClient is the REST client for the public Polymarket CLOB (Central
// Limit Order Book) API. Only unauthenticated read endpoints are used.
type ClobClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClobClient creates a new CLOB REST client.
//
// baseURL is the CLOB API root, e.g. "https://clob.polymarket.com".
func NewClobClient(baseURL string) *ClobClient {
	return &ClobClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIBookLevel is one price level as returned by the CLOB book endpoint.
type APIBookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// APIBook is the raw book for one token.
type APIBook struct {
	Bids []APIBookLevel `json:"bids"`
	Asks []APIBookLevel `json:"asks"`
}

// GetBook fetches the order book for a single outcome token.
func (c *ClobClient) GetBook(ctx context.Context, tokenID string) (APIBook, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)

	path := "/book?" + params.Encode()

	body, err := c.doGet(ctx, path)
	if err != nil {
		return APIBook{}, fmt.Errorf("polymarket/clob: get book: %w", err)
	}

	var book APIBook
	if err := json.Unmarshal(body, &book); err != nil {
		return APIBook{}, fmt.Errorf("polymarket/clob: decode book: %w", err)
	}
	return book, nil
}

// FetchBookSide fetches and summarizes the book for one outcome token.
func (c *ClobClient) FetchBookSide(ctx context.Context, tokenID string) (domain.BookSide, error) {
	book, err := c.GetBook(ctx, tokenID)
	if err != nil {
		return domain.BookSide{}, err
	}
	return SummarizeBook(book), nil
}

// SummarizeBook condenses a raw book into the per-side depth summary. The
// API returns levels best-first, so the first entry of each list is the top
// of book.
func SummarizeBook(book APIBook) domain.BookSide {
	side := domain.BookSide{
		NumBids: len(book.Bids),
		NumAsks: len(book.Asks),
	}

	if len(book.Bids) > 0 {
		side.BestBid = parseLevel(book.Bids[0].Price)
	}
	if len(book.Asks) > 0 {
		side.BestAsk = parseLevel(book.Asks[0].Price)
	}

	for _, b := range book.Bids {
		p, s := parseLevel(b.Price), parseLevel(b.Size)
		side.TotalBidSize += s
		side.BidDepthUSD += p * s
	}
	for _, a := range book.Asks {
		p, s := parseLevel(a.Price), parseLevel(a.Size)
		side.TotalAskSize += s
		side.AskDepthUSD += p * s
	}
	side.TotalBidSize = round2(side.TotalBidSize)
	side.TotalAskSize = round2(side.TotalAskSize)
	side.BidDepthUSD = round2(side.BidDepthUSD)
	side.AskDepthUSD = round2(side.AskDepthUSD)

	side.TopBids = topLevels(book.Bids, 3)
	side.TopAsks = topLevels(book.Asks, 3)
	return side
}

func topLevels(levels []APIBookLevel, n int) []domain.PriceLevel {
	if len(levels) > n {
		levels = levels[:n]
	}
	out := make([]domain.PriceLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, domain.PriceLevel{Price: parseLevel(l.Price), Size: parseLevel(l.Size)})
	}
	return out
}

func parseLevel(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// doGet sends an unauthenticated GET request to the CLOB API.
func (c *ClobClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}
