// Package kalshi is a read-only client for the Kalshi exchange used for
// cross-venue comparison: given a set of keywords it reports whether Kalshi
// lists related markets.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
)

// Client is the REST client for the public Kalshi exchange API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Kalshi REST client.
//
// baseURL is the API host, e.g. "https://api.elections.kalshi.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SearchEvents lists open events and filters them by keyword against the
// lowercased title and event ticker. The listing is capped at 100 events,
// which covers the active slate.
func (c *Client) SearchEvents(ctx context.Context, keywords []string) ([]domain.VenueListing, error) {
	path := "/trade-api/v2/events?status=open&with_nested_markets=true&limit=100"

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("kalshi: search events: %w", err)
	}

	var resp struct {
		Events []APIEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("kalshi: decode events: %w", err)
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		lowered = append(lowered, strings.ToLower(kw))
	}

	var matches []domain.VenueListing
	for _, e := range resp.Events {
		title := strings.ToLower(e.Title)
		ticker := strings.ToLower(e.EventTicker)
		for _, kw := range lowered {
			if kw == "" {
				continue
			}
			if strings.Contains(title, kw) || strings.Contains(ticker, kw) {
				matches = append(matches, domain.VenueListing{
					Ticker:   e.EventTicker,
					Title:    e.Title,
					Category: e.Category,
				})
				break
			}
		}
	}
	return matches, nil
}

// Compare wraps SearchEvents into the venue-comparison result shape,
// degrading to an error-tagged result instead of failing.
func (c *Client) Compare(ctx context.Context, keywords []string) domain.VenueComparison {
	out := domain.VenueComparison{Venue: "Kalshi"}

	listings, err := c.SearchEvents(ctx, keywords)
	if err != nil {
		out.Error = err.Error()
		out.Conclusion = "No matching markets found on Kalshi. Polymarket is the only venue."
		return out
	}

	if len(listings) == 0 {
		out.Conclusion = "No matching markets found on Kalshi. Polymarket is the only venue."
		return out
	}

	out.Found = true
	out.Listings = listings
	out.Conclusion = fmt.Sprintf("Found %d related markets on Kalshi.", len(listings))
	return out
}

// doGet sends an unauthenticated GET request to the Kalshi API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, string(body))
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, string(body))
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, string(body))
		default:
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
		}
	}

	return body, nil
}
