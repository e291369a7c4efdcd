// Package equities fetches spot prices, implied volatility, and recent
// history for tickers referenced by market questions, using the public
// Yahoo Finance endpoints.
package equities

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
)

const defaultIV = 0.30

// Client is the REST client for the Yahoo Finance quote endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new equities client.
//
// baseURL is the API root, e.g. "https://query1.finance.yahoo.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				PreviousClose        float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

type optionsResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				ExpirationDate int64 `json:"expirationDate"`
				Calls          []struct {
					Strike            float64 `json:"strike"`
					ImpliedVolatility float64 `json:"impliedVolatility"`
				} `json:"calls"`
			} `json:"options"`
		} `json:"result"`
	} `json:"optionChain"`
}

// GetQuote returns a quote snapshot for one ticker: spot, IV sourced from
// the nearest-expiry ATM call (falling back to 30%), and up to five days of
// history. A ticker Yahoo does not know maps to domain.ErrNotFound.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*domain.EquityQuote, error) {
	chart, err := c.getChart(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("equities: get quote %s: %w", ticker, err)
	}

	quote := &domain.EquityQuote{
		Ticker:        ticker,
		Spot:          chart.spot,
		ImpliedVol:    defaultIV,
		History:       chart.history,
		DayHigh:       chart.dayHigh,
		DayLow:        chart.dayLow,
		PreviousClose: chart.previousClose,
	}
	if quote.Spot <= 0 {
		return nil, fmt.Errorf("equities: get quote %s: no price data: %w", ticker, domain.ErrNotFound)
	}

	// Options data is best effort: many tickers have no chain at all.
	if opt, err := c.getATMOption(ctx, ticker, quote.Spot); err == nil && opt.ATMIV > 0.001 {
		quote.ImpliedVol = opt.ATMIV
		quote.Options = opt
	}

	return quote, nil
}

type chartData struct {
	spot          float64
	previousClose float64
	dayHigh       float64
	dayLow        float64
	history       []domain.PricePoint
}

func (c *Client) getChart(ctx context.Context, ticker string) (chartData, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=5d&interval=1d", url.PathEscape(ticker))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return chartData{}, err
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return chartData{}, fmt.Errorf("decode chart: %w", err)
	}
	if len(resp.Chart.Result) == 0 {
		return chartData{}, domain.ErrNotFound
	}

	res := resp.Chart.Result[0]
	out := chartData{
		spot:          res.Meta.RegularMarketPrice,
		previousClose: res.Meta.PreviousClose,
		dayHigh:       res.Meta.RegularMarketDayHigh,
		dayLow:        res.Meta.RegularMarketDayLow,
	}

	if len(res.Indicators.Quote) > 0 {
		q := res.Indicators.Quote[0]
		for i, ts := range res.Timestamp {
			if i >= len(q.Close) {
				break
			}
			var vol int64
			if i < len(q.Volume) {
				vol = q.Volume[i]
			}
			out.history = append(out.history, domain.PricePoint{
				Date:   time.Unix(ts, 0).UTC().Format("2006-01-02"),
				Close:  math.Round(q.Close[i]*100) / 100,
				Volume: vol,
			})
		}
	}
	return out, nil
}

// getATMOption finds the call nearest the spot price in the nearest expiry.
func (c *Client) getATMOption(ctx context.Context, ticker string, spot float64) (domain.OptionsInfo, error) {
	path := fmt.Sprintf("/v7/finance/options/%s", url.PathEscape(ticker))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.OptionsInfo{}, err
	}

	var resp optionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.OptionsInfo{}, fmt.Errorf("decode options: %w", err)
	}
	if len(resp.OptionChain.Result) == 0 || len(resp.OptionChain.Result[0].Options) == 0 {
		return domain.OptionsInfo{}, domain.ErrNotFound
	}

	chain := resp.OptionChain.Result[0].Options[0]
	if len(chain.Calls) == 0 {
		return domain.OptionsInfo{}, domain.ErrNotFound
	}

	best := chain.Calls[0]
	for _, call := range chain.Calls[1:] {
		if math.Abs(call.Strike-spot) < math.Abs(best.Strike-spot) {
			best = call
		}
	}

	return domain.OptionsInfo{
		NearestExpiry: time.Unix(chain.ExpirationDate, 0).UTC().Format("2006-01-02"),
		ATMStrike:     best.Strike,
		ATMIV:         best.ImpliedVolatility,
	}, nil
}

// doGet sends a GET request with a browser-like user agent, which Yahoo
// requires for unauthenticated access.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, string(body))
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
