// Package oddsapi fetches bookmaker odds from The Odds API for sports
// events, so Polymarket prices can be sanity-checked against sportsbooks.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
)

// Client is the REST client for The Odds API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new odds client.
//
// baseURL is the API root, e.g. "https://api.the-odds-api.com/v4".
// apiKey may be empty, in which case every fetch degrades with an error.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type apiSport struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

type apiGame struct {
	ID           string             `json:"id"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	CommenceTime string             `json:"commence_time"`
	Bookmakers   []domain.Bookmaker `json:"bookmakers"`
}

// FetchOdds matches the event title to a sport, fetches that sport's odds
// slate, and returns the games whose teams appear in the title. Each match
// keeps its top three bookmakers. Failures degrade into the Error field.
func (c *Client) FetchOdds(ctx context.Context, eventTitle string) domain.SportsOdds {
	if !c.Configured() {
		return domain.SportsOdds{Error: "No Odds API key configured"}
	}

	sports, err := c.listSports(ctx)
	if err != nil {
		return domain.SportsOdds{Error: "Failed to fetch sports"}
	}

	titleLower := strings.ToLower(eventTitle)
	sport := matchSport(titleLower, sports)
	if sport == "" {
		return domain.SportsOdds{Error: "Could not match event to sport"}
	}

	games, err := c.listOdds(ctx, sport)
	if err != nil {
		return domain.SportsOdds{Sport: sport, Error: fmt.Sprintf("Failed to fetch odds for %s", sport)}
	}

	var matching []domain.OddsGame
	for _, g := range games {
		home := strings.ToLower(g.HomeTeam)
		away := strings.ToLower(g.AwayTeam)
		if home == "" && away == "" {
			continue
		}
		if strings.Contains(titleLower, home) || strings.Contains(titleLower, away) {
			bms := g.Bookmakers
			if len(bms) > 3 {
				bms = bms[:3]
			}
			matching = append(matching, domain.OddsGame{
				ID:           g.ID,
				HomeTeam:     g.HomeTeam,
				AwayTeam:     g.AwayTeam,
				CommenceTime: g.CommenceTime,
				Bookmakers:   bms,
			})
		}
	}

	return domain.SportsOdds{
		Sport:      sport,
		Games:      matching,
		TotalGames: len(games),
	}
}

// matchSport picks the sport whose key or title appears in the event title,
// with league-keyword fallbacks for the common US leagues.
func matchSport(titleLower string, sports []apiSport) string {
	for _, s := range sports {
		if s.Key != "" && strings.Contains(titleLower, strings.ToLower(s.Key)) {
			return s.Key
		}
		if s.Title != "" && strings.Contains(titleLower, strings.ToLower(s.Title)) {
			return s.Key
		}
	}

	for _, kw := range []string{"bulls", "lakers", "celtics", "warriors", "nba"} {
		if strings.Contains(titleLower, kw) {
			return "basketball_nba"
		}
	}
	for _, kw := range []string{"nfl", "chiefs", "eagles", "super bowl"} {
		if strings.Contains(titleLower, kw) {
			return "americanfootball_nfl"
		}
	}
	return ""
}

func (c *Client) listSports(ctx context.Context) ([]apiSport, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	body, err := c.doGet(ctx, "/sports?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("oddsapi: list sports: %w", err)
	}

	var sports []apiSport
	if err := json.Unmarshal(body, &sports); err != nil {
		return nil, fmt.Errorf("oddsapi: decode sports: %w", err)
	}
	return sports, nil
}

func (c *Client) listOdds(ctx context.Context, sport string) ([]apiGame, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", "us")
	params.Set("markets", "h2h,spreads,totals")

	path := fmt.Sprintf("/sports/%s/odds?%s", url.PathEscape(sport), params.Encode())

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("oddsapi: list odds for %s: %w", sport, err)
	}

	var games []apiGame
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("oddsapi: decode odds: %w", err)
	}
	return games, nil
}

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

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, string(body))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, string(body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
