package polymarket

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
)

// flexFloat decodes Gamma numeric fields that arrive as either JSON numbers
// or quoted strings depending on the endpoint.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// APIEvent is the Gamma API representation of an event.
type APIEvent struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Slug        string      `json:"slug"`
	Volume      flexFloat   `json:"volume"`
	Liquidity   flexFloat   `json:"liquidity"`
	Volume24hr  flexFloat   `json:"volume24hr"`
	EndDate     string      `json:"endDate"`
	Active      bool        `json:"active"`
	Closed      bool        `json:"closed"`
	Image       string      `json:"image"`
	Markets     []APIMarket `json:"markets"`
}

// APIMarket is the Gamma API representation of a market. OutcomePrices and
// ClobTokenIDs are JSON arrays double-encoded as strings.
type APIMarket struct {
	ID                string    `json:"id"`
	Question          string    `json:"question"`
	OutcomePrices     string    `json:"outcomePrices"`
	ClobTokenIDs      string    `json:"clobTokenIds"`
	Volume            flexFloat `json:"volume"`
	Liquidity         flexFloat `json:"liquidity"`
	Volume24hr        flexFloat `json:"volume24hr"`
	Spread            flexFloat `json:"spread"`
	BestBid           flexFloat `json:"bestBid"`
	BestAsk           flexFloat `json:"bestAsk"`
	LastTradePrice    flexFloat `json:"lastTradePrice"`
	OneDayPriceChange flexFloat `json:"oneDayPriceChange"`
	Slug              string    `json:"slug"`
	ConditionID       string    `json:"conditionId"`
	EndDate           string    `json:"endDate"`
}

var strikeRe = regexp.MustCompile(`\$([0-9,.]+)`)

// ParseStrike extracts a dollar strike from a market question, e.g.
// "Will TSLA close above $1,250?" yields 1250. Returns 0 when absent.
func ParseStrike(question string) float64 {
	m := strikeRe.FindStringSubmatch(question)
	if m == nil {
		return 0
	}
	cleaned := make([]byte, 0, len(m[1]))
	for i := 0; i < len(m[1]); i++ {
		if m[1][i] != ',' {
			cleaned = append(cleaned, m[1][i])
		}
	}
	v, err := strconv.ParseFloat(string(cleaned), 64)
	if err != nil {
		return 0
	}
	return v
}

// Prices decodes the double-encoded outcome prices, returning YES and NO.
// A missing or malformed field yields (0, 0).
func (m *APIMarket) Prices() (yes, no float64) {
	var raw []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &raw); err != nil || len(raw) == 0 {
		return 0, 0
	}
	yes, _ = strconv.ParseFloat(raw[0], 64)
	if len(raw) > 1 {
		no, _ = strconv.ParseFloat(raw[1], 64)
	} else {
		no = 1 - yes
	}
	return yes, no
}

// TokenIDs decodes the double-encoded CLOB token ID pair. The second return
// is false unless both YES and NO tokens are present.
func (m *APIMarket) TokenIDs() ([2]string, bool) {
	var raw []string
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &raw); err != nil || len(raw) < 2 {
		return [2]string{}, false
	}
	return [2]string{raw[0], raw[1]}, true
}

// ToDomainMarket converts the API shape to the domain market.
func (m *APIMarket) ToDomainMarket() domain.Market {
	yes, no := m.Prices()
	out := domain.Market{
		ID:                m.ID,
		Question:          m.Question,
		Strike:            ParseStrike(m.Question),
		YesPrice:          yes,
		NoPrice:           no,
		Volume:            float64(m.Volume),
		Liquidity:         float64(m.Liquidity),
		Volume24h:         float64(m.Volume24hr),
		Spread:            float64(m.Spread),
		BestBid:           float64(m.BestBid),
		BestAsk:           float64(m.BestAsk),
		LastTradePrice:    float64(m.LastTradePrice),
		OneDayPriceChange: float64(m.OneDayPriceChange),
		Slug:              m.Slug,
		ConditionID:       m.ConditionID,
		EndDate:           m.EndDate,
	}
	if ids, ok := m.TokenIDs(); ok {
		out.TokenIDs = ids
	}
	return out
}

// ToDomainEvent converts the API shape to the domain event. Markets are
// sorted by ascending strike; markets without a strike keep their original
// relative order at the front.
func (e *APIEvent) ToDomainEvent() domain.Event {
	out := domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Slug:        e.Slug,
		Volume:      float64(e.Volume),
		Liquidity:   float64(e.Liquidity),
		Volume24h:   float64(e.Volume24hr),
		Active:      e.Active,
		Closed:      e.Closed,
		Image:       e.Image,
	}
	if e.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, e.EndDate); err == nil {
			out.EndDate = &t
		}
	}
	out.Markets = make([]domain.Market, 0, len(e.Markets))
	for i := range e.Markets {
		out.Markets = append(out.Markets, e.Markets[i].ToDomainMarket())
	}
	sort.SliceStable(out.Markets, func(i, j int) bool {
		return out.Markets[i].Strike < out.Markets[j].Strike
	})
	return out
}
