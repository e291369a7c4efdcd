package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrike(t *testing.T) {
	assert.Equal(t, 250.0, ParseStrike("Will TSLA close above $250?"))
	assert.Equal(t, 1250.5, ParseStrike("Will it reach $1,250.50 this week?"))
	assert.Equal(t, 0.0, ParseStrike("Will the Lakers win the Finals?"))
}

func TestMarketPricesDoubleEncoded(t *testing.T) {
	m := APIMarket{OutcomePrices: `["0.62", "0.38"]`}
	yes, no := m.Prices()
	assert.Equal(t, 0.62, yes)
	assert.Equal(t, 0.38, no)
}

func TestMarketPricesMalformed(t *testing.T) {
	m := APIMarket{OutcomePrices: `not json`}
	yes, no := m.Prices()
	assert.Equal(t, 0.0, yes)
	assert.Equal(t, 0.0, no)
}

func TestMarketTokenIDs(t *testing.T) {
	m := APIMarket{ClobTokenIDs: `["11111", "22222"]`}
	ids, ok := m.TokenIDs()
	assert.True(t, ok)
	assert.Equal(t, "11111", ids[0])
	assert.Equal(t, "22222", ids[1])

	m = APIMarket{ClobTokenIDs: `["11111"]`}
	_, ok = m.TokenIDs()
	assert.False(t, ok)
}

func TestFlexFloatAcceptsStringAndNumber(t *testing.T) {
	var m APIMarket
	err := json.Unmarshal([]byte(`{"volume": "12345.6", "liquidity": 789}`), &m)
	assert.NoError(t, err)
	assert.Equal(t, 12345.6, float64(m.Volume))
	assert.Equal(t, 789.0, float64(m.Liquidity))
}

func TestToDomainEventSortsByStrike(t *testing.T) {
	e := APIEvent{
		Title: "TSLA weekly close",
		Markets: []APIMarket{
			{Question: "Will TSLA close above $300?", OutcomePrices: `["0.1","0.9"]`},
			{Question: "Will TSLA close above $200?", OutcomePrices: `["0.9","0.1"]`},
			{Question: "Will TSLA close above $250?", OutcomePrices: `["0.5","0.5"]`},
		},
	}

	ev := e.ToDomainEvent()
	assert.Equal(t, 200.0, ev.Markets[0].Strike)
	assert.Equal(t, 250.0, ev.Markets[1].Strike)
	assert.Equal(t, 300.0, ev.Markets[2].Strike)
	assert.True(t, ev.HasStrikes())
}
