package etherscan

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletTradesFromClassifiesSides(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := []apiTransfer{
		{
			From:         walletA.Hex(),
			To:           ExchangeProxy.Hex(),
			Value:        "2500000000", // 2500 USDC at 6 decimals
			TokenDecimal: "6",
			TokenName:    "USD Coin (PoS)",
			TimeStamp:    strconv.FormatInt(now.Unix()-90, 10),
			Hash:         "0xaaa",
		},
		{
			From:         ExchangeProxy.Hex(),
			To:           walletA.Hex(),
			Value:        "1000000",
			TokenDecimal: "6",
			TimeStamp:    strconv.FormatInt(now.Unix()-7200, 10),
			Hash:         "0xbbb",
		},
		{Value: "not-a-number"}, // dropped
	}

	trades := walletTradesFrom(raw, now)
	require.Len(t, trades, 2)

	buy := trades[0]
	assert.Equal(t, "buy", buy.Side)
	assert.Equal(t, "USD Coin (PoS)", buy.MarketName)
	assert.Equal(t, 2500.0, buy.Amount)
	assert.Equal(t, "1m ago", buy.TimeAgo)
	assert.Equal(t, "0xaaa", buy.TxHash)
	assert.Nil(t, buy.Price)
	assert.Nil(t, buy.MarketImage)

	sell := trades[1]
	assert.Equal(t, "sell", sell.Side)
	assert.Equal(t, "USDC", sell.MarketName) // name defaults when absent
	assert.Equal(t, "2h ago", sell.TimeAgo)
}

func TestWalletTradesFromCapsAtTwenty(t *testing.T) {
	raw := make([]apiTransfer, 30)
	for i := range raw {
		raw[i] = apiTransfer{
			From:         walletA.Hex(),
			To:           walletB.Hex(),
			Value:        "1000000",
			TokenDecimal: "6",
		}
	}

	trades := walletTradesFrom(raw, time.Now())
	assert.Len(t, trades, walletTradeLimit)
}

func TestTimeAgo(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, "-", timeAgo(0, now))
	assert.Equal(t, "45s ago", timeAgo(now.Unix()-45, now))
	assert.Equal(t, "30m ago", timeAgo(now.Unix()-1800, now))
	assert.Equal(t, "5h ago", timeAgo(now.Unix()-18000, now))
	assert.Equal(t, "3d ago", timeAgo(now.Unix()-86400*3, now))
}
