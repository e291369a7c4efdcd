package etherscan

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

var (
	walletA = common.HexToAddress("0x1111111111111111111111111111111111111111")
	walletB = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestSummarizeDepositsAndWithdrawals(t *testing.T) {
	transfers := []Transfer{
		{From: walletA, To: ExchangeProxy, AmountUSD: 1500}, // deposit by A
		{From: ExchangeProxy, To: walletA, AmountUSD: 200},  // withdrawal to A
		{From: walletB, To: ExchangeProxy, AmountUSD: 50},   // deposit by B
	}

	sum := Summarize(transfers)
	assert.Equal(t, 2, sum.WalletsAnalyzed)
	assert.Equal(t, 1, sum.WhaleCount)
	assert.Equal(t, 1750.0, sum.TotalVolumeTracked)
	assert.Equal(t, "NET INFLOW (Bullish)", sum.NetFlowDirection)

	a := sum.Wallets[0]
	assert.Equal(t, walletA.Hex(), a.Address)
	assert.Equal(t, 1700.0, a.TotalVolumeUSD)
	assert.Equal(t, 2, a.TxCount)
	assert.Equal(t, 1500.0, a.MaxSingleTxUSD)
	assert.Equal(t, "NET BUYER", a.NetDirection)
	assert.True(t, a.IsWhale)
	assert.Equal(t, "WHALE", a.Tag)

	b := sum.Wallets[1]
	assert.False(t, b.IsWhale)
	assert.Equal(t, "fish", b.Tag)
}

func TestSummarizeExcludesProtocolContracts(t *testing.T) {
	transfers := []Transfer{
		{From: ExchangeProxy, To: ConditionalTokens, AmountUSD: 5000},
		{From: walletA, To: ExchangeProxy, AmountUSD: 100},
	}

	sum := Summarize(transfers)
	assert.Equal(t, 1, sum.WalletsAnalyzed)
	assert.Equal(t, walletA.Hex(), sum.Wallets[0].Address)
}

func TestSummarizeNetOutflow(t *testing.T) {
	transfers := []Transfer{
		{From: ExchangeProxy, To: walletA, AmountUSD: 900},
		{From: walletA, To: ExchangeProxy, AmountUSD: 100},
	}

	sum := Summarize(transfers)
	assert.Equal(t, "NET OUTFLOW (Bearish)", sum.NetFlowDirection)
	assert.Equal(t, "NET SELLER", sum.Wallets[0].NetDirection)
	assert.Equal(t, -800.0, sum.Totals.NetFlow)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	assert.Equal(t, 0, sum.WalletsAnalyzed)
	assert.Empty(t, sum.Wallets)
	assert.Equal(t, "NET OUTFLOW (Bearish)", sum.NetFlowDirection)
}
