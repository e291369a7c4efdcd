package etherscan

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/polysnap/polysnap/internal/domain"
)

const walletTradeLimit = 20

// WalletTrades lists a wallet's recent token transfers as inferred trades,
// newest first, capped at 20.
func (c *Client) WalletTrades(ctx context.Context, address common.Address) ([]domain.WalletTrade, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("etherscan: no API key configured")
	}

	params := url.Values{}
	params.Set("offset", "50")

	raw, err := c.tokenTransfers(ctx, address, params)
	if err != nil {
		return nil, err
	}
	return walletTradesFrom(raw, time.Now()), nil
}

// walletTradesFrom classifies raw transfers as trades. A transfer into the
// exchange contract is collateral posted for a buy, anything else a sell.
func walletTradesFrom(raw []apiTransfer, now time.Time) []domain.WalletTrade {
	trades := make([]domain.WalletTrade, 0, walletTradeLimit)
	for _, t := range raw {
		if len(trades) == walletTradeLimit {
			break
		}
		value, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			continue
		}

		side := "sell"
		if common.HexToAddress(t.To) == ExchangeProxy {
			side = "buy"
		}
		name := t.TokenName
		if name == "" {
			name = "USDC"
		}
		ts, _ := strconv.ParseInt(t.TimeStamp, 10, 64)

		trades = append(trades, domain.WalletTrade{
			Side:       side,
			MarketName: name,
			Amount:     value / math.Pow10(tokenDecimals(t)),
			Timestamp:  time.Unix(ts, 0).UTC().Format(time.RFC3339),
			TimeAgo:    timeAgo(ts, now),
			TxHash:     t.Hash,
		})
	}
	return trades
}

// timeAgo renders a unix timestamp as a coarse relative age.
func timeAgo(ts int64, now time.Time) string {
	if ts == 0 {
		return "-"
	}
	secs := now.Unix() - ts
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds ago", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh ago", secs/3600)
	default:
		return fmt.Sprintf("%dd ago", secs/86400)
	}
}
