package etherscan

import (
	"math"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/polysnap/polysnap/internal/domain"
)

const (
	whaleThresholdUSD = 1000
	topWallets        = 20
)

type walletTotals struct {
	volume      float64
	txCount     int
	deposits    float64
	withdrawals float64
	maxTx       float64
}

// Summarize aggregates transfers by counterparty wallet. A transfer into
// the exchange contract is a deposit by its sender; anything else is a
// withdrawal to its receiver. The contracts themselves are excluded, the
// top wallets by volume are ranked, and wallets above the whale threshold
// are tagged.
func Summarize(transfers []Transfer) domain.TransferSummary {
	activity := map[common.Address]*walletTotals{}
	var order []common.Address

	for _, t := range transfers {
		wallet := t.To
		deposit := false
		if t.To == ExchangeProxy {
			wallet = t.From
			deposit = true
		}

		w, ok := activity[wallet]
		if !ok {
			w = &walletTotals{}
			activity[wallet] = w
			order = append(order, wallet)
		}
		w.volume += t.AmountUSD
		w.txCount++
		w.maxTx = math.Max(w.maxTx, t.AmountUSD)
		if deposit {
			w.deposits += t.AmountUSD
		} else {
			w.withdrawals += t.AmountUSD
		}
	}

	ranked := make([]common.Address, 0, len(order))
	for _, addr := range order {
		if addr == ExchangeProxy || addr == ConditionalTokens {
			continue
		}
		ranked = append(ranked, addr)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return activity[ranked[i]].volume > activity[ranked[j]].volume
	})

	out := domain.TransferSummary{
		Source:            "Etherscan v2 (Polygon)",
		ContractMonitored: ExchangeProxy.Hex(),
		WalletsAnalyzed:   len(ranked),
	}
	for _, addr := range ranked {
		out.TotalVolumeTracked += activity[addr].volume
	}
	out.TotalVolumeTracked = round2(out.TotalVolumeTracked)

	if len(ranked) > topWallets {
		ranked = ranked[:topWallets]
	}

	var totalDeposits, totalWithdrawals float64
	for _, addr := range ranked {
		w := activity[addr]
		isWhale := w.volume > whaleThresholdUSD
		direction := "NET SELLER"
		if w.deposits > w.withdrawals {
			direction = "NET BUYER"
		}
		tag := "fish"
		if isWhale {
			tag = "WHALE"
			out.WhaleCount++
		}
		totalDeposits += w.deposits
		totalWithdrawals += w.withdrawals

		out.Wallets = append(out.Wallets, domain.WalletActivity{
			Address:        addr.Hex(),
			TotalVolumeUSD: round2(w.volume),
			TxCount:        w.txCount,
			MaxSingleTxUSD: round2(w.maxTx),
			DepositsUSD:    round2(w.deposits),
			WithdrawalsUSD: round2(w.withdrawals),
			NetDirection:   direction,
			IsWhale:        isWhale,
			Tag:            tag,
		})
	}

	out.NetFlowDirection = "NET OUTFLOW (Bearish)"
	if totalDeposits > totalWithdrawals {
		out.NetFlowDirection = "NET INFLOW (Bullish)"
	}
	out.Totals = domain.FlowTotals{
		Deposits:    round2(totalDeposits),
		Withdrawals: round2(totalWithdrawals),
		NetFlow:     round2(totalDeposits - totalWithdrawals),
		WhaleCount:  out.WhaleCount,
		FishCount:   len(out.Wallets) - out.WhaleCount,
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
