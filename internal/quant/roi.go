package quant

import "github.com/polysnap/polysnap/internal/domain"

// Scenario computes the payoff of buying shares at buyPrice and exiting at
// sellPrice. Binary markets settle at 1.00, so sellPrice is usually 1.
func Scenario(buyPrice, sellPrice, shares float64) domain.ROIScenario {
	cost := buyPrice * shares
	revenue := sellPrice * shares
	profit := revenue - cost

	var roi float64
	if cost > 0 {
		roi = profit / cost * 100
	}

	return domain.ROIScenario{
		BuyPrice:    buyPrice,
		SellPrice:   sellPrice,
		Shares:      shares,
		BuyCost:     cost,
		SellRevenue: revenue,
		NetProfit:   profit,
		ROIPercent:  roi,
	}
}
