package strategy

import (
	"math"

	"github.com/polysnap/polysnap/internal/domain"
)

// Select scans every analyzed market's YES and NO sides and returns the
// single highest-scoring play. Ties keep the earlier candidate, so the
// market order of the event is significant. Sides with invalid sizing are
// skipped; when nothing scores, the returned strategy has no BestSide.
func Select(analyses []domain.MarketAnalysis, multiChoice bool, bankroll float64) domain.Strategy {
	out := domain.Strategy{
		MultiChoice: multiChoice,
		NumMarkets:  len(analyses),
	}

	questions := make([]string, len(analyses))
	for i, a := range analyses {
		questions[i] = a.Question
	}

	bestScore := math.Inf(-1)
	found := false

	for _, a := range analyses {
		for _, side := range []domain.Side{domain.SideYes, domain.SideNo} {
			sizing := a.Sizing.Side(side)
			if !sizing.Valid() {
				continue
			}

			roi := a.ROIYesWins.ROIPercent
			if side == domain.SideNo {
				roi = a.ROINoWins.ROIPercent
			}

			score := scoreSide(sizing, roi, a.Market.Volume, bankroll)
			if score > bestScore {
				bestScore = score
				found = true
				applyWinner(&out, a, side, sizing, bankroll)
			}
		}
	}

	if found && multiChoice {
		out.BestMarketShort = ShortLabel(out.BestMarket, questions)
	}
	return out
}

// scoreSide blends five signals into a single comparable number. The
// weights are tuned so a high-probability side with decent expected return
// beats a longshot with a huge nominal ROI.
func scoreSide(sizing domain.SideSizing, roi, volume, bankroll float64) float64 {
	probScore := sizing.Price * 40

	var returnScore float64
	if roi > 0 {
		expectedReturn := sizing.BetAmount * (roi / 100) * sizing.Price
		returnScore = math.Min(expectedReturn/10, 20)
	}

	evScore := math.Max(sizing.EVPerDollar*50, 0)
	volScore := math.Min(volume/3000, 8)

	var posScore float64
	if bankroll > 0 {
		posScore = math.Min(sizing.BetAmount/(bankroll*0.05), 5)
	}

	var roiScore float64
	switch {
	case roi >= 5 && roi <= 100:
		roiScore = 10
	case roi > 100 && roi <= 300:
		roiScore = 5
	case roi > 300:
		roiScore = 1
	default:
		roiScore = 3
	}

	return probScore + returnScore + evScore + volScore + posScore + roiScore
}

func applyWinner(out *domain.Strategy, a domain.MarketAnalysis, side domain.Side, sizing domain.SideSizing, bankroll float64) {
	position := sizing.BetAmount
	if position <= 0 {
		position = math.Round(bankroll*0.05*100) / 100
	}

	potentialProfit := position * (1/sizing.Price - 1)
	maxLoss := position

	var riskReward float64
	if maxLoss > 0 {
		riskReward = potentialProfit / maxLoss
	}

	out.BestMarket = a.Question
	out.BestMarketShort = a.Question
	out.BestSide = side
	out.BestEV = sizing.EVPerDollar
	out.RecommendedPosition = position
	out.PositionPct = sizing.PositionPct
	out.Confidence = sizing.Confidence
	out.MaxLoss = maxLoss
	out.EntryPrice = sizing.Price
	out.ROIIfWin = sizing.ROIIfWin
	out.PotentialProfit = potentialProfit
	out.RiskReward = riskReward
}
