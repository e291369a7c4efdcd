// Package quant holds the pure numeric models behind event analysis:
// probability estimation, mispricing detection, position sizing, and
// payoff scenarios. Everything here is deterministic and side-effect free.
package quant

import (
	"math"

	"github.com/polysnap/polysnap/internal/domain"
)

const (
	riskFreeRate = 0.045
	minYears     = 0.001
)

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// EstimateProbability prices the chance that spot finishes above strike at
// expiry under lognormal dynamics. Invalid inputs (non-positive spot,
// strike, or vol) yield a neutral 0.5 estimate flagged as such.
func EstimateProbability(spot, strike, iv, daysToExpiry float64) domain.ProbabilityEstimate {
	if spot <= 0 || strike <= 0 || iv <= 0 {
		return domain.ProbabilityEstimate{
			Spot:            spot,
			Strike:          strike,
			IV:              iv,
			DaysToExpiry:    daysToExpiry,
			ProbAbove:       0.5,
			ProbBelow:       0.5,
			TrueProbability: 0.5,
			Model:           domain.ModelInvalid,
		}
	}

	t := math.Max(daysToExpiry/365.0, minYears)
	d1 := (math.Log(spot/strike) + (riskFreeRate+0.5*iv*iv)*t) / (iv * math.Sqrt(t))
	d2 := d1 - iv*math.Sqrt(t)
	probAbove := normCDF(d2)

	return domain.ProbabilityEstimate{
		Spot:            spot,
		Strike:          strike,
		IV:              iv,
		DaysToExpiry:    daysToExpiry,
		TYears:          t,
		D1:              d1,
		D2:              d2,
		ProbAbove:       probAbove,
		ProbBelow:       1 - probAbove,
		Delta:           normCDF(d1),
		TrueProbability: probAbove,
		Model:           domain.ModelBlackScholes,
	}
}

// MarketImpliedProbability falls back to the market's own YES price when no
// model inputs are available. A missing price degrades to neutral 0.5.
func MarketImpliedProbability(yesPrice float64) domain.ProbabilityEstimate {
	p := yesPrice
	if p <= 0 {
		p = 0.5
	}
	return domain.ProbabilityEstimate{
		ProbAbove:       p,
		ProbBelow:       1 - p,
		TrueProbability: p,
		Model:           domain.ModelMarketImplied,
	}
}
