// Package trending scores raw market listings for the discovery surface.
// The score rewards uncertain, volatile, high-ROI markets and penalizes
// near-settled "sure things" that have no upside left.
package trending

import (
	"math"

	"github.com/polysnap/polysnap/internal/domain"
)

// PotentialROI is the return of buying the cheap side and winning, as a
// percent. The cheap side is floored at 5c to keep the ratio bounded.
func PotentialROI(yesPrice float64) float64 {
	cheap := cheapSide(yesPrice)
	return (1/math.Max(cheap, 0.05) - 1) * 100
}

// Score blends uncertainty, ROI potential, volatility, liquidity, and
// recent activity into a 0-100 number, minus penalties for wide spreads and
// near-settled prices.
func Score(m domain.TrendingMarket) float64 {
	cheap := cheapSide(m.YesPrice)
	change := math.Abs(m.Change24h)

	// Uncertainty (max 30): the 10-40c zone is the sweet spot, sub-10c
	// is a foregone conclusion, near 50/50 has uncertainty but thin ROI.
	var uncertainty float64
	switch {
	case cheap <= 0.10:
		uncertainty = cheap * 100
	case cheap <= 0.25:
		uncertainty = 15 + (cheap-0.10)*100
	case cheap <= 0.40:
		uncertainty = 25 + (0.40-cheap)*33
	default:
		uncertainty = 20
	}

	roiScore := math.Min(PotentialROI(m.YesPrice)/300, 1) * 35
	volatility := math.Min(change*100, 15)

	var liqScore float64
	switch {
	case m.Liquidity < 1000:
		liqScore = m.Liquidity / 1000 * 5
	case m.Liquidity < 10000:
		liqScore = 5 + (m.Liquidity-1000)/9000*5
	default:
		liqScore = 10
	}

	activity := math.Min(m.Volume24h/math.Max(m.Volume, 1)*100, 10)
	spreadPenalty := math.Min(m.Spread*100, 10)

	var sureThingPenalty float64
	switch {
	case cheap < 0.08:
		sureThingPenalty = 20
	case cheap < 0.12:
		sureThingPenalty = 10
	}

	total := uncertainty + roiScore + volatility + liqScore + activity - spreadPenalty - sureThingPenalty
	return math.Round(math.Max(total, 0)*10) / 10
}

// Verdict tags a market for the discovery list. HOT needs an uncertain
// price, real ROI potential, and recent activity; OBVIOUS marks markets
// that are effectively settled.
func Verdict(m domain.TrendingMarket) string {
	cheap := cheapSide(m.YesPrice)
	roi := PotentialROI(m.YesPrice)

	uncertain := cheap >= 0.12 && cheap <= 0.42
	highROI := roi >= 150
	volatile := math.Abs(m.Change24h) >= 0.02
	notDead := m.Volume24h >= 100

	switch {
	case uncertain && highROI && notDead:
		return domain.TrendingHot
	case uncertain && (highROI || volatile):
		return domain.TrendingWarm
	case cheap < 0.10:
		return domain.TrendingObvious
	default:
		return domain.TrendingCool
	}
}

// Annotate fills the derived fields on a raw listing in place.
func Annotate(m *domain.TrendingMarket) {
	m.PotentialROI = PotentialROI(m.YesPrice)
	m.Score = Score(*m)
	m.Verdict = Verdict(*m)
}

func cheapSide(yesPrice float64) float64 {
	return math.Min(yesPrice, 1-yesPrice)
}
