package quant

import (
	"math"

	"github.com/polysnap/polysnap/internal/domain"
)

const (
	kellyCap      = 0.35
	kellyFraction = 0.75
	minBetUSD     = 5.0
)

// SizePosition sizes both sides of a binary market against a bankroll. The
// NO side is priced at the YES complement with the complementary win
// probability.
func SizePosition(yesPrice, trueProb, bankroll float64) domain.KellySizing {
	return domain.KellySizing{
		Yes: sizeSide(yesPrice, trueProb, bankroll, yesPrice, trueProb),
		No:  sizeSide(1-yesPrice, 1-trueProb, bankroll, yesPrice, trueProb),
	}
}

// sizeSide computes a fractional-Kelly bet for one side. price is the cost
// of the side's share and p its win probability; yesPrice and trueProb are
// the market-level values used for the edge boost.
func sizeSide(price, p, bankroll, yesPrice, trueProb float64) domain.SideSizing {
	if price <= 0 || price >= 1 || p <= 0 {
		return domain.SideSizing{Reason: "Invalid", Confidence: domain.ConfidenceNone}
	}

	b := 1/price - 1
	fullKelly := (b*p - (1 - p)) / b
	fullKelly = math.Max(0, math.Min(fullKelly, kellyCap))

	ev := p*(1/price-1) - (1 - p)
	roiIfWin := (1/price - 1) * 100
	edge := math.Abs(yesPrice - trueProb)

	var pct float64
	var confidence string
	if fullKelly > 0.001 {
		pct = kellyFraction * fullKelly
		confidence = domain.ConfidenceMedium
		if pct >= 0.10 {
			confidence = domain.ConfidenceHigh
		}
	} else {
		// No positive Kelly edge: fall back to a price-banded heuristic
		// where favorites get larger bankroll slices than longshots.
		switch {
		case price >= 0.80:
			pct, confidence = 0.20, domain.ConfidenceHigh
		case price >= 0.65:
			pct, confidence = 0.15, domain.ConfidenceHigh
		case price >= 0.50:
			pct, confidence = 0.12, domain.ConfidenceMedium
		case price >= 0.30:
			pct, confidence = 0.08, domain.ConfidenceMedium
		case price >= 0.10:
			pct, confidence = 0.05, domain.ConfidenceLow
		default:
			pct, confidence = 0.02, domain.ConfidenceLow
		}
		if edge >= 0.05 {
			pct = math.Min(pct*1.3, 0.30)
			if confidence == domain.ConfidenceLow {
				confidence = domain.ConfidenceMedium
			}
		}
		if edge >= 0.10 {
			pct = math.Min(pct*1.5, kellyCap)
			confidence = domain.ConfidenceHigh
		}
	}

	bet := round2(bankroll * pct)
	bet = math.Max(minBetUSD, math.Min(bet, bankroll*kellyCap))
	pct = 0
	if bankroll > 0 {
		pct = bet / bankroll
	}

	return domain.SideSizing{
		Price:        price,
		DecimalOdds:  1 / price,
		TrueProb:     p,
		FullKellyPct: fullKelly * 100,
		PositionPct:  pct * 100,
		BetAmount:    bet,
		EVPerDollar:  ev,
		ROIIfWin:     roiIfWin,
		Confidence:   confidence,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
