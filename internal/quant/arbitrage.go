package quant

import (
	"math"

	"github.com/polysnap/polysnap/internal/domain"
)

const (
	arbitrageEdge = 0.08
	fairEdge      = 0.02
	passEdge      = 0.01
)

// DetectMispricing compares a market YES price to a model probability and
// classifies the gap. Both inputs are probabilities in [0, 1].
func DetectMispricing(price, prob float64) domain.ArbitrageSignal {
	edge := math.Abs(price - prob)

	var edgePct float64
	if prob > 0 {
		edgePct = edge / prob * 100
	}

	var verdict string
	switch {
	case edge >= arbitrageEdge:
		verdict = domain.VerdictArbitrage
	case edge < fairEdge:
		verdict = domain.VerdictFair
	case price < prob:
		verdict = domain.VerdictCheap
	default:
		verdict = domain.VerdictExpensive
	}

	var rec, mispricing string
	switch {
	case edge < passEdge:
		rec = domain.RecPass
		mispricing = "fair"
	case price < prob:
		rec = domain.RecBuyYes
		mispricing = "underpriced"
	default:
		rec = domain.RecBuyNo
		mispricing = "overpriced"
	}

	return domain.ArbitrageSignal{
		Verdict:         verdict,
		Recommendation:  rec,
		EdgeAbsolute:    edge,
		EdgePercent:     edgePct,
		MarketYes:       price,
		TrueProbability: prob,
		Mispricing:      mispricing,
	}
}
