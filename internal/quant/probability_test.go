package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polysnap/polysnap/internal/domain"
)

func TestEstimateProbabilityInvalidInputs(t *testing.T) {
	est := EstimateProbability(0, 250, 0.30, 7)
	assert.Equal(t, domain.ModelInvalid, est.Model)
	assert.Equal(t, 0.5, est.TrueProbability)

	est = EstimateProbability(255, 250, 0, 7)
	assert.Equal(t, domain.ModelInvalid, est.Model)
	assert.Equal(t, 0.5, est.ProbAbove)
}

func TestEstimateProbabilityAtTheMoney(t *testing.T) {
	est := EstimateProbability(250, 250, 0.30, 7)
	assert.Equal(t, domain.ModelBlackScholes, est.Model)
	assert.InDelta(t, 0.5, est.ProbAbove, 0.01)
	assert.InDelta(t, 1.0, est.ProbAbove+est.ProbBelow, 1e-12)
}

func TestEstimateProbabilityDeepInTheMoney(t *testing.T) {
	est := EstimateProbability(300, 150, 0.30, 7)
	assert.Greater(t, est.ProbAbove, 0.99)
	assert.Greater(t, est.Delta, est.ProbAbove)
}

func TestEstimateProbabilityMonotonicInStrike(t *testing.T) {
	low := EstimateProbability(250, 200, 0.40, 14)
	high := EstimateProbability(250, 300, 0.40, 14)
	assert.Greater(t, low.ProbAbove, high.ProbAbove)
}

func TestMarketImpliedProbability(t *testing.T) {
	est := MarketImpliedProbability(0.62)
	assert.Equal(t, domain.ModelMarketImplied, est.Model)
	assert.Equal(t, 0.62, est.TrueProbability)
	assert.InDelta(t, 0.38, est.ProbBelow, 1e-12)
}

func TestMarketImpliedProbabilityMissingPrice(t *testing.T) {
	est := MarketImpliedProbability(0)
	assert.Equal(t, 0.5, est.TrueProbability)
}
