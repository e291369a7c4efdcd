package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polysnap/polysnap/internal/domain"
)

func TestDetectMispricingArbitrage(t *testing.T) {
	sig := DetectMispricing(0.50, 0.60)
	assert.Equal(t, domain.VerdictArbitrage, sig.Verdict)
	assert.Equal(t, domain.RecBuyYes, sig.Recommendation)
	assert.Equal(t, "underpriced", sig.Mispricing)
	assert.InDelta(t, 0.10, sig.EdgeAbsolute, 1e-12)
	assert.InDelta(t, 16.667, sig.EdgePercent, 0.01)
}

func TestDetectMispricingFair(t *testing.T) {
	sig := DetectMispricing(0.50, 0.505)
	assert.Equal(t, domain.VerdictFair, sig.Verdict)
	assert.Equal(t, domain.RecPass, sig.Recommendation)
	assert.Equal(t, "fair", sig.Mispricing)
}

func TestDetectMispricingCheap(t *testing.T) {
	sig := DetectMispricing(0.47, 0.50)
	assert.Equal(t, domain.VerdictCheap, sig.Verdict)
	assert.Equal(t, domain.RecBuyYes, sig.Recommendation)
}

func TestDetectMispricingExpensive(t *testing.T) {
	sig := DetectMispricing(0.55, 0.50)
	assert.Equal(t, domain.VerdictExpensive, sig.Verdict)
	assert.Equal(t, domain.RecBuyNo, sig.Recommendation)
	assert.Equal(t, "overpriced", sig.Mispricing)
}

func TestDetectMispricingZeroProb(t *testing.T) {
	sig := DetectMispricing(0.05, 0)
	assert.Equal(t, 0.0, sig.EdgePercent)
}
