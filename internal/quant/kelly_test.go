package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polysnap/polysnap/internal/domain"
)

func TestSizePositionInvalidPrice(t *testing.T) {
	sizing := SizePosition(0, 0.5, 1000)
	assert.False(t, sizing.Yes.Valid())
	assert.Equal(t, "Invalid", sizing.Yes.Reason)
	assert.Equal(t, domain.ConfidenceNone, sizing.Yes.Confidence)
	assert.Equal(t, 0.0, sizing.Yes.BetAmount)
}

func TestSizePositionPositiveEdge(t *testing.T) {
	sizing := SizePosition(0.40, 0.60, 1000)

	yes := sizing.Yes
	assert.True(t, yes.Valid())
	assert.InDelta(t, 33.33, yes.FullKellyPct, 0.01)
	assert.InDelta(t, 25.0, yes.PositionPct, 0.01)
	assert.InDelta(t, 250.0, yes.BetAmount, 0.01)
	assert.Equal(t, domain.ConfidenceHigh, yes.Confidence)
	assert.InDelta(t, 0.50, yes.EVPerDollar, 1e-9)
	assert.InDelta(t, 150.0, yes.ROIIfWin, 1e-9)
}

func TestSizePositionHeuristicFallbackWithEdgeBoost(t *testing.T) {
	// NO side has no Kelly edge (price 0.60, win prob 0.40) but a large
	// market edge, so the banded fallback gets boosted to high confidence.
	sizing := SizePosition(0.40, 0.60, 1000)

	no := sizing.No
	assert.True(t, no.Valid())
	assert.InDelta(t, 0.0, no.FullKellyPct, 1e-9)
	assert.InDelta(t, 234.0, no.BetAmount, 0.01)
	assert.InDelta(t, 23.4, no.PositionPct, 0.01)
	assert.Equal(t, domain.ConfidenceHigh, no.Confidence)
}

func TestSizePositionMinimumBet(t *testing.T) {
	sizing := SizePosition(0.05, 0.05, 100)
	assert.Equal(t, 5.0, sizing.Yes.BetAmount)
	assert.InDelta(t, 5.0, sizing.Yes.PositionPct, 1e-9)
}

func TestSizePositionCapAtBankrollFraction(t *testing.T) {
	// A huge Kelly edge still cannot exceed 35% of bankroll.
	sizing := SizePosition(0.10, 0.90, 1000)
	assert.LessOrEqual(t, sizing.Yes.BetAmount, 350.0)
	assert.InDelta(t, 35.0, sizing.Yes.FullKellyPct, 1e-9)
}

func TestKellySizingSideAccessor(t *testing.T) {
	sizing := SizePosition(0.40, 0.60, 1000)
	assert.Equal(t, sizing.Yes, sizing.Side(domain.SideYes))
	assert.Equal(t, sizing.No, sizing.Side(domain.SideNo))
}

func TestSizePositionZeroBankroll(t *testing.T) {
	// The minimum bet floor still applies but the bankroll fraction must
	// stay finite.
	sizing := SizePosition(0.40, 0.60, 0)
	assert.Equal(t, 0.0, sizing.Yes.PositionPct)
	assert.Equal(t, 0.0, sizing.No.PositionPct)
	assert.Equal(t, 5.0, sizing.Yes.BetAmount)
}
