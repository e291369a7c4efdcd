package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioRoundTrip(t *testing.T) {
	sc := Scenario(0.25, 1.0, 100)
	assert.Equal(t, 25.0, sc.BuyCost)
	assert.Equal(t, 100.0, sc.SellRevenue)
	assert.Equal(t, 75.0, sc.NetProfit)
	assert.InDelta(t, 300.0, sc.ROIPercent, 1e-9)
}

func TestScenarioZeroCost(t *testing.T) {
	sc := Scenario(0, 1.0, 100)
	assert.Equal(t, 0.0, sc.ROIPercent)
	assert.Equal(t, 100.0, sc.NetProfit)
}

func TestScenarioLoss(t *testing.T) {
	sc := Scenario(0.80, 0.50, 10)
	assert.InDelta(t, -3.0, sc.NetProfit, 1e-9)
	assert.InDelta(t, -37.5, sc.ROIPercent, 1e-9)
}
