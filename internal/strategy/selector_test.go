package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polysnap/polysnap/internal/domain"
)

func analysisFixture(question string, yesPrice, volume, bankroll float64) domain.MarketAnalysis {
	noPrice := 1 - yesPrice
	return domain.MarketAnalysis{
		Question: question,
		Market:   domain.MarketSnapshot{YesPrice: yesPrice, NoPrice: noPrice, Volume: volume},
		Sizing: domain.KellySizing{
			Yes: domain.SideSizing{
				Price:       yesPrice,
				BetAmount:   bankroll * 0.10,
				PositionPct: 10,
				EVPerDollar: 0.1,
				ROIIfWin:    (1/yesPrice - 1) * 100,
				Confidence:  domain.ConfidenceMedium,
			},
			No: domain.SideSizing{
				Price:       noPrice,
				BetAmount:   bankroll * 0.10,
				PositionPct: 10,
				EVPerDollar: 0.05,
				ROIIfWin:    (1/noPrice - 1) * 100,
				Confidence:  domain.ConfidenceLow,
			},
		},
		ROIYesWins: domain.ROIScenario{ROIPercent: (1/yesPrice - 1) * 100},
		ROINoWins:  domain.ROIScenario{ROIPercent: (1/noPrice - 1) * 100},
	}
}

func TestSelectEmpty(t *testing.T) {
	st := Select(nil, false, 1000)
	assert.Empty(t, st.BestSide)
	assert.Equal(t, 0, st.NumMarkets)
}

func TestSelectSkipsInvalidSides(t *testing.T) {
	a := analysisFixture("Will TSLA close above $250?", 0.60, 50000, 1000)
	a.Sizing.Yes = domain.SideSizing{Reason: "Invalid", Confidence: domain.ConfidenceNone}

	st := Select([]domain.MarketAnalysis{a}, false, 1000)
	assert.Equal(t, domain.SideNo, st.BestSide)
}

func TestSelectAllInvalid(t *testing.T) {
	a := analysisFixture("Will TSLA close above $250?", 0.60, 50000, 1000)
	a.Sizing.Yes = domain.SideSizing{Reason: "Invalid"}
	a.Sizing.No = domain.SideSizing{Reason: "Invalid"}

	st := Select([]domain.MarketAnalysis{a}, false, 1000)
	assert.Empty(t, st.BestSide)
	assert.Equal(t, 1, st.NumMarkets)
}

func TestSelectPrefersHigherProbabilitySide(t *testing.T) {
	// Equal sizing everywhere: the 0.80 side dominates through the
	// probability weight despite its lower nominal ROI.
	a := analysisFixture("Will TSLA close above $250?", 0.80, 0, 1000)
	a.Sizing.Yes.EVPerDollar = 0
	a.Sizing.No.EVPerDollar = 0

	st := Select([]domain.MarketAnalysis{a}, false, 1000)
	assert.Equal(t, domain.SideYes, st.BestSide)
	assert.Equal(t, 0.80, st.EntryPrice)
}

func TestSelectTieKeepsFirstMarket(t *testing.T) {
	a := analysisFixture("Will TSLA close above $250?", 0.60, 10000, 1000)
	b := analysisFixture("Will TSLA close above $260?", 0.60, 10000, 1000)

	st := Select([]domain.MarketAnalysis{a, b}, false, 1000)
	assert.Equal(t, "Will TSLA close above $250?", st.BestMarket)
}

func TestSelectWinnerFields(t *testing.T) {
	a := analysisFixture("Will TSLA close above $250?", 0.50, 20000, 1000)

	st := Select([]domain.MarketAnalysis{a}, false, 1000)
	assert.Equal(t, domain.SideYes, st.BestSide)
	assert.Equal(t, 100.0, st.RecommendedPosition)
	assert.Equal(t, 100.0, st.MaxLoss)
	assert.InDelta(t, 100.0, st.PotentialProfit, 1e-9)
	assert.InDelta(t, 1.0, st.RiskReward, 1e-9)
}

func TestSelectPositionFallbackWhenBetZero(t *testing.T) {
	a := analysisFixture("Will TSLA close above $250?", 0.50, 20000, 1000)
	a.Sizing.Yes.BetAmount = 0
	a.Sizing.No = domain.SideSizing{Reason: "Invalid"}

	st := Select([]domain.MarketAnalysis{a}, false, 1000)
	assert.Equal(t, 50.0, st.RecommendedPosition)
}

func TestSelectMultiChoiceShortLabel(t *testing.T) {
	a := analysisFixture("Will the Lakers win the 2026 NBA Finals?", 0.30, 10000, 1000)
	b := analysisFixture("Will the Celtics win the 2026 NBA Finals?", 0.45, 80000, 1000)

	st := Select([]domain.MarketAnalysis{a, b}, true, 1000)
	assert.True(t, st.MultiChoice)
	assert.Equal(t, "Celtics", st.BestMarketShort)
}

func TestShortLabelFallbackTruncates(t *testing.T) {
	q := "Will the market close above the level that everyone expects it to?"
	label := ShortLabel(q, []string{q, q})
	assert.LessOrEqual(t, len(label), 40)
}
