package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polysnap/polysnap/internal/domain"
)

// buildPrompt renders the consolidated analysis into the report prompt.
// The prompt pushes hard toward high-probability, realistically sized
// positions rather than longshot ROI headlines.
func buildPrompt(result *domain.AnalysisResult) string {
	numMarkets := len(result.Analyses)

	var marketLines []string
	shown := result.Analyses
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, a := range shown {
		best := a.Sizing.Yes
		bestSide := domain.SideYes
		if a.Sizing.No.BetAmount > a.Sizing.Yes.BetAmount {
			best = a.Sizing.No
			bestSide = domain.SideNo
		}
		marketLines = append(marketLines, fmt.Sprintf(
			"- %s: YES=%.1f%%, Vol=$%.0f, Best=%s $%.0f (%.0f%% ROI)",
			a.Question, a.Market.YesPrice*100, a.Market.Volume,
			bestSide, best.BetAmount, best.ROIIfWin,
		))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AGGRESSIVE prediction market analyst. You ALWAYS recommend a position to enter. NEVER say \"PASS\" or \"wait\". Every market has an opportunity.\n\n")
	fmt.Fprintf(&b, "Generate a concise but ACTIONABLE analysis report for this event.\n\n")
	fmt.Fprintf(&b, "EVENT: %s\nBUDGET: $%.0f\nNUMBER OF MARKETS: %d\n", result.Event.Title, result.Bankroll, numMarkets)

	if numMarkets > 1 {
		fmt.Fprintf(&b, "\nNOTE: This is a MULTI-CHOICE event with %d markets/outcomes.\n", numMarkets)
		b.WriteString("You MUST specify the EXACT outcome/company/person to bet on by name.\n")
		b.WriteString("Each market is a separate bet — be specific about WHICH one.\n")
	}

	fmt.Fprintf(&b, "\nMARKETS:\n%s\n", strings.Join(marketLines, "\n"))

	if result.Strategy.BestMarket != "" {
		st := result.Strategy
		fmt.Fprintf(&b, "\nSTRATEGY ENGINE RECOMMENDATION:\n")
		fmt.Fprintf(&b, "- Best Market: %s\n- Side: %s\n", st.BestMarket, st.BestSide)
		fmt.Fprintf(&b, "- Position Size: $%.0f (%.1f%% of bankroll)\n", st.RecommendedPosition, st.PositionPct)
		fmt.Fprintf(&b, "- Confidence: %s\n- Potential Profit: $%.0f\n- Risk/Reward: %.1fx\n",
			st.Confidence, st.PotentialProfit, st.RiskReward)
	}

	if flows, err := json.MarshalIndent(result.Transfers.Totals, "", "  "); err == nil {
		fmt.Fprintf(&b, "\nWHALE ACTIVITY:\n%s\n", flows)
	}

	b.WriteString(`
Write a brief report with:
1. **Executive Summary** - 2-3 sentences on the event and the best realistic trade.
2. **Primary Trade** - The MAIN recommendation. Focus on the MOST LIKELY outcome. Name the SPECIFIC market. Calculate the realistic ROI. Recommend a large position size (15-25% of bankroll for high-probability bets).
3. **Position Details** - SPECIFIC dollar amount, side, and market name. Format: "Buy [YES/NO] on [SPECIFIC MARKET NAME] — $X (Y% of bankroll) → Z% ROI if correct".
4. **Key Risks** - Top 2 risks, but frame them as manageable.

CRITICAL RULES:
- ALWAYS recommend entering a trade. NEVER say "PASS" or "wait".
- ALWAYS name the SPECIFIC market/outcome — never just say "YES" or "NO" generically.
- PRIORITIZE high-probability outcomes with REALISTIC ROI (5-30% returns on big positions).
- The user wants to ACTUALLY COLLECT profits, not gamble on longshots.
- Bet SIZE matters: a large bet with modest ROI usually beats a tiny bet with spectacular ROI.
- For multi-choice events: lead with the favorite/most-likely outcome, then optionally mention a smaller speculative side bet.

Keep it under 500 words. Be specific with numbers and position sizes.`)

	return b.String()
}
