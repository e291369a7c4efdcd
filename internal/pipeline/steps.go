package pipeline

// StepLabels are the user-facing progress labels, one per pipeline step.
var StepLabels = [...]string{
	"Fetching Polymarket event data...",
	"Fetching stock/asset data...",
	"Running probability models...",
	"Fetching sports odds (if applicable)...",
	"Searching Kalshi for cross-platform opportunities...",
	"Tracking whale wallets on Polygon...",
	"Fetching CLOB orderbook depth...",
	"Calculating Kelly sizing & strategy...",
	"Generating AI analysis report...",
	"Finalizing results...",
}

// TotalSteps is the number of pipeline steps reported to pollers.
const TotalSteps = len(StepLabels)
