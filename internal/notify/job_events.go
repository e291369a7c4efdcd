package notify

import (
	"context"
	"fmt"

	"github.com/polysnap/polysnap/internal/domain"
)

// Event types emitted by the analysis pipeline.
const (
	EventAnalysisCompleted = "analysis_completed"
	EventAnalysisFailed    = "analysis_failed"
)

// JobFinished forwards a terminal job transition to the configured
// channels. Non-terminal jobs and delivery failures are ignored; the
// pipeline must never block on notification plumbing.
func (n *Notifier) JobFinished(ctx context.Context, job domain.Job) {
	switch job.Status {
	case domain.JobStatusCompleted:
		title := "Analysis completed"
		message := fmt.Sprintf("Job %s finished.", job.ID)
		if job.Result != nil {
			st := job.Result.Strategy
			message = fmt.Sprintf("%s\nBest: %s %s at $%.2f (%s confidence)",
				job.Result.Event.Title, st.BestSide, st.BestMarketShort,
				st.RecommendedPosition, st.Confidence)
		}
		_ = n.Notify(ctx, EventAnalysisCompleted, title, message)
	case domain.JobStatusError:
		_ = n.Notify(ctx, EventAnalysisFailed, "Analysis failed",
			fmt.Sprintf("Job %s: %s", job.ID, job.Error))
	}
}
