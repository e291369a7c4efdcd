// Package pipeline runs the ten-step event analysis: fetch the event,
// enrich it from the collectors, run the quantitative models, and persist
// progress and the final result through the job store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polysnap/polysnap/internal/domain"
	"github.com/polysnap/polysnap/internal/quant"
	"github.com/polysnap/polysnap/internal/strategy"
)

// EventSource resolves a Polymarket event slug to its full market set.
type EventSource interface {
	GetEventBySlug(ctx context.Context, slug string) (domain.Event, error)
}

// QuoteSource fetches an equity quote for a ticker.
type QuoteSource interface {
	GetQuote(ctx context.Context, ticker string) (*domain.EquityQuote, error)
}

// OddsSource fetches bookmaker odds for a sports event title.
type OddsSource interface {
	FetchOdds(ctx context.Context, eventTitle string) domain.SportsOdds
}

// VenueSource searches a secondary prediction venue by keywords.
type VenueSource interface {
	Compare(ctx context.Context, keywords []string) domain.VenueComparison
}

// WhaleSource fetches recent on-chain transfer activity.
type WhaleSource interface {
	FetchActivity(ctx context.Context) domain.TransferSummary
}

// BookSource fetches order-book depth for one outcome token.
type BookSource interface {
	FetchBookSide(ctx context.Context, tokenID string) (domain.BookSide, error)
}

// ReportSource writes the narrative report. It degrades internally and
// never fails the pipeline.
type ReportSource interface {
	GenerateReport(ctx context.Context, result *domain.AnalysisResult) string
}

// Notifier is told about terminal job transitions.
type Notifier interface {
	JobFinished(ctx context.Context, job domain.Job)
}

const (
	defaultIV      = 0.30
	defaultBudget  = 1000.0
	fatalStepError = "Event not found"
)

// Analyzer orchestrates one analysis job end to end. Every collector except
// the event fetch is soft: a failure degrades into an error-tagged section
// of the result instead of failing the job.
type Analyzer struct {
	jobs     domain.JobStore
	events   EventSource
	quotes   QuoteSource
	odds     OddsSource
	venue    VenueSource
	whales   WhaleSource
	books    BookSource
	reports  ReportSource
	notifier Notifier
	logger   *slog.Logger
}

// NewAnalyzer wires an analyzer. notifier may be nil.
func NewAnalyzer(
	jobs domain.JobStore,
	events EventSource,
	quotes QuoteSource,
	odds OddsSource,
	venue VenueSource,
	whales WhaleSource,
	books BookSource,
	reports ReportSource,
	notifier Notifier,
	logger *slog.Logger,
) *Analyzer {
	return &Analyzer{
		jobs:     jobs,
		events:   events,
		quotes:   quotes,
		odds:     odds,
		venue:    venue,
		whales:   whales,
		books:    books,
		reports:  reports,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "analyzer")),
	}
}

// Start creates the job record and returns its initial state. The caller
// submits the actual run to a worker pool.
func (a *Analyzer) Start(ctx context.Context, jobID string) (domain.Job, error) {
	now := time.Now().UTC()
	job := domain.Job{
		ID:         jobID,
		Status:     domain.JobStatusRunning,
		Step:       0,
		TotalSteps: TotalSteps,
		StepLabel:  "Starting...",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.jobs.Create(ctx, job); err != nil {
		return domain.Job{}, fmt.Errorf("pipeline: create job: %w", err)
	}
	return job, nil
}

// Run executes the full pipeline for one job. budget <= 0 falls back to the
// default bankroll.
func (a *Analyzer) Run(ctx context.Context, jobID, slug string, budget float64) {
	if budget <= 0 {
		budget = defaultBudget
	}
	log := a.logger.With(slog.String("job_id", jobID), slog.String("slug", slug))
	log.Info("analysis started", slog.Float64("budget", budget))

	// Step 1: the only fatal step.
	a.progress(ctx, jobID, 1)
	event, err := a.events.GetEventBySlug(ctx, slug)
	if err != nil {
		msg := fatalStepError
		if !errors.Is(err, domain.ErrNotFound) {
			msg = err.Error()
		}
		log.Error("event fetch failed", slog.Any("error", err))
		a.fail(ctx, jobID, msg)
		return
	}

	ticker := ExtractTicker(event.Title)
	isSports := IsSportsEvent(event.Title)
	hasStrikes := event.HasStrikes()
	days := DaysToExpiry(event.EndDate, time.Now().UTC())

	// Step 2: equity quote, only meaningful for strike ladders tied to a
	// tradable ticker.
	a.progress(ctx, jobID, 2)
	var quote *domain.EquityQuote
	spot, iv := 0.0, defaultIV
	if ticker != "" && hasStrikes {
		q, err := a.quotes.GetQuote(ctx, ticker)
		if err != nil {
			log.Warn("quote fetch failed", slog.String("ticker", ticker), slog.Any("error", err))
		} else {
			quote = q
			spot = q.Spot
			iv = q.ImpliedVol
		}
	}

	// Step 3: probability, mispricing, sizing, and payoff per market.
	a.progress(ctx, jobID, 3)
	analyses := a.analyzeMarkets(event.Markets, hasStrikes, spot, iv, days, budget)

	// Step 4: sports odds.
	a.progress(ctx, jobID, 4)
	var odds domain.SportsOdds
	if isSports {
		odds = a.odds.FetchOdds(ctx, event.Title)
	}

	// Step 5: secondary venue comparison.
	a.progress(ctx, jobID, 5)
	venue := a.venue.Compare(ctx, SearchKeywords(event.Title, ticker))

	// Step 6: on-chain whale activity.
	a.progress(ctx, jobID, 6)
	transfers := a.whales.FetchActivity(ctx)

	// Step 7: order-book depth.
	a.progress(ctx, jobID, 7)
	books := a.fetchBooks(ctx, event.Markets)

	// Step 8: pick the single best play.
	a.progress(ctx, jobID, 8)
	best := strategy.Select(analyses, event.MultiChoice(), budget)

	result := &domain.AnalysisResult{
		GeneratedAt:  time.Now().UTC(),
		Event:        event,
		Quote:        quote,
		DaysToExpiry: days,
		Analyses:     analyses,
		SportsOdds:   odds,
		Venue:        venue,
		Transfers:    transfers,
		Books:        books,
		Strategy:     best,
		Bankroll:     budget,
		Ticker:       ticker,
		IsSports:     isSports,
	}

	// Step 9: narrative report (never fatal).
	a.progress(ctx, jobID, 9)
	result.Report = a.reports.GenerateReport(ctx, result)

	// Step 10: finalize.
	a.progress(ctx, jobID, 10)
	a.complete(ctx, jobID, result)
	log.Info("analysis completed",
		slog.Int("markets", len(analyses)),
		slog.String("best_side", string(best.BestSide)))
}

func (a *Analyzer) analyzeMarkets(markets []domain.Market, hasStrikes bool, spot, iv, days, budget float64) []domain.MarketAnalysis {
	analyses := make([]domain.MarketAnalysis, 0, len(markets))
	for _, m := range markets {
		var est domain.ProbabilityEstimate
		if hasStrikes && m.Strike > 0 && spot > 0 {
			est = quant.EstimateProbability(spot, m.Strike, iv, days)
		} else {
			est = quant.MarketImpliedProbability(m.YesPrice)
			est.Spot = spot
			est.Strike = m.Strike
			est.IV = iv
			est.DaysToExpiry = days
		}

		analysis := domain.MarketAnalysis{
			MarketID: m.ID,
			Strike:   m.Strike,
			Question: m.Question,
			Market: domain.MarketSnapshot{
				YesPrice:  m.YesPrice,
				NoPrice:   m.NoPrice,
				Volume:    m.Volume,
				Liquidity: m.Liquidity,
				Spread:    m.Spread,
			},
			Probability: est,
			Arbitrage:   quant.DetectMispricing(m.YesPrice, est.TrueProbability),
			Sizing:      quant.SizePosition(m.YesPrice, est.TrueProbability, budget),
		}
		if m.YesPrice > 0 {
			analysis.ROIYesWins = quant.Scenario(m.YesPrice, 1.0, 100)
		}
		if m.YesPrice < 1 {
			analysis.ROINoWins = quant.Scenario(1-m.YesPrice, 1.0, 100)
		}
		analyses = append(analyses, analysis)
	}
	return analyses
}

// fetchBooks pulls both book sides for every market that carries a CLOB
// token pair, sides in parallel. A failed side is tagged, never fatal.
func (a *Analyzer) fetchBooks(ctx context.Context, markets []domain.Market) map[string]domain.BookDepth {
	books := make(map[string]domain.BookDepth)
	for _, m := range markets {
		if !m.HasBookTokens() {
			continue
		}

		depth := domain.BookDepth{Question: m.Question, Strike: m.Strike}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			depth.Yes = a.fetchSide(gctx, m.TokenIDs[0])
			return nil
		})
		g.Go(func() error {
			depth.No = a.fetchSide(gctx, m.TokenIDs[1])
			return nil
		})
		_ = g.Wait()

		books[bookKey(m)] = depth
	}
	return books
}

func (a *Analyzer) fetchSide(ctx context.Context, tokenID string) domain.BookSide {
	side, err := a.books.FetchBookSide(ctx, tokenID)
	if err != nil {
		a.logger.Warn("book fetch failed", slog.String("token_id", tokenID), slog.Any("error", err))
		return domain.BookSide{Error: "Failed to fetch"}
	}
	return side
}

// bookKey picks a stable identifier for a market's book entry.
func bookKey(m domain.Market) string {
	if m.Slug != "" {
		return m.Slug
	}
	if m.ID != "" {
		return m.ID
	}
	if m.Strike > 0 {
		return fmt.Sprintf("$%d", int(math.Trunc(m.Strike)))
	}
	q := m.Question
	if len(q) > 30 {
		q = q[:30]
	}
	return q
}

func (a *Analyzer) progress(ctx context.Context, jobID string, step int) {
	label := StepLabels[step-1]
	upd := domain.JobUpdate{Step: &step, StepLabel: &label}
	if _, err := a.jobs.Update(ctx, jobID, upd); err != nil {
		a.logger.Error("job progress update failed",
			slog.String("job_id", jobID), slog.Int("step", step), slog.Any("error", err))
	}
}

func (a *Analyzer) fail(ctx context.Context, jobID, msg string) {
	status := domain.JobStatusError
	job, err := a.jobs.Update(ctx, jobID, domain.JobUpdate{Status: &status, Error: &msg})
	if err != nil {
		a.logger.Error("job fail update failed", slog.String("job_id", jobID), slog.Any("error", err))
		return
	}
	if a.notifier != nil {
		a.notifier.JobFinished(ctx, job)
	}
}

func (a *Analyzer) complete(ctx context.Context, jobID string, result *domain.AnalysisResult) {
	status := domain.JobStatusCompleted
	step := TotalSteps
	label := "Analysis complete!"
	job, err := a.jobs.Update(ctx, jobID, domain.JobUpdate{
		Status:    &status,
		Step:      &step,
		StepLabel: &label,
		Result:    result,
	})
	if err != nil {
		a.logger.Error("job complete update failed", slog.String("job_id", jobID), slog.Any("error", err))
		return
	}
	if a.notifier != nil {
		a.notifier.JobFinished(ctx, job)
	}
}
