package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysnap/polysnap/internal/domain"
)

type fakeJobStore struct {
	mu    sync.Mutex
	jobs  map[string]domain.Job
	steps []int
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[string]domain.Job{}}
}

func (s *fakeJobStore) Create(_ context.Context, job domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *fakeJobStore) Get(_ context.Context, id string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return job, nil
}

func (s *fakeJobStore) Update(_ context.Context, id string, upd domain.JobUpdate) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	upd.Apply(&job)
	s.jobs[id] = job
	if upd.Step != nil {
		s.steps = append(s.steps, *upd.Step)
	}
	return job, nil
}

type stubEvents struct {
	event domain.Event
	err   error
}

func (s stubEvents) GetEventBySlug(context.Context, string) (domain.Event, error) {
	return s.event, s.err
}

type stubQuotes struct {
	quote *domain.EquityQuote
	err   error
	calls int
}

func (s *stubQuotes) GetQuote(context.Context, string) (*domain.EquityQuote, error) {
	s.calls++
	return s.quote, s.err
}

type stubOdds struct{ calls int }

func (s *stubOdds) FetchOdds(context.Context, string) domain.SportsOdds {
	s.calls++
	return domain.SportsOdds{Sport: "basketball_nba"}
}

type stubVenue struct{ keywords []string }

func (s *stubVenue) Compare(_ context.Context, kws []string) domain.VenueComparison {
	s.keywords = kws
	return domain.VenueComparison{Venue: "Kalshi", Conclusion: "No matching markets found on Kalshi. Polymarket is the only venue."}
}

type stubWhales struct{}

func (stubWhales) FetchActivity(context.Context) domain.TransferSummary {
	return domain.TransferSummary{Source: "Etherscan v2 (Polygon)"}
}

type stubBooks struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (s *stubBooks) FetchBookSide(_ context.Context, tokenID string) (domain.BookSide, error) {
	s.mu.Lock()
	s.tokens = append(s.tokens, tokenID)
	s.mu.Unlock()
	if s.err != nil {
		return domain.BookSide{}, s.err
	}
	return domain.BookSide{BestBid: 0.40, BestAsk: 0.42, NumBids: 1, NumAsks: 1}, nil
}

type stubReports struct{}

func (stubReports) GenerateReport(context.Context, *domain.AnalysisResult) string {
	return "report text"
}

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []domain.Job
}

func (n *recordingNotifier) JobFinished(_ context.Context, job domain.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

func testEvent() domain.Event {
	end := time.Now().UTC().Add(72 * time.Hour)
	return domain.Event{
		ID:      "ev1",
		Title:   "Tesla (TSLA) weekly close",
		Slug:    "tsla-weekly",
		EndDate: &end,
		Markets: []domain.Market{
			{
				ID: "m1", Question: "Will TSLA close above $250?", Strike: 250,
				YesPrice: 0.45, NoPrice: 0.55, Volume: 50000, Slug: "tsla-250",
				TokenIDs: [2]string{"tok-yes", "tok-no"},
			},
			{
				ID: "m2", Question: "Will TSLA close above $300?", Strike: 300,
				YesPrice: 0.10, NoPrice: 0.90, Volume: 20000, Slug: "tsla-300",
				TokenIDs: [2]string{"tok-yes-2", "tok-no-2"},
			},
		},
	}
}

func newTestAnalyzer(store *fakeJobStore, events stubEvents, quotes *stubQuotes, notifier Notifier) (*Analyzer, *stubVenue, *stubBooks) {
	venue := &stubVenue{}
	books := &stubBooks{}
	a := NewAnalyzer(
		store, events, quotes, &stubOdds{}, venue, stubWhales{}, books,
		stubReports{}, notifier, slog.New(slog.DiscardHandler),
	)
	return a, venue, books
}

func TestAnalyzerStartCreatesRunningJob(t *testing.T) {
	store := newFakeJobStore()
	a, _, _ := newTestAnalyzer(store, stubEvents{event: testEvent()}, &stubQuotes{}, nil)

	job, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusRunning, job.Status)
	assert.Equal(t, 0, job.Step)
	assert.Equal(t, TotalSteps, job.TotalSteps)
	assert.Equal(t, "Starting...", job.StepLabel)
}

func TestAnalyzerRunCompletes(t *testing.T) {
	store := newFakeJobStore()
	notifier := &recordingNotifier{}
	quotes := &stubQuotes{quote: &domain.EquityQuote{Ticker: "TSLA", Spot: 255, ImpliedVol: 0.35}}
	a, venue, books := newTestAnalyzer(store, stubEvents{event: testEvent()}, quotes, notifier)

	_, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	a.Run(context.Background(), "job1", "tsla-weekly", 1000)

	job, err := store.Get(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, TotalSteps, job.Step)
	assert.Equal(t, "Analysis complete!", job.StepLabel)
	require.NotNil(t, job.Result)

	result := job.Result
	assert.Equal(t, "TSLA", result.Ticker)
	assert.Len(t, result.Analyses, 2)
	assert.Equal(t, domain.ModelBlackScholes, result.Analyses[0].Probability.Model)
	assert.Equal(t, "report text", result.Report)
	assert.Equal(t, 1000.0, result.Bankroll)
	assert.Len(t, result.Books, 2)
	assert.Contains(t, result.Books, "tsla-250")

	// Quote fetched once, venue keywords led by the ticker.
	assert.Equal(t, 1, quotes.calls)
	require.NotEmpty(t, venue.keywords)
	assert.Equal(t, "TSLA", venue.keywords[0])
	assert.Len(t, books.tokens, 4)

	require.Len(t, notifier.jobs, 1)
	assert.Equal(t, domain.JobStatusCompleted, notifier.jobs[0].Status)
}

func TestAnalyzerRunStepsMonotonic(t *testing.T) {
	store := newFakeJobStore()
	a, _, _ := newTestAnalyzer(store, stubEvents{event: testEvent()}, &stubQuotes{}, nil)

	_, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	a.Run(context.Background(), "job1", "tsla-weekly", 1000)

	require.NotEmpty(t, store.steps)
	for i := 1; i < len(store.steps); i++ {
		assert.GreaterOrEqual(t, store.steps[i], store.steps[i-1])
	}
	assert.Equal(t, TotalSteps, store.steps[len(store.steps)-1])
}

func TestAnalyzerRunEventNotFound(t *testing.T) {
	store := newFakeJobStore()
	notifier := &recordingNotifier{}
	events := stubEvents{err: fmt.Errorf("gamma: %w", domain.ErrNotFound)}
	a, _, _ := newTestAnalyzer(store, events, &stubQuotes{}, notifier)

	_, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	a.Run(context.Background(), "job1", "nope", 1000)

	job, err := store.Get(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusError, job.Status)
	assert.Equal(t, "Event not found", job.Error)
	assert.Nil(t, job.Result)

	require.Len(t, notifier.jobs, 1)
	assert.Equal(t, domain.JobStatusError, notifier.jobs[0].Status)
}

func TestAnalyzerRunDegradedQuote(t *testing.T) {
	store := newFakeJobStore()
	quotes := &stubQuotes{err: fmt.Errorf("equities: boom")}
	a, _, _ := newTestAnalyzer(store, stubEvents{event: testEvent()}, quotes, nil)

	_, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	a.Run(context.Background(), "job1", "tsla-weekly", 1000)

	job, _ := store.Get(context.Background(), "job1")
	require.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Nil(t, job.Result.Quote)
	// Without spot data every market degrades to the market-implied model.
	for _, an := range job.Result.Analyses {
		assert.Equal(t, domain.ModelMarketImplied, an.Probability.Model)
	}
}

func TestAnalyzerRunDegradedBooks(t *testing.T) {
	store := newFakeJobStore()
	a, _, books := newTestAnalyzer(store, stubEvents{event: testEvent()}, &stubQuotes{}, nil)
	books.err = fmt.Errorf("clob: boom")

	_, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	a.Run(context.Background(), "job1", "tsla-weekly", 1000)

	job, _ := store.Get(context.Background(), "job1")
	require.Equal(t, domain.JobStatusCompleted, job.Status)
	for _, depth := range job.Result.Books {
		assert.Equal(t, "Failed to fetch", depth.Yes.Error)
		assert.Equal(t, "Failed to fetch", depth.No.Error)
	}
}

func TestAnalyzerRunDefaultBudget(t *testing.T) {
	store := newFakeJobStore()
	a, _, _ := newTestAnalyzer(store, stubEvents{event: testEvent()}, &stubQuotes{}, nil)

	_, err := a.Start(context.Background(), "job1")
	require.NoError(t, err)
	a.Run(context.Background(), "job1", "tsla-weekly", 0)

	job, _ := store.Get(context.Background(), "job1")
	require.NotNil(t, job.Result)
	assert.Equal(t, 1000.0, job.Result.Bankroll)
}

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := NewPool(2, slog.New(slog.DiscardHandler))

	var mu sync.Mutex
	ran := map[string]bool{}
	for _, id := range []string{"a", "b", "c"} {
		err := pool.Submit(id, func(context.Context) {
			mu.Lock()
			ran[id] = true
			mu.Unlock()
		})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(ctx))
	assert.Len(t, ran, 3)
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	pool := NewPool(1, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(ctx))

	err := pool.Submit("late", func(context.Context) {})
	assert.Error(t, err)
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := NewPool(1, slog.New(slog.DiscardHandler))
	require.NoError(t, pool.Submit("boom", func(context.Context) { panic("boom") }))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, pool.Shutdown(ctx))
}
