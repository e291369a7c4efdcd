package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysnap/polysnap/internal/domain"
)

func TestTelegramSenderPayload(t *testing.T) {
	var got telegramMessage
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	s := NewTelegramSender("bot-token", "chat-42")
	s.apiBase = ts.URL

	err := s.Send(context.Background(), "Analysis completed", "TSLA weekly\nBest: YES")
	require.NoError(t, err)

	assert.Equal(t, "/botbot-token/sendMessage", path)
	assert.Equal(t, "chat-42", got.ChatID)
	assert.Equal(t, "*Analysis completed*\nTSLA weekly\nBest: YES", got.Text)
	assert.Equal(t, "Markdown", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
}

func TestTelegramSenderAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	}))
	defer ts.Close()

	s := NewTelegramSender("bot-token", "chat-42")
	s.apiBase = ts.URL

	err := s.Send(context.Background(), "Analysis failed", "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestDiscordSenderEmbed(t *testing.T) {
	var got discordMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	s := NewDiscordSender(ts.URL)
	err := s.Send(context.Background(), "Analysis completed", "TSLA weekly")
	require.NoError(t, err)

	assert.Equal(t, "polysnap", got.Username)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "Analysis completed", got.Embeds[0].Title)
	assert.Equal(t, "TSLA weekly", got.Embeds[0].Description)
	assert.Equal(t, discordAccent, got.Embeds[0].Color)
}

func TestDiscordSenderRejectedWebhook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Invalid Webhook Token"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	s := NewDiscordSender(ts.URL)
	err := s.Send(context.Background(), "Analysis completed", "TSLA weekly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

type capturingSender struct {
	titles   []string
	messages []string
}

func (c *capturingSender) Send(_ context.Context, title, message string) error {
	c.titles = append(c.titles, title)
	c.messages = append(c.messages, message)
	return nil
}

func (c *capturingSender) Name() string { return "capture" }

func TestJobFinishedCompletedSummary(t *testing.T) {
	sender := &capturingSender{}
	n := NewNotifier([]Sender{sender},
		[]string{EventAnalysisCompleted, EventAnalysisFailed},
		slog.New(slog.DiscardHandler))

	job := domain.Job{
		ID:     "job-1",
		Status: domain.JobStatusCompleted,
		Result: &domain.AnalysisResult{
			Event: domain.Event{Title: "TSLA above $400 this week?"},
			Strategy: domain.Strategy{
				BestSide:            domain.SideYes,
				BestMarketShort:     "$400",
				RecommendedPosition: 120,
				Confidence:          "high",
			},
		},
	}
	n.JobFinished(context.Background(), job)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Analysis completed", sender.titles[0])
	assert.Contains(t, sender.messages[0], "TSLA above $400 this week?")
	assert.Contains(t, sender.messages[0], "YES")
	assert.Contains(t, sender.messages[0], "$120.00")
}

func TestJobFinishedFilteredEvent(t *testing.T) {
	sender := &capturingSender{}
	n := NewNotifier([]Sender{sender},
		[]string{EventAnalysisCompleted},
		slog.New(slog.DiscardHandler))

	n.JobFinished(context.Background(), domain.Job{
		ID:     "job-2",
		Status: domain.JobStatusError,
		Error:  "event not found",
	})

	assert.Empty(t, sender.messages)
}
