// Package anthropic generates the narrative analysis report by prompting
// the Anthropic Messages API with the consolidated pipeline output.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/polysnap/polysnap/internal/domain"
)

const apiVersion = "2023-06-01"

// Client is the REST client for the Anthropic Messages API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new report client.
//
// baseURL is the API root, e.g. "https://api.anthropic.com".
// An empty apiKey disables report generation.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateReport turns the pipeline output into a written trade report.
// A missing key or API failure returns a placeholder string instead of an
// error, because the report step must never fail the pipeline.
func (c *Client) GenerateReport(ctx context.Context, result *domain.AnalysisResult) string {
	if !c.Configured() {
		return "AI report generation not available (Anthropic API key not configured)"
	}

	text, err := c.complete(ctx, buildPrompt(result))
	if err != nil {
		return fmt.Sprintf("AI report generation failed: %v", err)
	}
	return text
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: 1500,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("anthropic: %w: %s", domain.ErrUnauthorized, string(body))
	case http.StatusTooManyRequests:
		return "", fmt.Errorf("anthropic: %w: %s", domain.ErrRateLimited, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if msg.Error != nil {
		return "", fmt.Errorf("anthropic: %s: %s", msg.Error.Type, msg.Error.Message)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: empty response")
}
