// Package advisor calls the external generative-text service for budget
// advice.
//
// The service is a collaborator, not a dependency: any failure degrades to
// a placeholder string so the underlying domain operation never fails
// because advice was unavailable. Callers must invoke it after releasing
// any lock held on the user document.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studyhub/internal/ledger"
)

// Defaults for the Gemini API.
const (
	DefaultModel   = "models/gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	requestTimeout = 30 * time.Second
)

var (
	errMissingAPIKey = errors.New("advisor api key is not configured")
	errEmptyResponse = errors.New("advisor returned no candidates")
)

// Client talks to the generateContent endpoint of a Gemini-style API.
// The zero value is not usable; call [New].
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// New returns a client for the given API key. An empty model selects
// [DefaultModel]. An empty key is allowed; calls will degrade to the error
// placeholder until one is configured.
func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		model:      model,
		apiKey:     apiKey,
	}
}

// BudgetAdvice generates advice from a ledger snapshot. On any failure the
// returned string is an "AI Error: ..." placeholder, never an error value.
func (c *Client) BudgetAdvice(ctx context.Context, snap ledger.Snapshot) string {
	text, err := c.generate(ctx, budgetPrompt(snap))
	if err != nil {
		return "AI Error: " + err.Error()
	}

	return text
}

func budgetPrompt(snap ledger.Snapshot) string {
	var builder strings.Builder

	builder.WriteString("You are an AI financial advisor for college students.\n")
	builder.WriteString("Analyze this budget:\n\n")
	fmt.Fprintf(&builder, "Total Budget: %v\n", snap.Total)
	fmt.Fprintf(&builder, "Remaining: %v\n", snap.Remaining)
	builder.WriteString("Expenses:\n")

	for _, e := range snap.Expenses {
		fmt.Fprintf(&builder, "- %s: %v (%s)\n", e.Item, e.Amount, e.Category)
	}

	builder.WriteString("\nGive clear, simple, actionable advice in 4-6 sentences.\n")

	return builder.String()
}

// Wire types for the generateContent request/response. Only the fields we
// consume are modeled.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errMissingAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding advisor request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building advisor request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling advisor: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return "", fmt.Errorf("advisor status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded generateResponse

	err = json.NewDecoder(resp.Body).Decode(&decoded)
	if err != nil {
		return "", fmt.Errorf("decoding advisor response: %w", err)
	}

	if len(decoded.Candidates) == 0 {
		return "", errEmptyResponse
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	return text.String(), nil
}
