package advisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyhub/internal/document"
	"studyhub/internal/ledger"
)

func testSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Total:     1000,
		Remaining: 750,
		Expenses: []document.Expense{
			{Item: "Food", Amount: 200, Category: "Food"},
			{Item: "Bus", Amount: 50, Category: "Transport"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New("test-key", "")
	client.baseURL = srv.URL

	return client
}

func TestBudgetAdviceSuccess(t *testing.T) {
	t.Parallel()

	var gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Spend "}, {"text": "less on food."}]}}
			]
		}`))
	})

	advice := client.BudgetAdvice(context.Background(), testSnapshot())

	if advice != "Spend less on food." {
		t.Errorf("advice = %q", advice)
	}

	if !strings.HasSuffix(gotPath, DefaultModel+":generateContent") {
		t.Errorf("request path = %q, want default model generateContent", gotPath)
	}
}

func TestBudgetAdviceDegradesOnServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	advice := client.BudgetAdvice(context.Background(), testSnapshot())

	if !strings.HasPrefix(advice, "AI Error:") {
		t.Errorf("advice = %q, want AI Error placeholder", advice)
	}
}

func TestBudgetAdviceDegradesOnUnreachableService(t *testing.T) {
	t.Parallel()

	client := New("test-key", "")
	client.baseURL = "http://127.0.0.1:1" // nothing listens here

	advice := client.BudgetAdvice(context.Background(), testSnapshot())

	if !strings.HasPrefix(advice, "AI Error:") {
		t.Errorf("advice = %q, want AI Error placeholder", advice)
	}
}

func TestBudgetAdviceDegradesWithoutAPIKey(t *testing.T) {
	t.Parallel()

	client := New("", "")

	advice := client.BudgetAdvice(context.Background(), testSnapshot())

	if !strings.HasPrefix(advice, "AI Error:") {
		t.Errorf("advice = %q, want AI Error placeholder", advice)
	}
}

func TestBudgetAdviceDegradesOnEmptyCandidates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	advice := client.BudgetAdvice(context.Background(), testSnapshot())

	if !strings.HasPrefix(advice, "AI Error:") {
		t.Errorf("advice = %q, want AI Error placeholder", advice)
	}
}

func TestBudgetPromptMentionsLedgerState(t *testing.T) {
	t.Parallel()

	prompt := budgetPrompt(testSnapshot())

	for _, fragment := range []string{"1000", "750", "Food", "Transport"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}
