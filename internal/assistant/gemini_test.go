package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumazq/fintrack-server/internal/model"
)

func geminiSnapshot() model.FinanceSnapshot {
	return model.FinanceSnapshot{
		Currency:     "USD",
		TotalIncome:  decimal.NewFromInt(150),
		TotalExpense: decimal.NewFromInt(30),
		TotalBalance: decimal.NewFromInt(120),
		RecentTransactions: []model.Transaction{
			{Type: model.TransactionIncome, Label: "Salary", Amount: decimal.NewFromInt(100), Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestGemini_Ready(t *testing.T) {
	g := NewGemini("", "gemini-1.5-flash", time.Second)
	require.ErrorIs(t, g.Ready(), model.ErrAssistantNotConfigured)

	g = NewGemini("key", "gemini-1.5-flash", time.Second)
	require.NoError(t, g.Ready())
}

func TestGemini_RecentLimit(t *testing.T) {
	assert.Equal(t, 10, NewGemini("key", "m", time.Second).RecentLimit())
}

func TestGemini_Reply(t *testing.T) {
	var gotPath string
	var gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		gotPrompt = req.Contents[0].Parts[0].Text

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "Your balance is 120 USD."}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	g := NewGemini("key", "gemini-1.5-flash", time.Second, WithBaseURL(srv.URL))

	reply, err := g.Reply(context.Background(), "what is my balance?", geminiSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Your balance is 120 USD.", reply)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)

	assert.Contains(t, gotPrompt, "Total Balance: 120 USD")
	assert.Contains(t, gotPrompt, "2025-03-01 | INCOME | 100 USD | Salary")
	assert.Contains(t, gotPrompt, `User message: "what is my balance?"`)
}

func TestGemini_Reply_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGemini("key", "gemini-1.5-flash", time.Second, WithBaseURL(srv.URL))

	_, err := g.Reply(context.Background(), "hello", geminiSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGemini_Reply_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	g := NewGemini("key", "gemini-1.5-flash", time.Second, WithBaseURL(srv.URL))

	_, err := g.Reply(context.Background(), "hello", geminiSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGemini_Reply_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := NewGemini("key", "gemini-1.5-flash", 50*time.Millisecond, WithBaseURL(srv.URL))

	_, err := g.Reply(context.Background(), "hello", geminiSnapshot())
	require.Error(t, err)
}

func TestGemini_Reply_WithoutKey(t *testing.T) {
	g := NewGemini("", "gemini-1.5-flash", time.Second)

	_, err := g.Reply(context.Background(), "hello", geminiSnapshot())
	require.ErrorIs(t, err, model.ErrAssistantNotConfigured)
}
