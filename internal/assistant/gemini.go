package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rumazq/fintrack-server/internal/model"
)

var _ model.Assistant = (*Gemini)(nil)

// geminiRecentLimit is how many transactions are embedded in the prompt.
const geminiRecentLimit = 10

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini delegates replies to the Gemini text-generation API. The call is
// bounded by the HTTP client timeout; a timeout is surfaced like any other
// delegate failure.
type Gemini struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// GeminiOption customizes a Gemini strategy.
type GeminiOption func(*Gemini)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(baseURL string) GeminiOption {
	return func(g *Gemini) {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *Gemini) {
		g.client = client
	}
}

// NewGemini creates the generative strategy. timeout bounds every API call.
func NewGemini(apiKey, modelName string, timeout time.Duration, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultGeminiBaseURL,
		apiKey:  apiKey,
		model:   modelName,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ready fails when the API credential is absent, before any request state
// is touched.
func (g *Gemini) Ready() error {
	if g.apiKey == "" {
		return model.ErrAssistantNotConfigured
	}
	return nil
}

// RecentLimit returns the snapshot depth embedded into the prompt.
func (g *Gemini) RecentLimit() int {
	return geminiRecentLimit
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Reply assembles the constrained prompt and returns the model's text verbatim.
func (g *Gemini) Reply(ctx context.Context, message string, snapshot model.FinanceSnapshot) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(message, snapshot)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generative request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("generative request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generative response contains no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(message string, snapshot model.FinanceSnapshot) string {
	var b strings.Builder

	b.WriteString("You are a personal finance assistant inside an expense tracker application.\n\n")
	b.WriteString("User financial data:\n")
	fmt.Fprintf(&b, "- Total Balance: %s %s\n", snapshot.TotalBalance, snapshot.Currency)
	fmt.Fprintf(&b, "- Total Income: %s %s\n", snapshot.TotalIncome, snapshot.Currency)
	fmt.Fprintf(&b, "- Total Expense: %s %s\n", snapshot.TotalExpense, snapshot.Currency)

	if len(snapshot.RecentTransactions) > 0 {
		fmt.Fprintf(&b, "- Recent transactions (newest first, up to %d):\n", geminiRecentLimit)
		for _, t := range snapshot.RecentTransactions {
			label := t.Label
			if label == "" {
				label = "N/A"
			}
			fmt.Fprintf(&b, "  - %s | %s | %s %s | %s\n",
				t.Date.Format("2006-01-02"), strings.ToUpper(string(t.Type)), t.Amount, snapshot.Currency, label)
		}
	} else {
		b.WriteString("- Recent transactions: none\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- Only answer questions about the user's personal finances and the data above.\n")
	b.WriteString("- Detect the language of the user's message and answer in that same language.\n")
	b.WriteString("- If the message is not about personal finances, politely refuse in that same language.\n")
	b.WriteString("- Keep answers short and concrete.\n\n")

	fmt.Fprintf(&b, "User message: %q\n", message)

	return b.String()
}
