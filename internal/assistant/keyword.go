package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rumazq/fintrack-server/internal/model"
)

var _ model.Assistant = (*Keyword)(nil)

// keywordRecentLimit is how many transactions the recent-transactions reply
// renders.
const keywordRecentLimit = 5

// Keyword is the local, deterministic reply strategy. It matches the
// lower-cased message against fixed keyword sets in a fixed priority order;
// the first matching category wins.
type Keyword struct{}

// NewKeyword creates the keyword strategy.
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Ready always succeeds: the keyword strategy needs no external credential.
func (k *Keyword) Ready() error {
	return nil
}

// RecentLimit returns the snapshot depth the strategy renders.
func (k *Keyword) RecentLimit() int {
	return keywordRecentLimit
}

// Reply classifies the message and formats an answer from the snapshot.
func (k *Keyword) Reply(_ context.Context, message string, snapshot model.FinanceSnapshot) (string, error) {
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, "balance", "money", "left"):
		return fmt.Sprintf("Your total current balance is %s %s.", snapshot.TotalBalance, snapshot.Currency), nil

	case containsAny(msg, "income", "earned"):
		return fmt.Sprintf("Your total recorded income is %s %s.", snapshot.TotalIncome, snapshot.Currency), nil

	case containsAny(msg, "expense", "spent", "spend"):
		return fmt.Sprintf("You have spent a total of %s %s.", snapshot.TotalExpense, snapshot.Currency), nil

	case containsAny(msg, "recent", "transaction", "last"):
		return formatRecent(snapshot), nil

	case containsAny(msg, "hello", "hi", "hey"):
		return "Hello! I am your financial assistant. Ask me about your balance, income, or expenses.", nil

	case strings.Contains(msg, "who created you"):
		return "I'm an AI assistant created by Rumaz Qureshi.", nil

	default:
		return "I'm sorry, I can only help with basic financial queries like 'Check Balance', 'Total Income', or 'Recent Transactions'.", nil
	}
}

func containsAny(msg string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func formatRecent(snapshot model.FinanceSnapshot) string {
	if len(snapshot.RecentTransactions) == 0 {
		return "You don't have any recent transactions."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your last %d transactions:\n", keywordRecentLimit)
	for _, t := range snapshot.RecentTransactions {
		label := t.Label
		if label == "" {
			label = "N/A"
		}
		fmt.Fprintf(&b, "- %s: %s %s (%s)\n", strings.ToUpper(string(t.Type)), t.Amount, snapshot.Currency, label)
	}
	return b.String()
}
