package assistant

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumazq/fintrack-server/internal/model"
)

func keywordSnapshot() model.FinanceSnapshot {
	return model.FinanceSnapshot{
		Currency:     "USD",
		TotalIncome:  decimal.NewFromInt(150),
		TotalExpense: decimal.NewFromInt(30),
		TotalBalance: decimal.NewFromInt(120),
		RecentTransactions: []model.Transaction{
			{Type: model.TransactionIncome, Label: "Salary", Amount: decimal.NewFromInt(100)},
			{Type: model.TransactionExpense, Label: "", Amount: decimal.NewFromInt(30)},
		},
	}
}

func TestKeyword_Ready(t *testing.T) {
	require.NoError(t, NewKeyword().Ready())
}

func TestKeyword_RecentLimit(t *testing.T) {
	assert.Equal(t, 5, NewKeyword().RecentLimit())
}

func TestKeyword_Reply(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"balance", "what is my balance?", "Your total current balance is 120 USD."},
		{"money", "how much money do I have", "Your total current balance is 120 USD."},
		{"income", "show my income", "Your total recorded income is 150 USD."},
		{"earned", "how much have I earned", "Your total recorded income is 150 USD."},
		{"expense", "total expense please", "You have spent a total of 30 USD."},
		{"spent", "what have I spent", "You have spent a total of 30 USD."},
		{"greeting", "hello there", "Hello! I am your financial assistant. Ask me about your balance, income, or expenses."},
		{"creator", "who created you?", "I'm an AI assistant created by Rumaz Qureshi."},
		{"fallback", "what is the weather", "I'm sorry, I can only help with basic financial queries like 'Check Balance', 'Total Income', or 'Recent Transactions'."},
	}

	k := NewKeyword()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := k.Reply(context.Background(), tt.message, keywordSnapshot())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, reply)
		})
	}
}

func TestKeyword_Reply_PriorityOrder(t *testing.T) {
	k := NewKeyword()

	// "balance" outranks "income" when both appear.
	reply, err := k.Reply(context.Background(), "balance and income", keywordSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Your total current balance is 120 USD.", reply)

	// "income" outranks "expense".
	reply, err = k.Reply(context.Background(), "income versus expense", keywordSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Your total recorded income is 150 USD.", reply)
}

func TestKeyword_Reply_CaseInsensitive(t *testing.T) {
	k := NewKeyword()

	reply, err := k.Reply(context.Background(), "CHECK BALANCE", keywordSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Your total current balance is 120 USD.", reply)
}

func TestKeyword_Reply_RecentTransactions(t *testing.T) {
	k := NewKeyword()

	reply, err := k.Reply(context.Background(), "show recent transactions", keywordSnapshot())
	require.NoError(t, err)
	assert.Contains(t, reply, "Here are your last 5 transactions:")
	assert.Contains(t, reply, "- INCOME: 100 USD (Salary)")
	// A missing label falls back to N/A.
	assert.Contains(t, reply, "- EXPENSE: 30 USD (N/A)")
}

func TestKeyword_Reply_NoRecentTransactions(t *testing.T) {
	k := NewKeyword()
	snapshot := keywordSnapshot()
	snapshot.RecentTransactions = nil

	reply, err := k.Reply(context.Background(), "recent transactions", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "You don't have any recent transactions.", reply)
}
