package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeStore defines persistence operations for income records.
type IncomeStore interface {
	Create(ctx context.Context, income Income) (Income, error)
	GetByID(ctx context.Context, id uuid.UUID) (Income, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Income, error)
	Update(ctx context.Context, income Income) (Income, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseStore defines persistence operations for expense records.
type ExpenseStore interface {
	Create(ctx context.Context, expense Expense) (Expense, error)
	GetByID(ctx context.Context, id uuid.UUID) (Expense, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Expense, error)
	Update(ctx context.Context, expense Expense) (Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Income is a single income record owned by one user.
type Income struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Source    string
	Amount    decimal.Decimal
	Date      time.Time
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expense is a single expense record owned by one user.
type Expense struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Category  string
	Amount    decimal.Decimal
	Date      time.Time
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionType tags merged transaction rows with their origin.
type TransactionType string

const (
	// TransactionIncome marks a row that came from the income set.
	TransactionIncome TransactionType = "income"
	// TransactionExpense marks a row that came from the expense set.
	TransactionExpense TransactionType = "expense"
)

// Transaction is a read-side merge of income and expense records.
// Label holds the income source or the expense category.
type Transaction struct {
	ID     uuid.UUID
	Type   TransactionType
	Label  string
	Amount decimal.Decimal
	Date   time.Time
	Icon   string
}

// AsTransaction converts an income record to its merged representation.
func (i Income) AsTransaction() Transaction {
	return Transaction{ID: i.ID, Type: TransactionIncome, Label: i.Source, Amount: i.Amount, Date: i.Date, Icon: i.Icon}
}

// AsTransaction converts an expense record to its merged representation.
func (e Expense) AsTransaction() Transaction {
	return Transaction{ID: e.ID, Type: TransactionExpense, Label: e.Category, Amount: e.Amount, Date: e.Date, Icon: e.Icon}
}
