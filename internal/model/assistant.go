package model

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Assistant produces a reply to a free-text financial question given the
// user's current financial snapshot. Implementations are interchangeable
// strategies: a local keyword classifier or a generative-text delegate.
type Assistant interface {
	// Ready reports whether the strategy can serve requests at all.
	// A missing external credential fails here, before any state is touched.
	Ready() error
	// RecentLimit is how many recent transactions the strategy wants in
	// its snapshot.
	RecentLimit() int
	Reply(ctx context.Context, message string, snapshot FinanceSnapshot) (string, error)
}

// SnapshotSource computes a user's financial snapshot at request time.
type SnapshotSource interface {
	Snapshot(ctx context.Context, userID uuid.UUID, recentLimit int) (FinanceSnapshot, error)
}

// FinanceSnapshot holds the aggregate figures and recent transactions
// derived from a user's full transaction history.
type FinanceSnapshot struct {
	Currency           string
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	TotalBalance       decimal.Decimal
	RecentTransactions []Transaction
}
