package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
)

const (
	recentTransactionLimit = 5
	recentIncomeWindow     = 60 * 24 * time.Hour
	recentExpenseWindow    = 30 * 24 * time.Hour
)

// Dashboard aggregates income and expense data into the overview the
// client renders on its home screen. It also serves as the snapshot
// source for the chat assistant.
type Dashboard struct {
	userStore    model.UserStore
	incomeStore  model.IncomeStore
	expenseStore model.ExpenseStore
	logger       *logger.Logger
}

// NewDashboard creates the dashboard service.
func NewDashboard(userStore model.UserStore, incomeStore model.IncomeStore, expenseStore model.ExpenseStore, logger *logger.Logger) *Dashboard {
	return &Dashboard{userStore: userStore, incomeStore: incomeStore, expenseStore: expenseStore, logger: logger}
}

var _ model.SnapshotSource = (*Dashboard)(nil)

// Overview is the aggregated dashboard payload.
type Overview struct {
	TotalBalance       decimal.Decimal
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	Last60DaysIncome   WindowedTotal[model.Income]
	Last30DaysExpenses WindowedTotal[model.Expense]
	RecentTransactions []model.Transaction
}

// WindowedTotal pairs the records inside a time window with their sum.
type WindowedTotal[T any] struct {
	Total        decimal.Decimal
	Transactions []T
}

// GetOverview computes totals, windowed slices, and the most recent
// transactions for one user.
func (s *Dashboard) GetOverview(ctx context.Context, userID uuid.UUID) (Overview, error) {
	incomes, expenses, err := s.load(ctx, userID)
	if err != nil {
		return Overview{}, err
	}

	totalIncome := sumIncomes(incomes)
	totalExpense := sumExpenses(expenses)

	now := time.Now()

	last60 := WindowedTotal[model.Income]{Total: decimal.Zero, Transactions: []model.Income{}}
	for _, inc := range incomes {
		if inc.Date.After(now.Add(-recentIncomeWindow)) {
			last60.Transactions = append(last60.Transactions, inc)
			last60.Total = last60.Total.Add(inc.Amount)
		}
	}

	last30 := WindowedTotal[model.Expense]{Total: decimal.Zero, Transactions: []model.Expense{}}
	for _, exp := range expenses {
		if exp.Date.After(now.Add(-recentExpenseWindow)) {
			last30.Transactions = append(last30.Transactions, exp)
			last30.Total = last30.Total.Add(exp.Amount)
		}
	}

	return Overview{
		TotalBalance:       totalIncome.Sub(totalExpense),
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Last60DaysIncome:   last60,
		Last30DaysExpenses: last30,
		RecentTransactions: mergeTransactions(incomes, expenses, recentTransactionLimit),
	}, nil
}

// GetAllTransactions returns the full merged transaction history, newest
// first.
func (s *Dashboard) GetAllTransactions(ctx context.Context, userID uuid.UUID) ([]model.Transaction, error) {
	incomes, expenses, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mergeTransactions(incomes, expenses, 0), nil
}

// Snapshot builds the financial context handed to the chat assistant.
func (s *Dashboard) Snapshot(ctx context.Context, userID uuid.UUID, recentLimit int) (model.FinanceSnapshot, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.FinanceSnapshot{}, fmt.Errorf("get user: %w", err)
	}

	incomes, expenses, err := s.load(ctx, userID)
	if err != nil {
		return model.FinanceSnapshot{}, err
	}

	totalIncome := sumIncomes(incomes)
	totalExpense := sumExpenses(expenses)

	return model.FinanceSnapshot{
		Currency:           user.Currency,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		TotalBalance:       totalIncome.Sub(totalExpense),
		RecentTransactions: mergeTransactions(incomes, expenses, recentLimit),
	}, nil
}

func (s *Dashboard) load(ctx context.Context, userID uuid.UUID) ([]model.Income, []model.Expense, error) {
	incomes, err := s.incomeStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get incomes: %w", err)
	}
	expenses, err := s.expenseStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get expenses: %w", err)
	}
	return incomes, expenses, nil
}

func sumIncomes(incomes []model.Income) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range incomes {
		total = total.Add(inc.Amount)
	}
	return total
}

func sumExpenses(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}
	return total
}

// mergeTransactions interleaves both sets in date-descending order. When
// dates tie, income rows come before expense rows. A limit of zero means
// no truncation.
func mergeTransactions(incomes []model.Income, expenses []model.Expense, limit int) []model.Transaction {
	merged := make([]model.Transaction, 0, len(incomes)+len(expenses))
	for _, inc := range incomes {
		merged = append(merged, inc.AsTransaction())
	}
	for _, exp := range expenses {
		merged = append(merged, exp.AsTransaction())
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}
