package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/mocks"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/testutil"
)

func newTransactionService() (*Transaction, *mocks.IncomeStore, *mocks.ExpenseStore) {
	incomeStore := &mocks.IncomeStore{}
	expenseStore := &mocks.ExpenseStore{}
	s := NewTransaction(incomeStore, expenseStore, testutil.MakeNoopLogger())
	return s, incomeStore, expenseStore
}

func TestTransaction_AddIncome_CapitalizesSource(t *testing.T) {
	s, incomeStore, _ := newTransactionService()
	userID := uuid.New()

	incomeStore.On("Create", mock.Anything, mock.MatchedBy(func(i model.Income) bool {
		return i.Source == "Salary" && i.UserID == userID
	})).Return(model.Income{Source: "Salary"}, nil)

	income, err := s.AddIncome(context.Background(), AddIncomeParams{
		UserID: userID,
		Source: "salary",
		Amount: decimal.NewFromInt(100),
		Date:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Salary", income.Source)
}

func TestTransaction_AddIncome_Validation(t *testing.T) {
	s, _, _ := newTransactionService()
	userID := uuid.New()

	tests := []struct {
		name   string
		params AddIncomeParams
	}{
		{"missing source", AddIncomeParams{UserID: userID, Amount: decimal.NewFromInt(10), Date: time.Now()}},
		{"missing date", AddIncomeParams{UserID: userID, Source: "salary", Amount: decimal.NewFromInt(10)}},
		{"zero amount", AddIncomeParams{UserID: userID, Source: "salary", Date: time.Now()}},
		{"negative amount", AddIncomeParams{UserID: userID, Source: "salary", Amount: decimal.NewFromInt(-5), Date: time.Now()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddIncome(context.Background(), tt.params)
			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apierrors.TypeValidation, apiErr.Type)
		})
	}
}

func TestTransaction_AddExpense_CapitalizesCategory(t *testing.T) {
	s, _, expenseStore := newTransactionService()
	userID := uuid.New()

	expenseStore.On("Create", mock.Anything, mock.MatchedBy(func(e model.Expense) bool {
		return e.Category == "Groceries"
	})).Return(model.Expense{Category: "Groceries"}, nil)

	expense, err := s.AddExpense(context.Background(), AddExpenseParams{
		UserID:   userID,
		Category: "groceries",
		Amount:   decimal.NewFromInt(42),
		Date:     time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", expense.Category)
}

func TestTransaction_UpdateIncome_OtherUsersRecord(t *testing.T) {
	s, incomeStore, _ := newTransactionService()
	incomeID := uuid.New()

	incomeStore.On("GetByID", mock.Anything, incomeID).Return(model.Income{
		ID: incomeID, UserID: uuid.New(), Source: "Salary",
	}, nil)

	_, err := s.UpdateIncome(context.Background(), UpdateIncomeParams{
		ID: incomeID, UserID: uuid.New(),
		Source: "salary", Amount: decimal.NewFromInt(10), Date: time.Now(),
	})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeNotFound, apiErr.Type)
	incomeStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransaction_UpdateIncome(t *testing.T) {
	s, incomeStore, _ := newTransactionService()
	incomeID := uuid.New()
	userID := uuid.New()
	date := time.Now()

	incomeStore.On("GetByID", mock.Anything, incomeID).Return(model.Income{
		ID: incomeID, UserID: userID, Source: "Salary", Amount: decimal.NewFromInt(10),
	}, nil)
	incomeStore.On("Update", mock.Anything, mock.MatchedBy(func(i model.Income) bool {
		return i.ID == incomeID && i.Source == "Bonus" && i.Amount.Equal(decimal.NewFromInt(50))
	})).Return(model.Income{ID: incomeID, Source: "Bonus"}, nil)

	updated, err := s.UpdateIncome(context.Background(), UpdateIncomeParams{
		ID: incomeID, UserID: userID,
		Source: "bonus", Amount: decimal.NewFromInt(50), Date: date,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bonus", updated.Source)
}

func TestTransaction_DeleteExpense(t *testing.T) {
	s, _, expenseStore := newTransactionService()
	expenseID := uuid.New()
	userID := uuid.New()

	expenseStore.On("GetByID", mock.Anything, expenseID).Return(model.Expense{
		ID: expenseID, UserID: userID,
	}, nil)
	expenseStore.On("Delete", mock.Anything, expenseID).Return(nil)

	require.NoError(t, s.DeleteExpense(context.Background(), expenseID, userID))
}

func TestTransaction_DeleteExpense_NotFound(t *testing.T) {
	s, _, expenseStore := newTransactionService()
	expenseID := uuid.New()

	expenseStore.On("GetByID", mock.Anything, expenseID).Return(model.Expense{}, model.ErrNotFound)

	err := s.DeleteExpense(context.Background(), expenseID, uuid.New())
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeNotFound, apiErr.Type)
}

func TestTransaction_ExportIncomeExcel(t *testing.T) {
	s, incomeStore, _ := newTransactionService()
	userID := uuid.New()

	incomeStore.On("GetByUserID", mock.Anything, userID).Return([]model.Income{
		{Source: "Salary", Amount: decimal.NewFromFloat(1200.50), Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Source: "Freelance", Amount: decimal.NewFromInt(300), Date: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)},
	}, nil)

	workbook, err := s.ExportIncomeExcel(context.Background(), userID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Income")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Source", "Amount", "Date"}, rows[0])
	assert.Equal(t, "Salary", rows[1][0])
	assert.Equal(t, "2025-03-01", rows[1][2])
	assert.Equal(t, "Freelance", rows[2][0])
}

func TestTransaction_ExportExpenseExcel_Empty(t *testing.T) {
	s, _, expenseStore := newTransactionService()
	userID := uuid.New()

	expenseStore.On("GetByUserID", mock.Anything, userID).Return([]model.Expense{}, nil)

	workbook, err := s.ExportExpenseExcel(context.Background(), userID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expense")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Category", "Amount", "Date"}, rows[0])
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Salary", capitalize("salary"))
	assert.Equal(t, "Salary", capitalize("Salary"))
	assert.Equal(t, "", capitalize(""))
}
