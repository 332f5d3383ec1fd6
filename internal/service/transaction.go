package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
)

// Transaction implements income and expense record management, including
// the Excel export of either set.
type Transaction struct {
	incomeStore  model.IncomeStore
	expenseStore model.ExpenseStore
	logger       *logger.Logger
}

// NewTransaction creates the transaction service.
func NewTransaction(incomeStore model.IncomeStore, expenseStore model.ExpenseStore, logger *logger.Logger) *Transaction {
	return &Transaction{incomeStore: incomeStore, expenseStore: expenseStore, logger: logger}
}

// AddIncomeParams carries the fields of a new income record.
type AddIncomeParams struct {
	UserID uuid.UUID
	Source string
	Amount decimal.Decimal
	Date   time.Time
	Icon   string
}

// AddIncome validates and persists a new income record. The source label
// is stored with its first letter capitalized.
func (s *Transaction) AddIncome(ctx context.Context, p AddIncomeParams) (model.Income, error) {
	if p.Source == "" || p.Date.IsZero() {
		return model.Income{}, apierrors.NewErrValidation("All fields are required")
	}
	if !p.Amount.IsPositive() {
		return model.Income{}, apierrors.NewErrValidation("Amount must be greater than zero")
	}

	income, err := s.incomeStore.Create(ctx, model.Income{
		ID:     uuid.New(),
		UserID: p.UserID,
		Source: capitalize(p.Source),
		Amount: p.Amount,
		Date:   p.Date,
		Icon:   p.Icon,
	})
	if err != nil {
		return model.Income{}, fmt.Errorf("create income: %w", err)
	}

	return income, nil
}

// GetIncomes returns the user's income records, newest first.
func (s *Transaction) GetIncomes(ctx context.Context, userID uuid.UUID) ([]model.Income, error) {
	incomes, err := s.incomeStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get incomes: %w", err)
	}
	return incomes, nil
}

// UpdateIncomeParams carries the editable fields of an income record.
type UpdateIncomeParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Source string
	Amount decimal.Decimal
	Date   time.Time
	Icon   string
}

// UpdateIncome replaces the editable fields of one of the user's income
// records. Records owned by another user are reported as not found.
func (s *Transaction) UpdateIncome(ctx context.Context, p UpdateIncomeParams) (model.Income, error) {
	existing, err := s.ownedIncome(ctx, p.ID, p.UserID)
	if err != nil {
		return model.Income{}, err
	}

	if p.Source == "" || p.Date.IsZero() {
		return model.Income{}, apierrors.NewErrValidation("All fields are required")
	}
	if !p.Amount.IsPositive() {
		return model.Income{}, apierrors.NewErrValidation("Amount must be greater than zero")
	}

	existing.Source = capitalize(p.Source)
	existing.Amount = p.Amount
	existing.Date = p.Date
	existing.Icon = p.Icon

	updated, err := s.incomeStore.Update(ctx, existing)
	if err != nil {
		return model.Income{}, fmt.Errorf("update income: %w", err)
	}

	return updated, nil
}

// DeleteIncome removes one of the user's income records.
func (s *Transaction) DeleteIncome(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.ownedIncome(ctx, id, userID); err != nil {
		return err
	}
	if err := s.incomeStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return nil
}

// AddExpenseParams carries the fields of a new expense record.
type AddExpenseParams struct {
	UserID   uuid.UUID
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Icon     string
}

// AddExpense validates and persists a new expense record.
func (s *Transaction) AddExpense(ctx context.Context, p AddExpenseParams) (model.Expense, error) {
	if p.Category == "" || p.Date.IsZero() {
		return model.Expense{}, apierrors.NewErrValidation("All fields are required")
	}
	if !p.Amount.IsPositive() {
		return model.Expense{}, apierrors.NewErrValidation("Amount must be greater than zero")
	}

	expense, err := s.expenseStore.Create(ctx, model.Expense{
		ID:       uuid.New(),
		UserID:   p.UserID,
		Category: capitalize(p.Category),
		Amount:   p.Amount,
		Date:     p.Date,
		Icon:     p.Icon,
	})
	if err != nil {
		return model.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	return expense, nil
}

// GetExpenses returns the user's expense records, newest first.
func (s *Transaction) GetExpenses(ctx context.Context, userID uuid.UUID) ([]model.Expense, error) {
	expenses, err := s.expenseStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpenseParams carries the editable fields of an expense record.
type UpdateExpenseParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Icon     string
}

// UpdateExpense replaces the editable fields of one of the user's expense
// records.
func (s *Transaction) UpdateExpense(ctx context.Context, p UpdateExpenseParams) (model.Expense, error) {
	existing, err := s.ownedExpense(ctx, p.ID, p.UserID)
	if err != nil {
		return model.Expense{}, err
	}

	if p.Category == "" || p.Date.IsZero() {
		return model.Expense{}, apierrors.NewErrValidation("All fields are required")
	}
	if !p.Amount.IsPositive() {
		return model.Expense{}, apierrors.NewErrValidation("Amount must be greater than zero")
	}

	existing.Category = capitalize(p.Category)
	existing.Amount = p.Amount
	existing.Date = p.Date
	existing.Icon = p.Icon

	updated, err := s.expenseStore.Update(ctx, existing)
	if err != nil {
		return model.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	return updated, nil
}

// DeleteExpense removes one of the user's expense records.
func (s *Transaction) DeleteExpense(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.ownedExpense(ctx, id, userID); err != nil {
		return err
	}
	if err := s.expenseStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// ExportIncomeExcel renders the user's income records as an xlsx workbook.
func (s *Transaction) ExportIncomeExcel(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	incomes, err := s.incomeStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get incomes: %w", err)
	}

	rows := make([]exportRow, len(incomes))
	for i, inc := range incomes {
		rows[i] = exportRow{label: inc.Source, amount: inc.Amount, date: inc.Date}
	}

	return renderExcel("Income", "Source", rows)
}

// ExportExpenseExcel renders the user's expense records as an xlsx workbook.
func (s *Transaction) ExportExpenseExcel(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	expenses, err := s.expenseStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}

	rows := make([]exportRow, len(expenses))
	for i, exp := range expenses {
		rows[i] = exportRow{label: exp.Category, amount: exp.Amount, date: exp.Date}
	}

	return renderExcel("Expense", "Category", rows)
}

type exportRow struct {
	label  string
	amount decimal.Decimal
	date   time.Time
}

func renderExcel(sheet, labelHeader string, rows []exportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := []any{labelHeader, "Amount", "Date"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		amount, _ := r.amount.Float64()
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{r.label, amount, r.date.Format("2006-01-02")}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Transaction) ownedIncome(ctx context.Context, id, userID uuid.UUID) (model.Income, error) {
	income, err := s.incomeStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Income{}, apierrors.NewErrNotFound("Income not found")
		}
		return model.Income{}, fmt.Errorf("get income: %w", err)
	}
	if income.UserID != userID {
		return model.Income{}, apierrors.NewErrNotFound("Income not found")
	}
	return income, nil
}

func (s *Transaction) ownedExpense(ctx context.Context, id, userID uuid.UUID) (model.Expense, error) {
	expense, err := s.expenseStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Expense{}, apierrors.NewErrNotFound("Expense not found")
		}
		return model.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	if expense.UserID != userID {
		return model.Expense{}, apierrors.NewErrNotFound("Expense not found")
	}
	return expense, nil
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
