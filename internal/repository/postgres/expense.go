package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumazq/fintrack-server/internal/model"
)

var _ model.ExpenseStore = (*ExpenseRepository)(nil)

const expenseColumns = `id, user_id, category, amount, date, icon, created_at, updated_at`

type ExpenseRepository struct {
	db *Connection
}

func NewExpenseRepository(db *Connection) *ExpenseRepository {
	return &ExpenseRepository{
		db: db,
	}
}

func scanExpense(row pgx.Row) (model.Expense, error) {
	var ex model.Expense
	err := row.Scan(&ex.ID, &ex.UserID, &ex.Category, &ex.Amount, &ex.Date, &ex.Icon, &ex.CreatedAt, &ex.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Expense{}, model.ErrNotFound
		}
		return model.Expense{}, err
	}
	return ex, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense model.Expense) (model.Expense, error) {
	query := `INSERT INTO expenses (id, user_id, category, amount, date, icon, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING ` + expenseColumns

	saved, err := scanExpense(r.db.QueryRow(ctx, query,
		expense.ID, expense.UserID, expense.Category, expense.Amount, expense.Date, expense.Icon,
	))
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}

	return saved, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Expense{}, model.ErrNotFound
		}
		return model.Expense{}, fmt.Errorf("failed to get expense by id: %w", err)
	}

	return expense, nil
}

func (r *ExpenseRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
			  WHERE user_id = $1
			  ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses by user id: %w", err)
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expense rows: %w", err)
	}

	return expenses, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense model.Expense) (model.Expense, error) {
	query := `UPDATE expenses
			  SET category = $2, amount = $3, date = $4, icon = $5, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + expenseColumns

	saved, err := scanExpense(r.db.QueryRow(ctx, query,
		expense.ID, expense.Category, expense.Amount, expense.Date, expense.Icon,
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Expense{}, model.ErrNotFound
		}
		return model.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}

	return saved, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
