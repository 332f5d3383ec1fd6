package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumazq/fintrack-server/internal/model"
)

var _ model.IncomeStore = (*IncomeRepository)(nil)

const incomeColumns = `id, user_id, source, amount, date, icon, created_at, updated_at`

type IncomeRepository struct {
	db *Connection
}

func NewIncomeRepository(db *Connection) *IncomeRepository {
	return &IncomeRepository{
		db: db,
	}
}

func scanIncome(row pgx.Row) (model.Income, error) {
	var in model.Income
	err := row.Scan(&in.ID, &in.UserID, &in.Source, &in.Amount, &in.Date, &in.Icon, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Income{}, model.ErrNotFound
		}
		return model.Income{}, err
	}
	return in, nil
}

func (r *IncomeRepository) Create(ctx context.Context, income model.Income) (model.Income, error) {
	query := `INSERT INTO incomes (id, user_id, source, amount, date, icon, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING ` + incomeColumns

	saved, err := scanIncome(r.db.QueryRow(ctx, query,
		income.ID, income.UserID, income.Source, income.Amount, income.Date, income.Icon,
	))
	if err != nil {
		return model.Income{}, fmt.Errorf("failed to create income: %w", err)
	}

	return saved, nil
}

func (r *IncomeRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE id = $1`

	income, err := scanIncome(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Income{}, model.ErrNotFound
		}
		return model.Income{}, fmt.Errorf("failed to get income by id: %w", err)
	}

	return income, nil
}

func (r *IncomeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes
			  WHERE user_id = $1
			  ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get incomes by user id: %w", err)
	}
	defer rows.Close()

	incomes := []model.Income{}
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read income rows: %w", err)
	}

	return incomes, nil
}

func (r *IncomeRepository) Update(ctx context.Context, income model.Income) (model.Income, error) {
	query := `UPDATE incomes
			  SET source = $2, amount = $3, date = $4, icon = $5, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + incomeColumns

	saved, err := scanIncome(r.db.QueryRow(ctx, query,
		income.ID, income.Source, income.Amount, income.Date, income.Icon,
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Income{}, model.ErrNotFound
		}
		return model.Income{}, fmt.Errorf("failed to update income: %w", err)
	}

	return saved, nil
}

func (r *IncomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM incomes WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
