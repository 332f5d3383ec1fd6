package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumazq/fintrack-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, full_name, email, password_hash, profile_image_url, currency,
	security_question, security_answer_hash, failed_login_attempts, completed_tours,
	created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.ProfileImageURL,
		&user.Currency, &user.SecurityQuestion, &user.SecurityAnswerHash,
		&user.FailedLoginAttempts, &user.CompletedTours, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, full_name, email, password_hash, profile_image_url, currency,
				security_question, security_answer_hash, failed_login_attempts, completed_tours,
				created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash, user.ProfileImageURL,
		user.Currency, user.SecurityQuestion, user.SecurityAnswerHash,
		user.FailedLoginAttempts, user.CompletedTours, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users
			  SET full_name = $2, email = $3, password_hash = $4, profile_image_url = $5,
				  currency = $6, security_question = $7, security_answer_hash = $8,
				  failed_login_attempts = $9, completed_tours = $10, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash, user.ProfileImageURL,
		user.Currency, user.SecurityQuestion, user.SecurityAnswerHash,
		user.FailedLoginAttempts, user.CompletedTours,
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return saved, nil
}

// IncrementFailedLogins bumps the counter in a single statement so two
// concurrent failed attempts cannot observe the same prior value.
func (r *UserRepository) IncrementFailedLogins(ctx context.Context, id uuid.UUID) (int, error) {
	query := `UPDATE users
			  SET failed_login_attempts = failed_login_attempts + 1, updated_at = NOW()
			  WHERE id = $1
			  RETURNING failed_login_attempts`

	var attempts int
	err := r.db.QueryRow(ctx, query, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment failed logins: %w", err)
	}

	return attempts, nil
}

func (r *UserRepository) ResetFailedLogins(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users
			  SET failed_login_attempts = 0, updated_at = NOW()
			  WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to reset failed logins: %w", err)
	}

	return nil
}
