// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rumazq/fintrack-server/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) IncrementFailedLogins(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *UserStore) ResetFailedLogins(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// IncomeStore is a mock of model.IncomeStore.
type IncomeStore struct {
	mock.Mock
}

func (m *IncomeStore) Create(ctx context.Context, income model.Income) (model.Income, error) {
	args := m.Called(ctx, income)
	return args.Get(0).(model.Income), args.Error(1)
}

func (m *IncomeStore) GetByID(ctx context.Context, id uuid.UUID) (model.Income, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Income), args.Error(1)
}

func (m *IncomeStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Income, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Income), args.Error(1)
}

func (m *IncomeStore) Update(ctx context.Context, income model.Income) (model.Income, error) {
	args := m.Called(ctx, income)
	return args.Get(0).(model.Income), args.Error(1)
}

func (m *IncomeStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ExpenseStore is a mock of model.ExpenseStore.
type ExpenseStore struct {
	mock.Mock
}

func (m *ExpenseStore) Create(ctx context.Context, expense model.Expense) (model.Expense, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(model.Expense), args.Error(1)
}

func (m *ExpenseStore) GetByID(ctx context.Context, id uuid.UUID) (model.Expense, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Expense), args.Error(1)
}

func (m *ExpenseStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Expense, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *ExpenseStore) Update(ctx context.Context, expense model.Expense) (model.Expense, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(model.Expense), args.Error(1)
}

func (m *ExpenseStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ChatStore is a mock of model.ChatStore.
type ChatStore struct {
	mock.Mock
}

func (m *ChatStore) Append(ctx context.Context, message model.ChatMessage) (model.ChatMessage, error) {
	args := m.Called(ctx, message)
	return args.Get(0).(model.ChatMessage), args.Error(1)
}

func (m *ChatStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *ChatStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
