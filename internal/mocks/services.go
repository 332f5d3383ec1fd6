package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rumazq/fintrack-server/internal/model"
)

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

// PasswordHasher is a mock of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hash, plain string) bool {
	args := m.Called(hash, plain)
	return args.Bool(0)
}

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) KeyFromURL(rawURL string) (string, bool) {
	args := m.Called(rawURL)
	return args.String(0), args.Bool(1)
}

// Assistant is a mock of model.Assistant.
type Assistant struct {
	mock.Mock
}

func (m *Assistant) Ready() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Assistant) RecentLimit() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Assistant) Reply(ctx context.Context, message string, snapshot model.FinanceSnapshot) (string, error) {
	args := m.Called(ctx, message, snapshot)
	return args.String(0), args.Error(1)
}

// SnapshotSource is a mock of model.SnapshotSource.
type SnapshotSource struct {
	mock.Mock
}

func (m *SnapshotSource) Snapshot(ctx context.Context, userID uuid.UUID, recentLimit int) (model.FinanceSnapshot, error) {
	args := m.Called(ctx, userID, recentLimit)
	return args.Get(0).(model.FinanceSnapshot), args.Error(1)
}
