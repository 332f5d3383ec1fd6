package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	restctx "github.com/rumazq/fintrack-server/internal/api/rest/context"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/service"
	"github.com/rumazq/fintrack-server/internal/testutil"
)

// mockAuthService mocks the AuthService interface.
type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.AuthResult), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.AuthResult), args.Error(1)
}

func (m *mockAuthService) ResetPasswordWithSecurityAnswer(ctx context.Context, email, answer, newPassword string) error {
	args := m.Called(ctx, email, answer, newPassword)
	return args.Error(0)
}

func (m *mockAuthService) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, id uuid.UUID, params service.UpdateProfileParams) (model.User, error) {
	args := m.Called(ctx, id, params)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockAuthService) CompleteTour(ctx context.Context, id uuid.UUID, tour string) (model.User, error) {
	args := m.Called(ctx, id, tour)
	return args.Get(0).(model.User), args.Error(1)
}

// mockTokenService mocks the TokenService interface.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) RevokeByToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func newAuthHandlerTest() (*mockAuthService, *mockTokenService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	authService := &mockAuthService{}
	tokenService := &mockTokenService{}
	h := NewAuth(authService, tokenService, restctx.NewManager(), testutil.MakeNoopLogger())

	engine := gin.New()
	engine.POST("/auth/register", h.Register)
	engine.POST("/auth/login", h.Login)
	engine.POST("/auth/reset-password-security", h.ResetPasswordSecurity)
	engine.POST("/auth/refresh-token", h.RefreshToken)
	return authService, tokenService, engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	authService, _, engine := newAuthHandlerTest()
	userID := uuid.New()

	authService.On("Register", mock.Anything, mock.MatchedBy(func(p service.RegisterParams) bool {
		return p.Email == "a@b.c" && p.FullName == "Ada"
	})).Return(service.AuthResult{
		User:         model.User{ID: userID, FullName: "Ada", Email: "a@b.c", Currency: "USD"},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}, nil)

	w := postJSON(t, engine, "/auth/register", gin.H{
		"fullName": "Ada", "email": "a@b.c", "password": "password1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp["accessToken"])
	assert.Equal(t, userID.String(), resp["id"])
	user := resp["user"].(map[string]any)
	assert.Equal(t, "a@b.c", user["email"])
	_, leaked := user["passwordHash"]
	assert.False(t, leaked)
}

func TestAuthHandler_Login_LockedPayload(t *testing.T) {
	authService, _, engine := newAuthHandlerTest()

	authService.On("Login", mock.Anything, "a@b.c", "wrong").
		Return(service.AuthResult{}, apierrors.NewErrAccountLocked("First pet?"))

	w := postJSON(t, engine, "/auth/login", gin.H{"email": "a@b.c", "password": "wrong"})

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ACCOUNT_LOCKED", resp["errorType"])
	assert.Equal(t, "First pet?", resp["securityQuestion"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	authService, _, engine := newAuthHandlerTest()

	authService.On("Login", mock.Anything, "a@b.c", "wrong").
		Return(service.AuthResult{}, apierrors.NewErrInvalidCredentials(2))

	w := postJSON(t, engine, "/auth/login", gin.H{"email": "a@b.c", "password": "wrong"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CREDENTIALS", resp["errorType"])
	assert.Equal(t, "Invalid credentials. You have 2 attempts left.", resp["message"])
	_, hasQuestion := resp["securityQuestion"]
	assert.False(t, hasQuestion)
}

func TestAuthHandler_Login_BadBody(t *testing.T) {
	_, _, engine := newAuthHandlerTest()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_ResetPasswordSecurity(t *testing.T) {
	authService, _, engine := newAuthHandlerTest()

	authService.On("ResetPasswordWithSecurityAnswer", mock.Anything, "a@b.c", "Rex", "newpassword").Return(nil)

	w := postJSON(t, engine, "/auth/reset-password-security", gin.H{
		"email": "a@b.c", "securityAnswer": "Rex", "newPassword": "newpassword",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password reset successful")
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	_, tokenService, engine := newAuthHandlerTest()

	tokenService.On("Refresh", mock.Anything, "old-refresh").Return("new-access", "new-refresh", nil)

	w := postJSON(t, engine, "/auth/refresh-token", gin.H{"refreshToken": "old-refresh"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new-access", resp["accessToken"])
	assert.Equal(t, "new-refresh", resp["refreshToken"])
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	_, tokenService, engine := newAuthHandlerTest()

	tokenService.On("Refresh", mock.Anything, "stale").Return("", "", model.ErrTokenRevoked)

	w := postJSON(t, engine, "/auth/refresh-token", gin.H{"refreshToken": "stale"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid refresh token")
}
