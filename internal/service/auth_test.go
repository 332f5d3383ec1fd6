package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/mocks"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/testutil"
)

type authFixture struct {
	userStore    *mocks.UserStore
	hasher       *mocks.PasswordHasher
	refreshStore *mocks.RefreshTokenStore
	tokenManager *mocks.TokenManager
	storage      *mocks.Storage
	auth         *Auth
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userStore:    &mocks.UserStore{},
		hasher:       &mocks.PasswordHasher{},
		refreshStore: &mocks.RefreshTokenStore{},
		tokenManager: &mocks.TokenManager{},
		storage:      &mocks.Storage{},
	}
	log := testutil.MakeNoopLogger()
	tokenService := NewToken(f.tokenManager, f.refreshStore, log)
	f.auth = NewAuth(f.userStore, f.hasher, tokenService, f.storage, log)
	return f
}

func (f *authFixture) expectTokenIssue(userID uuid.UUID) {
	f.tokenManager.On("GenerateAccessToken", userID).Return("access-token", nil)
	f.tokenManager.On("GenerateRefreshToken", userID).Return("refresh-token", "jti-1", nil)
	f.refreshStore.On("Create", mock.Anything, mock.Anything).Return(nil)
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, model.ErrNotFound)
	f.hasher.On("Hash", "password1").Return("hashed-password", nil)
	f.hasher.On("Hash", "Rex").Return("hashed-answer", nil)
	f.userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@b.c" && u.PasswordHash == "hashed-password" &&
			u.SecurityQuestion == "First pet?" && u.SecurityAnswerHash == "hashed-answer" &&
			u.Currency == "USD"
	})).Return(model.User{ID: userID, Email: "a@b.c"}, nil)
	f.expectTokenIssue(userID)

	result, err := f.auth.Register(ctx, RegisterParams{
		FullName:         "Ada",
		Email:            "a@b.c",
		Password:         "password1",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "Rex",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
	assert.Equal(t, "access-token", result.AccessToken)
	assert.Equal(t, "refresh-token", result.RefreshToken)
}

func TestAuth_Register_EmailTaken(t *testing.T) {
	f := newAuthFixture()

	f.userStore.On("GetByEmail", mock.Anything, "taken@b.c").Return(model.User{ID: uuid.New()}, nil)

	_, err := f.auth.Register(context.Background(), RegisterParams{
		FullName: "Ada", Email: "taken@b.c", Password: "password1",
	})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeEmailInUse, apiErr.Type)
}

func TestAuth_Register_ShortPassword(t *testing.T) {
	f := newAuthFixture()

	_, err := f.auth.Register(context.Background(), RegisterParams{
		FullName: "Ada", Email: "a@b.c", Password: "abc12",
	})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeValidation, apiErr.Type)
}

func TestAuth_Register_QuestionWithoutAnswer(t *testing.T) {
	f := newAuthFixture()

	_, err := f.auth.Register(context.Background(), RegisterParams{
		FullName: "Ada", Email: "a@b.c", Password: "password1",
		SecurityQuestion: "First pet?",
	})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeValidation, apiErr.Type)
}

func TestAuth_Login_Success(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{ID: userID, Email: "a@b.c", PasswordHash: "hash"}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	f.hasher.On("Compare", "hash", "password1").Return(true)
	f.expectTokenIssue(userID)

	result, err := f.auth.Login(context.Background(), "a@b.c", "password1")
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
	f.userStore.AssertNotCalled(t, "ResetFailedLogins", mock.Anything, mock.Anything)
}

func TestAuth_Login_SuccessResetsCounter(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{ID: userID, Email: "a@b.c", PasswordHash: "hash", FailedLoginAttempts: 2}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	f.hasher.On("Compare", "hash", "password1").Return(true)
	f.userStore.On("ResetFailedLogins", mock.Anything, userID).Return(nil)
	f.expectTokenIssue(userID)

	result, err := f.auth.Login(context.Background(), "a@b.c", "password1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.User.FailedLoginAttempts)
	f.userStore.AssertCalled(t, "ResetFailedLogins", mock.Anything, userID)
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture()

	f.userStore.On("GetByEmail", mock.Anything, "nobody@b.c").Return(model.User{}, model.ErrNotFound)

	_, err := f.auth.Login(context.Background(), "nobody@b.c", "password1")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeInvalidCredentials, apiErr.Type)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	f.userStore.AssertNotCalled(t, "IncrementFailedLogins", mock.Anything, mock.Anything)
}

func TestAuth_Login_WrongPassword_AttemptsLeft(t *testing.T) {
	tests := []struct {
		name            string
		attemptsAfter   int
		expectedMessage string
	}{
		{"first failure", 1, "Invalid credentials. You have 3 attempts left."},
		{"second failure", 2, "Invalid credentials. You have 2 attempts left."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			userID := uuid.New()
			user := model.User{ID: userID, Email: "a@b.c", PasswordHash: "hash", FailedLoginAttempts: tt.attemptsAfter - 1}

			f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
			f.hasher.On("Compare", "hash", "wrong").Return(false)
			f.userStore.On("IncrementFailedLogins", mock.Anything, userID).Return(tt.attemptsAfter, nil)

			_, err := f.auth.Login(context.Background(), "a@b.c", "wrong")
			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apierrors.TypeInvalidCredentials, apiErr.Type)
			assert.Equal(t, tt.expectedMessage, apiErr.Message)
		})
	}
}

func TestAuth_Login_ThirdFailureLocks(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{
		ID: userID, Email: "a@b.c", PasswordHash: "hash",
		FailedLoginAttempts: 2,
		SecurityQuestion:    "First pet?", SecurityAnswerHash: "answer-hash",
	}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	f.hasher.On("Compare", "hash", "wrong").Return(false)
	f.userStore.On("IncrementFailedLogins", mock.Anything, userID).Return(3, nil)

	_, err := f.auth.Login(context.Background(), "a@b.c", "wrong")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeAccountLocked, apiErr.Type)
	assert.Equal(t, "First pet?", apiErr.SecurityQuestion)
}

func TestAuth_Login_LockedAccount_SkipsPasswordCheck(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{
		ID: userID, Email: "a@b.c", PasswordHash: "hash",
		FailedLoginAttempts: 3,
		SecurityQuestion:    "First pet?", SecurityAnswerHash: "answer-hash",
	}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)

	// Even the correct password must not get through a locked account.
	_, err := f.auth.Login(context.Background(), "a@b.c", "password1")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeAccountLocked, apiErr.Type)
	assert.Equal(t, "First pet?", apiErr.SecurityQuestion)
	f.hasher.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
	f.userStore.AssertNotCalled(t, "IncrementFailedLogins", mock.Anything, mock.Anything)
}

func TestAuth_Login_LockedAccount_NoSecurityQuestion(t *testing.T) {
	f := newAuthFixture()
	user := model.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: "hash", FailedLoginAttempts: 3}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)

	_, err := f.auth.Login(context.Background(), "a@b.c", "password1")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeAccountLockedNoQA, apiErr.Type)
	assert.Empty(t, apiErr.SecurityQuestion)
}

func TestAuth_ResetPassword_Success(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{
		ID: userID, Email: "a@b.c", PasswordHash: "old-hash",
		FailedLoginAttempts: 3,
		SecurityQuestion:    "First pet?", SecurityAnswerHash: "answer-hash",
	}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	f.hasher.On("Compare", "answer-hash", "Rex").Return(true)
	f.hasher.On("Hash", "newpassword").Return("new-hash", nil)
	f.userStore.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.PasswordHash == "new-hash" && u.FailedLoginAttempts == 0
	})).Return(model.User{ID: userID}, nil)

	err := f.auth.ResetPasswordWithSecurityAnswer(context.Background(), "a@b.c", "Rex", "newpassword")
	require.NoError(t, err)
}

func TestAuth_ResetPassword_WrongAnswer(t *testing.T) {
	f := newAuthFixture()
	user := model.User{
		ID: uuid.New(), Email: "a@b.c",
		SecurityQuestion: "First pet?", SecurityAnswerHash: "answer-hash",
	}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	f.hasher.On("Compare", "answer-hash", "Fido").Return(false)

	err := f.auth.ResetPasswordWithSecurityAnswer(context.Background(), "a@b.c", "Fido", "newpassword")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeInvalidSecurityAnswer, apiErr.Type)
	f.userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuth_ResetPassword_NoSecurityQuestion(t *testing.T) {
	f := newAuthFixture()
	user := model.User{ID: uuid.New(), Email: "a@b.c"}

	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)

	err := f.auth.ResetPasswordWithSecurityAnswer(context.Background(), "a@b.c", "Rex", "newpassword")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeSecurityQANotSet, apiErr.Type)
}

func TestAuth_ResetPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture()

	f.userStore.On("GetByEmail", mock.Anything, "nobody@b.c").Return(model.User{}, model.ErrNotFound)

	err := f.auth.ResetPasswordWithSecurityAnswer(context.Background(), "nobody@b.c", "Rex", "newpassword")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.TypeNotFound, apiErr.Type)
}

func TestAuth_UpdateProfile_ReplacesImage(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{ID: userID, ProfileImageURL: "http://cdn/old.png"}

	f.userStore.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.storage.On("KeyFromURL", "http://cdn/old.png").Return("old.png", true)
	f.storage.On("Delete", mock.Anything, "old.png").Return(nil)
	f.userStore.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.ProfileImageURL == "http://cdn/new.png"
	})).Return(model.User{ID: userID, ProfileImageURL: "http://cdn/new.png"}, nil)

	updated, err := f.auth.UpdateProfile(context.Background(), userID, UpdateProfileParams{
		ProfileImageURL: "http://cdn/new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/new.png", updated.ProfileImageURL)
	f.storage.AssertCalled(t, "Delete", mock.Anything, "old.png")
}

func TestAuth_UpdateProfile_DeleteFailureIgnored(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{ID: userID, ProfileImageURL: "http://cdn/old.png"}

	f.userStore.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.storage.On("KeyFromURL", "http://cdn/old.png").Return("old.png", true)
	f.storage.On("Delete", mock.Anything, "old.png").Return(errors.New("gone"))
	f.userStore.On("Update", mock.Anything, mock.Anything).Return(model.User{ID: userID}, nil)

	_, err := f.auth.UpdateProfile(context.Background(), userID, UpdateProfileParams{
		ProfileImageURL: "http://cdn/new.png",
	})
	require.NoError(t, err)
}

func TestAuth_CompleteTour(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{ID: userID, CompletedTours: []string{"dashboard"}}

	f.userStore.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.userStore.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return len(u.CompletedTours) == 2 && u.CompletedTours[1] == "income"
	})).Return(model.User{ID: userID, CompletedTours: []string{"dashboard", "income"}}, nil)

	updated, err := f.auth.CompleteTour(context.Background(), userID, "income")
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard", "income"}, updated.CompletedTours)
}

func TestAuth_CompleteTour_AlreadyDone(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	user := model.User{ID: userID, CompletedTours: []string{"dashboard"}}

	f.userStore.On("GetByID", mock.Anything, userID).Return(user, nil)

	updated, err := f.auth.CompleteTour(context.Background(), userID, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard"}, updated.CompletedTours)
	f.userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
