package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// Auth implements registration, the login lockout state machine, the
// security-answer password reset, and profile maintenance.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *Token
	storage      model.Storage
	logger       *logger.Logger
}

// NewAuth creates the auth service.
func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *Token,
	storage model.Storage,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		storage:      storage,
		logger:       logger,
	}
}

// RegisterParams carries registration input. SecurityQuestion and
// SecurityAnswer must be provided together or not at all.
type RegisterParams struct {
	FullName         string
	Email            string
	Password         string
	ProfileImageURL  string
	SecurityQuestion string
	SecurityAnswer   string
}

// AuthResult is a successful authentication outcome.
type AuthResult struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new user with hashed credentials and issues tokens.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	if params.FullName == "" || params.Email == "" || params.Password == "" {
		return AuthResult{}, apierrors.NewErrValidation("All fields are required")
	}
	if len(params.Password) < MinPasswordLength {
		return AuthResult{}, apierrors.NewErrValidation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if (params.SecurityQuestion == "") != (params.SecurityAnswer == "") {
		return AuthResult{}, apierrors.NewErrValidation("Security question and answer must be provided together")
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: registration with taken email", "email", params.Email)
		return AuthResult{}, apierrors.NewErrEmailIsTaken()
	}
	if !errors.Is(err, model.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	answerHash := ""
	if params.SecurityAnswer != "" {
		answerHash, err = a.hasher.Hash(params.SecurityAnswer)
		if err != nil {
			return AuthResult{}, fmt.Errorf("failed to hash security answer: %w", err)
		}
	}

	now := time.Now()
	user := model.User{
		ID:                 uuid.New(),
		FullName:           params.FullName,
		Email:              params.Email,
		PasswordHash:       passwordHash,
		ProfileImageURL:    params.ProfileImageURL,
		Currency:           "USD",
		SecurityQuestion:   params.SecurityQuestion,
		SecurityAnswerHash: answerHash,
		CompletedTours:     []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user", "email", params.Email, "error", err.Error())
		return AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Login runs the lockout state machine.
//
// An account with model.MaxFailedLogins prior failures is locked: the
// password is never verified and the locked payload is returned directly,
// so a locked account cannot leak whether a guess was correct. A wrong
// password below that boundary increments the counter atomically; the
// increment that reaches the boundary locks the account in the same save.
func (a *Auth) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if email == "" || password == "" {
		return AuthResult{}, apierrors.NewErrValidation("All fields are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		// Unknown email: indistinguishable from a wrong password, and there
		// is no counter to mutate.
		return AuthResult{}, apierrors.NewErrInvalidCredentials(-1)
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.Locked() {
		a.logger.Info("Auth service: login attempt on locked account", "user_id", user.ID)
		return AuthResult{}, lockedError(user)
	}

	if !a.hasher.Compare(user.PasswordHash, password) {
		attempts, err := a.userStore.IncrementFailedLogins(ctx, user.ID)
		if err != nil {
			return AuthResult{}, fmt.Errorf("failed to increment failed logins: %w", err)
		}

		if attempts >= model.MaxFailedLogins {
			a.logger.Info("Auth service: account locked", "user_id", user.ID, "attempts", attempts)
			return AuthResult{}, lockedError(user)
		}

		return AuthResult{}, apierrors.NewErrInvalidCredentials(model.MaxFailedLogins + 1 - attempts)
	}

	if user.FailedLoginAttempts > 0 {
		if err := a.userStore.ResetFailedLogins(ctx, user.ID); err != nil {
			return AuthResult{}, fmt.Errorf("failed to reset failed logins: %w", err)
		}
		user.FailedLoginAttempts = 0
	}

	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: login successful", "user_id", user.ID)

	return AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func lockedError(user model.User) error {
	if user.HasSecurityQuestion() {
		return apierrors.NewErrAccountLocked(user.SecurityQuestion)
	}
	return apierrors.NewErrAccountLockedNoRecovery()
}

// ResetPasswordWithSecurityAnswer verifies the security answer and, on
// match, replaces the password hash and unlocks the account. A wrong
// answer changes nothing, including the failed-login counter.
func (a *Auth) ResetPasswordWithSecurityAnswer(ctx context.Context, email, answer, newPassword string) error {
	if email == "" || answer == "" || newPassword == "" {
		return apierrors.NewErrValidation("All fields are required")
	}
	if len(newPassword) < MinPasswordLength {
		return apierrors.NewErrValidation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.HasSecurityQuestion() {
		return apierrors.NewErrSecurityQANotSet()
	}

	if !a.hasher.Compare(user.SecurityAnswerHash, answer) {
		a.logger.Info("Auth service: wrong security answer", "user_id", user.ID)
		return apierrors.NewErrInvalidSecurityAnswer()
	}

	passwordHash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.FailedLoginAttempts = 0

	if _, err := a.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	a.logger.Info("Auth service: password reset via security answer", "user_id", user.ID)

	return nil
}

// GetUser returns the user record for id.
func (a *Auth) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateProfileParams carries a partial profile update; empty fields are
// left unchanged.
type UpdateProfileParams struct {
	FullName        string
	ProfileImageURL string
	Currency        string
}

// UpdateProfile applies a partial profile update. Replacing the profile
// image best-effort deletes the superseded object; a failed cleanup is
// logged, never surfaced.
func (a *Auth) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if params.ProfileImageURL != "" && user.ProfileImageURL != "" && params.ProfileImageURL != user.ProfileImageURL {
		if key, ok := a.storage.KeyFromURL(user.ProfileImageURL); ok {
			if err := a.storage.Delete(ctx, key); err != nil {
				a.logger.Warn("Auth service: failed to delete old profile image", "user_id", id, "key", key, "error", err.Error())
			}
		}
	}

	if params.FullName != "" {
		user.FullName = params.FullName
	}
	if params.ProfileImageURL != "" {
		user.ProfileImageURL = params.ProfileImageURL
	}
	if params.Currency != "" {
		user.Currency = params.Currency
	}

	user, err = a.userStore.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

// CompleteTour records a finished onboarding tour for the user.
func (a *Auth) CompleteTour(ctx context.Context, id uuid.UUID, tour string) (model.User, error) {
	if strings.TrimSpace(tour) == "" {
		return model.User{}, apierrors.NewErrValidation("Tour name is required")
	}

	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	for _, t := range user.CompletedTours {
		if t == tour {
			return user, nil
		}
	}
	user.CompletedTours = append(user.CompletedTours, tour)

	user, err = a.userStore.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}
