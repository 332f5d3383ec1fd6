package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/service"
)

// AuthService defines the account operations the auth endpoints use.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	ResetPasswordWithSecurityAnswer(ctx context.Context, email, answer, newPassword string) error
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params service.UpdateProfileParams) (model.User, error)
	CompleteTour(ctx context.Context, id uuid.UUID, tour string) (model.User, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles the account endpoints.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type userResponse struct {
	ID                  string   `json:"id"`
	FullName            string   `json:"fullName"`
	Email               string   `json:"email"`
	ProfileImageURL     string   `json:"profileImageUrl"`
	Currency            string   `json:"currency"`
	HasSecurityQuestion bool     `json:"hasSecurityQuestion"`
	CompletedTours      []string `json:"completedTours"`
	CreatedAt           string   `json:"createdAt"`
	UpdatedAt           string   `json:"updatedAt"`
}

func newUserResponse(user model.User) userResponse {
	tours := user.CompletedTours
	if tours == nil {
		tours = []string{}
	}
	return userResponse{
		ID:                  user.ID.String(),
		FullName:            user.FullName,
		Email:               user.Email,
		ProfileImageURL:     user.ProfileImageURL,
		Currency:            user.Currency,
		HasSecurityQuestion: user.HasSecurityQuestion(),
		CompletedTours:      tours,
		CreatedAt:           user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           user.UpdatedAt.Format(time.RFC3339),
	}
}

type authResponse struct {
	ID           string       `json:"id"`
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type registerRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

// Register creates a new account and returns the user with a token pair.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterParams{
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
		ProfileImageURL:  req.ProfileImageURL,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed", "email", req.Email, "error", err.Error())
		writeError(c, err)
		return
	}

	h.logger.Info("Auth handler: registration completed", "user_id", result.User.ID)

	c.JSON(http.StatusCreated, authResponse{
		ID:           result.User.ID.String(),
		User:         newUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns the user with a token pair.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed", "email", req.Email, "error", err.Error())
		writeError(c, err)
		return
	}

	h.logger.Info("Auth handler: login completed", "user_id", result.User.ID)

	c.JSON(http.StatusOK, authResponse{
		ID:           result.User.ID.String(),
		User:         newUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

type resetPasswordRequest struct {
	Email          string `json:"email"`
	SecurityAnswer string `json:"securityAnswer"`
	NewPassword    string `json:"newPassword"`
}

// ResetPasswordSecurity resets a password after verifying the account's
// security answer.
func (h *Auth) ResetPasswordSecurity(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	if err := h.authService.ResetPasswordWithSecurityAnswer(c.Request.Context(), req.Email, req.SecurityAnswer, req.NewPassword); err != nil {
		h.logger.Info("Auth handler: password reset failed", "email", req.Email, "error", err.Error())
		writeError(c, err)
		return
	}

	h.logger.Info("Auth handler: password reset completed", "email", req.Email)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GetUser returns the authenticated user's profile.
func (h *Auth) GetUser(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateUserRequest struct {
	FullName        string `json:"fullName"`
	ProfileImageURL string `json:"profileImageUrl"`
	Currency        string `json:"currency"`
}

// UpdateUser applies a partial profile update to the authenticated user.
func (h *Auth) UpdateUser(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileParams{
		FullName:        req.FullName,
		ProfileImageURL: req.ProfileImageURL,
		Currency:        req.Currency,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type tourStatusRequest struct {
	Tour string `json:"tour"`
}

// UpdateTourStatus marks an onboarding tour as completed.
func (h *Auth) UpdateTourStatus(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	var req tourStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	user, err := h.authService.CompleteTour(c.Request.Context(), userID, req.Tour)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates a refresh token and returns a new token pair.
func (h *Auth) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	access, refresh, err := h.tokenService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: token refresh failed", "error", err.Error())
		writeError(c, apierrors.NewErrUnauthorized("Invalid refresh token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// Logout revokes the presented refresh token. Revocation of an unknown
// token still reports success.
func (h *Auth) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	if err := h.tokenService.RevokeByToken(c.Request.Context(), req.RefreshToken); err != nil {
		h.logger.Info("Auth handler: logout revoke failed", "error", err.Error())
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
