package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/service"
)

// IncomeService defines the income operations used by the endpoints.
type IncomeService interface {
	AddIncome(ctx context.Context, p service.AddIncomeParams) (model.Income, error)
	GetIncomes(ctx context.Context, userID uuid.UUID) ([]model.Income, error)
	UpdateIncome(ctx context.Context, p service.UpdateIncomeParams) (model.Income, error)
	DeleteIncome(ctx context.Context, id, userID uuid.UUID) error
	ExportIncomeExcel(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// Income handles the income endpoints.
type Income struct {
	service        IncomeService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewIncome creates a new Income handler.
func NewIncome(service IncomeService, contextManager model.ContextManager, logger *logger.Logger) *Income {
	return &Income{service: service, contextManager: contextManager, logger: logger}
}

type incomeRequest struct {
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Icon   string          `json:"icon"`
}

type incomeResponse struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Icon   string          `json:"icon"`
}

func newIncomeResponse(income model.Income) incomeResponse {
	return incomeResponse{
		ID:     income.ID.String(),
		Source: income.Source,
		Amount: income.Amount,
		Date:   income.Date.Format(time.RFC3339),
		Icon:   income.Icon,
	}
}

// Add creates a new income record for the authenticated user.
func (h *Income) Add(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid date"))
		return
	}

	income, err := h.service.AddIncome(c.Request.Context(), service.AddIncomeParams{
		UserID: userID,
		Source: req.Source,
		Amount: req.Amount,
		Date:   date,
		Icon:   req.Icon,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newIncomeResponse(income))
}

// List returns the user's income records, newest first.
func (h *Income) List(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	incomes, err := h.service.GetIncomes(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]incomeResponse, len(incomes))
	for i, income := range incomes {
		out[i] = newIncomeResponse(income)
	}

	c.JSON(http.StatusOK, out)
}

// Update replaces the editable fields of one income record.
func (h *Income) Update(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid income id"))
		return
	}

	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid date"))
		return
	}

	income, err := h.service.UpdateIncome(c.Request.Context(), service.UpdateIncomeParams{
		ID:     id,
		UserID: userID,
		Source: req.Source,
		Amount: req.Amount,
		Date:   date,
		Icon:   req.Icon,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newIncomeResponse(income))
}

// Delete removes one income record.
func (h *Income) Delete(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid income id"))
		return
	}

	if err := h.service.DeleteIncome(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}

// DownloadExcel streams the user's income records as an xlsx workbook.
func (h *Income) DownloadExcel(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	workbook, err := h.service.ExportIncomeExcel(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	writeWorkbook(c, "income_details.xlsx", workbook)
}

// parseDate accepts both bare dates and full RFC 3339 timestamps.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
