package handler

import (
	"context"
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

// ExpenseService defines the expense operations used by the endpoints.
type ExpenseService interface {
	AddExpense(ctx context.Context, p service.AddExpenseParams) (model.Expense, error)
	GetExpenses(ctx context.Context, userID uuid.UUID) ([]model.Expense, error)
	UpdateExpense(ctx context.Context, p service.UpdateExpenseParams) (model.Expense, error)
	DeleteExpense(ctx context.Context, id, userID uuid.UUID) error
	ExportExpenseExcel(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// Expense handles the expense endpoints.
type Expense struct {
	service        ExpenseService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewExpense creates a new Expense handler.
func NewExpense(service ExpenseService, contextManager model.ContextManager, logger *logger.Logger) *Expense {
	return &Expense{service: service, contextManager: contextManager, logger: logger}
}

type expenseRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Icon     string          `json:"icon"`
}

type expenseResponse struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Icon     string          `json:"icon"`
}

func newExpenseResponse(expense model.Expense) expenseResponse {
	return expenseResponse{
		ID:       expense.ID.String(),
		Category: expense.Category,
		Amount:   expense.Amount,
		Date:     expense.Date.Format(time.RFC3339),
		Icon:     expense.Icon,
	}
}

// Add creates a new expense record for the authenticated user.
func (h *Expense) Add(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid date"))
		return
	}

	expense, err := h.service.AddExpense(c.Request.Context(), service.AddExpenseParams{
		UserID:   userID,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Icon:     req.Icon,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newExpenseResponse(expense))
}

// List returns the user's expense records, newest first.
func (h *Expense) List(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	expenses, err := h.service.GetExpenses(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, expense := range expenses {
		out[i] = newExpenseResponse(expense)
	}

	c.JSON(http.StatusOK, out)
}

// Update replaces the editable fields of one expense record.
func (h *Expense) Update(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid expense id"))
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid date"))
		return
	}

	expense, err := h.service.UpdateExpense(c.Request.Context(), service.UpdateExpenseParams{
		ID:       id,
		UserID:   userID,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Icon:     req.Icon,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newExpenseResponse(expense))
}

// Delete removes one expense record.
func (h *Expense) Delete(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid expense id"))
		return
	}

	if err := h.service.DeleteExpense(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// DownloadExcel streams the user's expense records as an xlsx workbook.
func (h *Expense) DownloadExcel(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	workbook, err := h.service.ExportExpenseExcel(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	writeWorkbook(c, "expense_details.xlsx", workbook)
}
