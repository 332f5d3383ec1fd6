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

// DashboardService defines the aggregation operations used by the
// endpoints.
type DashboardService interface {
	GetOverview(ctx context.Context, userID uuid.UUID) (service.Overview, error)
	GetAllTransactions(ctx context.Context, userID uuid.UUID) ([]model.Transaction, error)
}

// Dashboard handles the aggregated overview endpoints.
type Dashboard struct {
	service        DashboardService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewDashboard creates a new Dashboard handler.
func NewDashboard(service DashboardService, contextManager model.ContextManager, logger *logger.Logger) *Dashboard {
	return &Dashboard{service: service, contextManager: contextManager, logger: logger}
}

type transactionResponse struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Icon   string          `json:"icon"`
}

func newTransactionResponse(t model.Transaction) transactionResponse {
	return transactionResponse{
		ID:     t.ID.String(),
		Type:   string(t.Type),
		Label:  t.Label,
		Amount: t.Amount,
		Date:   t.Date.Format(time.RFC3339),
		Icon:   t.Icon,
	}
}

func newTransactionResponses(ts []model.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(ts))
	for i, t := range ts {
		out[i] = newTransactionResponse(t)
	}
	return out
}

type overviewResponse struct {
	TotalBalance       decimal.Decimal        `json:"totalBalance"`
	TotalIncome        decimal.Decimal        `json:"totalIncome"`
	TotalExpense       decimal.Decimal        `json:"totalExpense"`
	Last60DaysIncome   windowedIncomeResponse `json:"last60DaysIncome"`
	Last30DaysExpenses windowedExpenseResponse    `json:"last30DaysExpenses"`
	RecentTransactions []transactionResponse  `json:"recentTransactions"`
}

type windowedIncomeResponse struct {
	Total        decimal.Decimal  `json:"total"`
	Transactions []incomeResponse `json:"transactions"`
}

type windowedExpenseResponse struct {
	Total        decimal.Decimal   `json:"total"`
	Transactions []expenseResponse `json:"transactions"`
}

// Overview returns totals, windowed slices, and recent transactions.
func (h *Dashboard) Overview(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	last60 := windowedIncomeResponse{Total: overview.Last60DaysIncome.Total, Transactions: []incomeResponse{}}
	for _, inc := range overview.Last60DaysIncome.Transactions {
		last60.Transactions = append(last60.Transactions, newIncomeResponse(inc))
	}

	last30 := windowedExpenseResponse{Total: overview.Last30DaysExpenses.Total, Transactions: []expenseResponse{}}
	for _, exp := range overview.Last30DaysExpenses.Transactions {
		last30.Transactions = append(last30.Transactions, newExpenseResponse(exp))
	}

	c.JSON(http.StatusOK, overviewResponse{
		TotalBalance:       overview.TotalBalance,
		TotalIncome:        overview.TotalIncome,
		TotalExpense:       overview.TotalExpense,
		Last60DaysIncome:   last60,
		Last30DaysExpenses: last30,
		RecentTransactions: newTransactionResponses(overview.RecentTransactions),
	})
}

// Transactions returns the full merged transaction history.
func (h *Dashboard) Transactions(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	transactions, err := h.service.GetAllTransactions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTransactionResponses(transactions))
}
