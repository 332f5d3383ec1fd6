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
)

// ChatService defines the chat operations used by the endpoints.
type ChatService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, message string) (model.ChatMessage, error)
	History(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

// Chat handles the assistant conversation endpoints.
type Chat struct {
	service        ChatService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewChat creates a new Chat handler.
func NewChat(service ChatService, contextManager model.ContextManager, logger *logger.Logger) *Chat {
	return &Chat{service: service, contextManager: contextManager, logger: logger}
}

type chatMessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func newChatMessageResponse(m model.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:        m.ID.String(),
		Role:      string(m.Role),
		Message:   m.Message,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// Send logs the user's message and returns the assistant's reply.
func (h *Chat) Send(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.NewErrValidation("Invalid request body"))
		return
	}

	reply, err := h.service.SendMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		h.logger.Info("Chat handler: send failed", "user_id", userID, "error", err.Error())
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply.Message})
}

// History returns the user's conversation, oldest first.
func (h *Chat) History(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	messages, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]chatMessageResponse, len(messages))
	for i, m := range messages {
		out[i] = newChatMessageResponse(m)
	}

	c.JSON(http.StatusOK, out)
}

// Clear deletes the user's conversation.
func (h *Chat) Clear(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, apierrors.NewErrUnauthorized("Missing authorization token"))
		return
	}

	if err := h.service.ClearHistory(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}
