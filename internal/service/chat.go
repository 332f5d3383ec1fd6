package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
)

// Chat manages the assistant conversation: the persisted history and the
// delegation of user messages to the configured assistant strategy.
type Chat struct {
	chatStore model.ChatStore
	assistant model.Assistant
	snapshots model.SnapshotSource
	logger    *logger.Logger
}

// NewChat creates the chat service.
func NewChat(chatStore model.ChatStore, assistant model.Assistant, snapshots model.SnapshotSource, logger *logger.Logger) *Chat {
	return &Chat{chatStore: chatStore, assistant: assistant, snapshots: snapshots, logger: logger}
}

// SendMessage logs the user's message, asks the assistant for a reply, and
// logs that reply. The readiness check runs before anything is written, so
// an unconfigured assistant leaves the history untouched. A reply failure
// keeps the already-logged user message and produces no synthetic reply.
func (s *Chat) SendMessage(ctx context.Context, userID uuid.UUID, message string) (model.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return model.ChatMessage{}, apierrors.NewErrValidation("Message is required")
	}

	if err := s.assistant.Ready(); err != nil {
		if errors.Is(err, model.ErrAssistantNotConfigured) {
			return model.ChatMessage{}, apierrors.NewErrAssistantNotConfigured()
		}
		return model.ChatMessage{}, fmt.Errorf("assistant readiness: %w", err)
	}

	if _, err := s.chatStore.Append(ctx, model.ChatMessage{
		UserID:  userID,
		Role:    model.ChatRoleUser,
		Message: message,
	}); err != nil {
		return model.ChatMessage{}, fmt.Errorf("log user message: %w", err)
	}

	snapshot, err := s.snapshots.Snapshot(ctx, userID, s.assistant.RecentLimit())
	if err != nil {
		return model.ChatMessage{}, apierrors.NewErrAssistantUnavailable(err)
	}

	reply, err := s.assistant.Reply(ctx, message, snapshot)
	if err != nil {
		s.logger.Error("assistant reply failed", "error", err)
		return model.ChatMessage{}, apierrors.NewErrAssistantUnavailable(err)
	}

	logged, err := s.chatStore.Append(ctx, model.ChatMessage{
		UserID:  userID,
		Role:    model.ChatRoleSystem,
		Message: reply,
	})
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("log assistant reply: %w", err)
	}

	return logged, nil
}

// History returns the user's conversation, oldest first.
func (s *Chat) History(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error) {
	messages, err := s.chatStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	return messages, nil
}

// ClearHistory deletes the user's conversation.
func (s *Chat) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.chatStore.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}
