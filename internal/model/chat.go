package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatStore persists the append-only per-user chat log.
type ChatStore interface {
	Append(ctx context.Context, message ChatMessage) (ChatMessage, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]ChatMessage, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// ChatRole distinguishes user messages from assistant replies.
type ChatRole string

const (
	// ChatRoleUser is an inbound user message.
	ChatRoleUser ChatRole = "user"
	// ChatRoleSystem is an assistant reply.
	ChatRoleSystem ChatRole = "system"
)

// ChatMessage is one entry of the chat log. Entries are never edited;
// the log is only appended to or cleared in bulk.
type ChatMessage struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Role      ChatRole
	Message   string
	CreatedAt time.Time
}
