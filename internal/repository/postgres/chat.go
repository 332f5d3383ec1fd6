package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rumazq/fintrack-server/internal/model"
)

var _ model.ChatStore = (*ChatRepository)(nil)

type ChatRepository struct {
	db *Connection
}

func NewChatRepository(db *Connection) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

func (r *ChatRepository) Append(ctx context.Context, message model.ChatMessage) (model.ChatMessage, error) {
	query := `INSERT INTO chat_messages (id, user_id, role, message, created_at)
			  VALUES ($1, $2, $3, $4, NOW())
			  RETURNING id, user_id, role, message, created_at`

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	var saved model.ChatMessage
	err := r.db.QueryRow(ctx, query,
		message.ID, message.UserID, message.Role, message.Message,
	).Scan(&saved.ID, &saved.UserID, &saved.Role, &saved.Message, &saved.CreatedAt)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("failed to append chat message: %w", err)
	}

	return saved, nil
}

func (r *ChatRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error) {
	query := `SELECT id, user_id, role, message, created_at
			  FROM chat_messages
			  WHERE user_id = $1
			  ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat message rows: %w", err)
	}

	return messages, nil
}

func (r *ChatRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM chat_messages WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}

	return nil
}
