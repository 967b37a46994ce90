package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "page-assistant/backend/internal/errors"
	"page-assistant/backend/internal/model"
)

// conversationKey is the fixed slot the current conversation lives under.
const conversationKey = "conversation"

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

// SaveConversation replaces the slot atomically. The record is stored as one
// JSON blob so a write is always a whole-object replacement, never a
// partial-field update.
func (r *sqliteRepository) SaveConversation(ctx context.Context, conversation *model.Conversation) error {
	data, err := json.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("%w: could not marshal conversation: %v", apperrors.ErrStorage, err)
	}

	query := `
		INSERT INTO conversation (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, conversationKey, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: could not persist conversation: %v", apperrors.ErrStorage, err)
	}
	return nil
}

func (r *sqliteRepository) GetConversation(ctx context.Context) (*model.Conversation, error) {
	query := "SELECT data FROM conversation WHERE key = ?"
	row := r.db.QueryRowContext(ctx, query, conversationKey)

	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			// An empty slot is not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("%w: could not read conversation: %v", apperrors.ErrStorage, err)
	}

	var conversation model.Conversation
	if err := json.Unmarshal([]byte(data), &conversation); err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal conversation: %v", apperrors.ErrStorage, err)
	}
	return &conversation, nil
}
