package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

// MessageRepository reads the localized message table.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Find returns the message for a key. sql.ErrNoRows when absent.
func (r *MessageRepository) Find(ctx context.Context, key string) (*models.SystemMessage, error) {
	var msg models.SystemMessage
	const query = "SELECT message_key, message_text FROM system_messages WHERE message_key = $1"
	if err := r.db.GetContext(ctx, &msg, query, key); err != nil {
		return nil, err
	}
	return &msg, nil
}
