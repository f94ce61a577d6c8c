package report

import (
	"context"

	"github.com/google/uuid"
)

// ChatRepository defines storage operations for AI chat history.
type ChatRepository interface {
	Append(ctx context.Context, m *ChatMessage) error
	// ListByUser returns the user's turns ascending by time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ChatMessage, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
