package mood

import (
	"context"

	"github.com/google/uuid"
)

// LogRepository defines storage operations for mood logs.
type LogRepository interface {
	Append(ctx context.Context, l *Log) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Log, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
