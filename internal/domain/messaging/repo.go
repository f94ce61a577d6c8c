package messaging

import (
	"context"

	"github.com/google/uuid"
)

// MessageRepository defines storage operations for doctor-mother messaging.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListThread returns the thread ascending by time.
	ListThread(ctx context.Context, doctorUserID, motherUserID uuid.UUID) ([]*Message, error)
	// MarkSeen flips seen on the thread messages NOT sent by viewerRole.
	MarkSeen(ctx context.Context, doctorUserID, motherUserID uuid.UUID, viewerRole string) error
	// UnreadCounts returns per-thread unseen totals addressed to the viewer.
	UnreadCounts(ctx context.Context, viewerID uuid.UUID, viewerRole string) ([]*UnreadCount, error)
}
