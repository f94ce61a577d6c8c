package report

import (
	"time"

	"github.com/google/uuid"
)

// Chat turn roles, matching the collaborator's wire roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage maps to the chat_messages table: one turn of a mother's AI
// conversation.
type ChatMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Report is a generated text document.
type Report struct {
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}
