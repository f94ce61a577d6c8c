package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines storage operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetNeedsChoice(ctx context.Context, id uuid.UUID, needsChoice bool) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
