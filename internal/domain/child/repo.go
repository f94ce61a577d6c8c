package child

import (
	"context"

	"github.com/google/uuid"
)

// ChildRepository defines storage operations for child profiles.
type ChildRepository interface {
	Create(ctx context.Context, ch *Child) error
	GetByID(ctx context.Context, id uuid.UUID) (*Child, error)
	ListByMother(ctx context.Context, motherUserID uuid.UUID) ([]*Child, error)
	Update(ctx context.Context, ch *Child) error
	ReplaceScreenings(ctx context.Context, id uuid.UUID, screenings map[string]ScreeningResult) error
	Delete(ctx context.Context, id uuid.UUID) error
}
