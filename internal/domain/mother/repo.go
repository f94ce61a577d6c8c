package mother

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines storage operations for mother profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	// AppendChild adds childID to the profile's child list if absent.
	AppendChild(ctx context.Context, userID, childID uuid.UUID) error
	// RemoveChild drops childID from the profile's child list; no-op when absent.
	RemoveChild(ctx context.Context, userID, childID uuid.UUID) error
}
