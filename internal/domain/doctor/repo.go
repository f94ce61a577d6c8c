package doctor

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines storage operations for doctor profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	ListActive(ctx context.Context, limit, offset int) ([]*Profile, int, error)
	// AddRating folds one rating into the running average in a single
	// statement and returns the updated profile.
	AddRating(ctx context.Context, userID uuid.UUID, rating int) (*Profile, error)
}

// RosterRepository defines storage operations for doctor patient rosters.
// The roster is a set of mother user ids per doctor.
type RosterRepository interface {
	// Add inserts the pair; a no-op when already present.
	Add(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error
	// Remove deletes the pair; a no-op when absent.
	Remove(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error
	List(ctx context.Context, doctorUserID uuid.UUID) ([]*RosterEntry, error)
}
