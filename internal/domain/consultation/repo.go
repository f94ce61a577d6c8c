package consultation

import (
	"context"

	"github.com/google/uuid"
)

// ConsultationRepository defines storage operations for consultations.
type ConsultationRepository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	// HasPending reports whether the (mother, doctor) pair already has a
	// pending request.
	HasPending(ctx context.Context, motherUserID, doctorUserID uuid.UUID) (bool, error)
	// Update writes every mutable field of the consultation.
	Update(ctx context.Context, c *Consultation) error
	ListByMother(ctx context.Context, motherUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error)
	ListByDoctor(ctx context.Context, doctorUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error)
}
