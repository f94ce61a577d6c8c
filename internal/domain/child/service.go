package child

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/db"
)

// MotherRegistry is the slice of the mother domain this service needs: keeping
// the mother's child list in step with the children table.
type MotherRegistry interface {
	AttachChild(ctx context.Context, motherUserID, childID uuid.UUID) error
	DetachChild(ctx context.Context, motherUserID, childID uuid.UUID) error
}

// Service provides business logic for child profiles and screenings.
type Service struct {
	children ChildRepository
	mothers  MotherRegistry
	tx       db.TxRunner
}

func NewService(children ChildRepository, mothers MotherRegistry, tx db.TxRunner) *Service {
	return &Service{children: children, mothers: mothers, tx: tx}
}

// Register creates a child and records it on the mother's profile in one
// transaction, creating a minimal mother profile when she has none.
func (s *Service) Register(ctx context.Context, motherUserID uuid.UUID, ch *Child) (*Child, error) {
	if err := validateChild(ch); err != nil {
		return nil, err
	}
	ch.MotherUserID = motherUserID
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.children.Create(ctx, ch); err != nil {
			return err
		}
		return s.mothers.AttachChild(ctx, motherUserID, ch.ID)
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Get returns a child. Mothers can only read their own children; doctors and
// admins can read any.
func (s *Service) Get(ctx context.Context, callerID uuid.UUID, callerRole string, childID uuid.UUID) (*Child, error) {
	ch, err := s.children.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if callerRole == "mother" && ch.MotherUserID != callerID {
		return nil, apperr.Forbiddenf("not the child's mother")
	}
	return ch, nil
}

func (s *Service) ListByMother(ctx context.Context, motherUserID uuid.UUID) ([]*Child, error) {
	return s.children.ListByMother(ctx, motherUserID)
}

// Update overwrites the child's editable fields. Only the owning mother may
// write; screenings are replaced through UpdateScreenings, not here.
func (s *Service) Update(ctx context.Context, motherUserID, childID uuid.UUID, ch *Child) (*Child, error) {
	if err := validateChild(ch); err != nil {
		return nil, err
	}
	existing, err := s.children.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if existing.MotherUserID != motherUserID {
		return nil, apperr.Forbiddenf("not the child's mother")
	}
	ch.ID = childID
	ch.MotherUserID = existing.MotherUserID
	ch.Screenings = existing.Screenings
	if err := s.children.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// UpdateScreenings replaces the whole screening map. Every key must be one of
// the four known game slots.
func (s *Service) UpdateScreenings(ctx context.Context, motherUserID, childID uuid.UUID, screenings map[string]ScreeningResult) (*Child, error) {
	for slot := range screenings {
		if _, ok := ScreeningConditions[slot]; !ok {
			return nil, apperr.Validationf("unknown screening slot %q", slot)
		}
	}
	existing, err := s.children.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if existing.MotherUserID != motherUserID {
		return nil, apperr.Forbiddenf("not the child's mother")
	}
	if screenings == nil {
		screenings = map[string]ScreeningResult{}
	}
	if err := s.children.ReplaceScreenings(ctx, childID, screenings); err != nil {
		return nil, err
	}
	existing.Screenings = screenings
	return existing, nil
}

// Delete removes the child and detaches it from the mother's list in one
// transaction.
func (s *Service) Delete(ctx context.Context, motherUserID, childID uuid.UUID) error {
	existing, err := s.children.GetByID(ctx, childID)
	if err != nil {
		return err
	}
	if existing.MotherUserID != motherUserID {
		return apperr.Forbiddenf("not the child's mother")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.children.Delete(ctx, childID); err != nil {
			return err
		}
		return s.mothers.DetachChild(ctx, motherUserID, childID)
	})
}

func validateChild(ch *Child) error {
	ch.FullName = strings.TrimSpace(ch.FullName)
	if ch.FullName == "" {
		return apperr.Validationf("full_name is required")
	}
	if ch.DateOfBirth.IsZero() {
		return apperr.Validationf("date_of_birth is required")
	}
	// Today is allowed; anything after end of today is not.
	if ch.DateOfBirth.After(endOfToday()) {
		return apperr.Validationf("date_of_birth cannot be in the future")
	}
	if !ValidGender(ch.Gender) {
		return apperr.Validationf("gender must be male, female or other")
	}
	return nil
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}
