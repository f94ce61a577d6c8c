package mother

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
)

// Service provides business logic for mother profiles.
type Service struct {
	profiles ProfileRepository
}

func NewService(profiles ProfileRepository) *Service {
	return &Service{profiles: profiles}
}

// UpsertProfile overwrites the caller's profile, creating it on first use.
// The child list is owned by the child domain and never set from here.
func (s *Service) UpsertProfile(ctx context.Context, userID uuid.UUID, p *Profile) (*Profile, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	p.UserID = userID
	existing, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if err := s.profiles.Create(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	p.ID = existing.ID
	p.ChildIDs = existing.ChildIDs
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// AttachChild records a child under the mother's profile, creating a minimal
// profile when she has none yet. Run inside the child-registration transaction.
func (s *Service) AttachChild(ctx context.Context, userID, childID uuid.UUID) error {
	if _, err := s.profiles.GetByUserID(ctx, userID); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		minimal := &Profile{UserID: userID, PregnancyStage: StageNone}
		if err := s.profiles.Create(ctx, minimal); err != nil {
			return err
		}
	}
	return s.profiles.AppendChild(ctx, userID, childID)
}

// DetachChild drops a child id from the mother's list; no-op when absent.
func (s *Service) DetachChild(ctx context.Context, userID, childID uuid.UUID) error {
	return s.profiles.RemoveChild(ctx, userID, childID)
}

func validateProfile(p *Profile) error {
	p.FullName = strings.TrimSpace(p.FullName)
	if p.Age < 0 || p.Age > 120 {
		return apperr.Validationf("age out of range")
	}
	if p.PregnancyStage == "" {
		p.PregnancyStage = StageNone
	}
	if !ValidStage(p.PregnancyStage) {
		return apperr.Validationf("pregnancy_stage must be pregnant, postpartum or none")
	}
	if p.PregnancyWeek < 0 || p.PregnancyWeek > 45 {
		return apperr.Validationf("pregnancy_week out of range")
	}
	return nil
}
