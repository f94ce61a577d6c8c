package doctor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
)

// Service provides business logic for doctor profiles, rosters and ratings.
type Service struct {
	profiles ProfileRepository
	roster   RosterRepository
}

func NewService(profiles ProfileRepository, roster RosterRepository) *Service {
	return &Service{profiles: profiles, roster: roster}
}

// UpsertProfile overwrites the caller's profile, creating it on first use.
// Rating state survives updates; it is only written through AddRating.
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
	p.Rating = existing.Rating
	p.RatingCount = existing.RatingCount
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// ListDoctors returns the active-doctor directory.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	return s.profiles.ListActive(ctx, limit, offset)
}

// IsActive reports whether the doctor exists and accepts consultations.
func (s *Service) IsActive(ctx context.Context, doctorUserID uuid.UUID) (bool, error) {
	p, err := s.profiles.GetByUserID(ctx, doctorUserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Active, nil
}

// AddPatient puts a mother's user id on the doctor's roster. Idempotent: the
// roster is a set.
func (s *Service) AddPatient(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error {
	return s.roster.Add(ctx, doctorUserID, patientUserID)
}

// RemovePatient drops the mother from the roster; a no-op when absent.
func (s *Service) RemovePatient(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error {
	return s.roster.Remove(ctx, doctorUserID, patientUserID)
}

func (s *Service) ListPatients(ctx context.Context, doctorUserID uuid.UUID) ([]*RosterEntry, error) {
	return s.roster.List(ctx, doctorUserID)
}

// Rate folds one 1..5 rating into the doctor's running average.
func (s *Service) Rate(ctx context.Context, doctorUserID uuid.UUID, rating int) (*Profile, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validationf("rating must be between 1 and 5")
	}
	return s.profiles.AddRating(ctx, doctorUserID, rating)
}

func validateProfile(p *Profile) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.LicenseNumber = strings.TrimSpace(p.LicenseNumber)
	if p.LicenseNumber == "" {
		return apperr.Validationf("license_number is required")
	}
	if p.GraduationYear < 1900 || p.GraduationYear > time.Now().Year() {
		return apperr.Validationf("graduation_year out of range")
	}
	if p.ExperienceYears < 0 {
		return apperr.Validationf("experience_years cannot be negative")
	}
	if p.ExperienceYears > time.Now().Year()-p.GraduationYear {
		return apperr.Validationf("experience_years exceeds years since graduation")
	}
	if p.ConsultationFee < 0 {
		return apperr.Validationf("consultation_fee cannot be negative")
	}
	for day, slot := range p.Availability {
		if !weekdays[strings.ToLower(day)] {
			return apperr.Validationf("unknown availability day %q", day)
		}
		if slot.Available && (slot.Start == "" || slot.End == "") {
			return apperr.Validationf("available day %q needs start and end times", day)
		}
	}
	return nil
}
