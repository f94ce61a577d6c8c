package consultation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/db"
)

// DoctorRegistry is the slice of the doctor domain consultations need:
// directory checks, the patient roster, and the rating average.
type DoctorRegistry interface {
	IsActive(ctx context.Context, doctorUserID uuid.UUID) (bool, error)
	AddPatient(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error
	RateDoctor(ctx context.Context, doctorUserID uuid.UUID, rating int) error
}

// Service provides business logic for the consultation workflow.
type Service struct {
	consultations ConsultationRepository
	doctors       DoctorRegistry
	tx            db.TxRunner
}

func NewService(consultations ConsultationRepository, doctors DoctorRegistry, tx db.TxRunner) *Service {
	return &Service{consultations: consultations, doctors: doctors, tx: tx}
}

// Create opens a pending consultation from a mother to an active doctor.
// A (mother, doctor) pair can hold at most one pending request.
func (s *Service) Create(ctx context.Context, motherUserID, doctorUserID uuid.UUID, message, urgency string) (*Consultation, error) {
	message = strings.TrimSpace(message)
	if len(message) < 10 || len(message) > 2000 {
		return nil, apperr.Validationf("message must be between 10 and 2000 characters")
	}
	if urgency == "" {
		urgency = UrgencyNormal
	}
	if !ValidUrgency(urgency) {
		return nil, apperr.Validationf("urgency must be low, normal, high or urgent")
	}
	active, err := s.doctors.IsActive(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperr.Validationf("doctor is not accepting consultations")
	}
	pending, err := s.consultations.HasPending(ctx, motherUserID, doctorUserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperr.Conflictf("a pending consultation with this doctor already exists")
	}
	c := &Consultation{
		MotherUserID: motherUserID,
		DoctorUserID: doctorUserID,
		Message:      message,
		Urgency:      urgency,
		Status:       StatusPending,
	}
	if err := s.consultations.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.MotherUserID != callerID && c.DoctorUserID != callerID {
		return nil, apperr.Forbiddenf("not a party to this consultation")
	}
	return c, nil
}

// Decide records the doctor's approval decision. Approving also puts the
// mother on the doctor's roster; the flag and the roster move in one
// transaction so they can never diverge. Rejection leaves the roster alone.
func (s *Service) Decide(ctx context.Context, doctorUserID, id uuid.UUID, approved bool) (*Consultation, error) {
	c, err := s.ownedByDoctor(ctx, doctorUserID, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusCancelled {
		return nil, apperr.Conflictf("consultation is cancelled")
	}
	c.IsApproved = &approved
	if !approved {
		if err := s.consultations.Update(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.consultations.Update(ctx, c); err != nil {
			return err
		}
		return s.doctors.AddPatient(ctx, doctorUserID, c.MotherUserID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Schedule sets the preferred time and moves a pending request to scheduled.
// Either party can schedule.
func (s *Service) Schedule(ctx context.Context, callerID, id uuid.UUID, preferred time.Time) (*Consultation, error) {
	c, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusPending {
		return nil, apperr.Conflictf("only pending consultations can be scheduled")
	}
	c.PreferredTime = &preferred
	c.Status = StatusScheduled
	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Respond writes the doctor's answer and moves the request to responded.
// The first response fixes responded_at and the response time; later calls
// may update the text but never those fields.
func (s *Service) Respond(ctx context.Context, doctorUserID, id uuid.UUID, response string) (*Consultation, error) {
	response = strings.TrimSpace(response)
	if len(response) < 10 {
		return nil, apperr.Validationf("response must be at least 10 characters")
	}
	c, err := s.ownedByDoctor(ctx, doctorUserID, id)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case StatusPending, StatusScheduled, StatusResponded:
	default:
		return nil, apperr.Conflictf("consultation cannot be responded to in status %s", c.Status)
	}
	c.Response = response
	c.Status = StatusResponded
	if c.RespondedAt == nil {
		now := time.Now()
		minutes := int(now.Sub(c.CreatedAt).Minutes())
		c.RespondedAt = &now
		c.ResponseTimeMinutes = &minutes
	}
	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Cancel lets the owning mother withdraw a still-pending request.
func (s *Service) Cancel(ctx context.Context, motherUserID, id uuid.UUID) (*Consultation, error) {
	c, err := s.ownedByMother(ctx, motherUserID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusPending {
		return nil, apperr.Conflictf("only pending consultations can be cancelled")
	}
	c.Status = StatusCancelled
	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Complete closes a responded consultation.
func (s *Service) Complete(ctx context.Context, doctorUserID, id uuid.UUID) (*Consultation, error) {
	c, err := s.ownedByDoctor(ctx, doctorUserID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusResponded {
		return nil, apperr.Conflictf("only responded consultations can be completed")
	}
	c.Status = StatusCompleted
	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Feedback records the mother's rating once per consultation and feeds the
// doctor's running average.
func (s *Service) Feedback(ctx context.Context, motherUserID, id uuid.UUID, rating int, feedback string) (*Consultation, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validationf("rating must be between 1 and 5")
	}
	c, err := s.ownedByMother(ctx, motherUserID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusResponded && c.Status != StatusCompleted {
		return nil, apperr.Conflictf("feedback requires a responded consultation")
	}
	if c.Rating != nil {
		return nil, apperr.Conflictf("feedback already recorded")
	}
	c.Rating = &rating
	c.Feedback = feedback
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.consultations.Update(ctx, c); err != nil {
			return err
		}
		return s.doctors.RateDoctor(ctx, c.DoctorUserID, rating)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListByMother(ctx context.Context, motherUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, apperr.Validationf("unknown status %q", status)
	}
	return s.consultations.ListByMother(ctx, motherUserID, status, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, apperr.Validationf("unknown status %q", status)
	}
	return s.consultations.ListByDoctor(ctx, doctorUserID, status, limit, offset)
}

func (s *Service) ownedByDoctor(ctx context.Context, doctorUserID, id uuid.UUID) (*Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.DoctorUserID != doctorUserID {
		return nil, apperr.Forbiddenf("not the consulted doctor")
	}
	return c, nil
}

func (s *Service) ownedByMother(ctx context.Context, motherUserID, id uuid.UUID) (*Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.MotherUserID != motherUserID {
		return nil, apperr.Forbiddenf("not the requesting mother")
	}
	return c, nil
}
