package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation statuses. A request moves pending→scheduled→responded→completed
// on the happy path; a mother can cancel while still pending. The approval
// flag is orthogonal to status.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusResponded = "responded"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether status names a known consultation state. Used
// for list filters.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusScheduled, StatusResponded, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Urgency levels a mother can mark a request with.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

func ValidUrgency(urgency string) bool {
	switch urgency {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// Consultation maps to the consultations table. IsApproved is tri-state:
// nil until the doctor decides. RespondedAt and ResponseTimeMinutes are set
// by the first response and never change afterwards.
type Consultation struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	MotherUserID        uuid.UUID  `db:"mother_user_id" json:"mother_user_id"`
	DoctorUserID        uuid.UUID  `db:"doctor_user_id" json:"doctor_user_id"`
	Message             string     `db:"message" json:"message"`
	Urgency             string     `db:"urgency" json:"urgency"`
	Status              string     `db:"status" json:"status"`
	IsApproved          *bool      `db:"is_approved" json:"is_approved"`
	PreferredTime       *time.Time `db:"preferred_time" json:"preferred_time,omitempty"`
	Response            string     `db:"response" json:"response,omitempty"`
	RespondedAt         *time.Time `db:"responded_at" json:"responded_at,omitempty"`
	ResponseTimeMinutes *int       `db:"response_time_minutes" json:"response_time_minutes,omitempty"`
	Rating              *int       `db:"rating" json:"rating,omitempty"`
	Feedback            string     `db:"feedback" json:"feedback,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}
