package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Weekdays the availability grid is keyed by.
var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// DaySlot is one day's entry in the weekly availability grid.
type DaySlot struct {
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// Availability is the weekly grid, keyed by lowercase weekday name.
type Availability map[string]DaySlot

// Profile maps to the doctor_profiles table. LicenseNumber is globally
// unique; Rating/RatingCount hold the running average fed by mothers' ratings
// and consultation feedback.
type Profile struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	UserID          uuid.UUID    `db:"user_id" json:"user_id"`
	FullName        string       `db:"full_name" json:"full_name"`
	Specialization  string       `db:"specialization" json:"specialization"`
	LicenseNumber   string       `db:"license_number" json:"license_number"`
	GraduationYear  int          `db:"graduation_year" json:"graduation_year"`
	ExperienceYears int          `db:"experience_years" json:"experience_years"`
	ConsultationFee float64      `db:"consultation_fee" json:"consultation_fee"`
	Availability    Availability `db:"availability" json:"availability"`
	Rating          float64      `db:"rating" json:"rating"`
	RatingCount     int          `db:"rating_count" json:"rating_count"`
	Verified        bool         `db:"verified" json:"verified"`
	Active          bool         `db:"active" json:"active"`
	AvailableNow    bool         `db:"available_now" json:"available_now"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// RosterEntry is one mother on a doctor's patient roster, joined with her
// profile for display.
type RosterEntry struct {
	PatientUserID  uuid.UUID `db:"patient_user_id" json:"patient_user_id"`
	FullName       string    `db:"full_name" json:"full_name"`
	PregnancyStage string    `db:"pregnancy_stage" json:"pregnancy_stage"`
	PregnancyWeek  int       `db:"pregnancy_week" json:"pregnancy_week"`
	AddedAt        time.Time `db:"added_at" json:"added_at"`
}
