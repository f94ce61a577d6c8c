package child

import (
	"time"

	"github.com/google/uuid"
)

// Genders a child profile can carry.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ValidGender reports whether gender is one of the known values.
func ValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale || gender == GenderOther
}

// Screening game slots and the condition each one screens for. The screening
// map has exactly these four slots; anything else is rejected at the boundary.
var ScreeningConditions = map[string]string{
	"memoryMatch":   "dyslexia",
	"wordAdventure": "adhd",
	"colorPattern":  "dysgraphia",
	"shapeSequence": "dyscalculia",
}

// ScreeningResult is one game outcome inside a child's screening map.
type ScreeningResult struct {
	Score     float64    `json:"score"`
	RiskLevel string     `json:"risk_level,omitempty"`
	PlayedAt  *time.Time `json:"played_at,omitempty"`
}

// Child maps to the children table. Screenings is a jsonb map keyed by game
// slot; MotherUserID is the owning mother's user id.
type Child struct {
	ID           uuid.UUID                  `db:"id" json:"id"`
	MotherUserID uuid.UUID                  `db:"mother_user_id" json:"mother_user_id"`
	FullName     string                     `db:"full_name" json:"full_name"`
	DateOfBirth  time.Time                  `db:"date_of_birth" json:"date_of_birth"`
	Gender       string                     `db:"gender" json:"gender"`
	Notes        string                     `db:"notes" json:"notes,omitempty"`
	Screenings   map[string]ScreeningResult `db:"screenings" json:"screenings"`
	CreatedAt    time.Time                  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                  `db:"updated_at" json:"updated_at"`
}
