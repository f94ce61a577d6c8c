package mother

import (
	"time"

	"github.com/google/uuid"
)

// Pregnancy stages a profile can be in.
const (
	StagePregnant   = "pregnant"
	StagePostpartum = "postpartum"
	StageNone       = "none"
)

// ValidStage reports whether stage is one of the known pregnancy stages.
func ValidStage(stage string) bool {
	return stage == StagePregnant || stage == StagePostpartum || stage == StageNone
}

// Profile maps to the mother_profiles table. There is at most one per user;
// ChildIDs mirrors the children owned by this mother.
type Profile struct {
	ID                  uuid.UUID   `db:"id" json:"id"`
	UserID              uuid.UUID   `db:"user_id" json:"user_id"`
	FullName            string      `db:"full_name" json:"full_name"`
	Age                 int         `db:"age" json:"age"`
	PregnancyStage      string      `db:"pregnancy_stage" json:"pregnancy_stage"`
	PregnancyWeek       int         `db:"pregnancy_week" json:"pregnancy_week"`
	DueDate             *time.Time  `db:"due_date" json:"due_date,omitempty"`
	FamilySupport       string      `db:"family_support" json:"family_support"`
	MentalHealthHistory string      `db:"mental_health_history" json:"mental_health_history"`
	Concerns            []string    `db:"concerns" json:"concerns"`
	ChildIDs            []uuid.UUID `db:"child_ids" json:"child_ids"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updated_at"`
}
