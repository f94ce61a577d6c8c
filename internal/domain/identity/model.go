package identity

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user account can hold.
const (
	RoleMother = "mother"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleMother || role == RoleDoctor || role == RoleAdmin
}

// User maps to the users table. NeedsChoice is the mother-only onboarding
// gate: true until the mother picks her pregnancy stage.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	NeedsChoice  bool      `db:"needs_choice" json:"needs_choice"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
