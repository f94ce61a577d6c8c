package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Sender roles inside a thread.
const (
	SenderDoctor = "doctor"
	SenderMother = "mother"
)

func ValidSender(role string) bool {
	return role == SenderDoctor || role == SenderMother
}

// MaxContentLength bounds a single message body.
const MaxContentLength = 1000

// Message maps to the messages table. A thread is the (doctor, mother) pair;
// Seen flips when the counterparty marks the thread read.
type Message struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DoctorUserID uuid.UUID `db:"doctor_user_id" json:"doctor_id"`
	MotherUserID uuid.UUID `db:"mother_user_id" json:"mother_id"`
	SenderRole   string    `db:"sender_role" json:"sender_role"`
	Content      string    `db:"content" json:"content"`
	Seen         bool      `db:"seen" json:"seen"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UnreadCount is one thread's unread total from the caller's side.
type UnreadCount struct {
	DoctorUserID uuid.UUID `db:"doctor_user_id" json:"doctor_id"`
	MotherUserID uuid.UUID `db:"mother_user_id" json:"mother_id"`
	Count        int       `db:"count" json:"count"`
}
