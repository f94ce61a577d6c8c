package messaging

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
)

// Service provides business logic for doctor-mother messaging.
type Service struct {
	messages MessageRepository
}

func NewService(messages MessageRepository) *Service {
	return &Service{messages: messages}
}

// Send appends one message to the (doctor, mother) thread. The caller must
// be the party named by senderRole.
func (s *Service) Send(ctx context.Context, callerID uuid.UUID, doctorID, motherID uuid.UUID, senderRole, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > MaxContentLength {
		return nil, apperr.Validationf("content must be between 1 and %d characters", MaxContentLength)
	}
	if !ValidSender(senderRole) {
		return nil, apperr.Validationf("sender_role must be doctor or mother")
	}
	if err := mustBeParty(callerID, doctorID, motherID, senderRole); err != nil {
		return nil, err
	}
	m := &Message{
		DoctorUserID: doctorID,
		MotherUserID: motherID,
		SenderRole:   senderRole,
		Content:      content,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Thread returns the conversation; only its two parties can read it.
func (s *Service) Thread(ctx context.Context, callerID uuid.UUID, doctorID, motherID uuid.UUID) ([]*Message, error) {
	if callerID != doctorID && callerID != motherID {
		return nil, apperr.Forbiddenf("not a party to this thread")
	}
	return s.messages.ListThread(ctx, doctorID, motherID)
}

// MarkSeen flips the counterparty's messages in the thread to seen.
func (s *Service) MarkSeen(ctx context.Context, callerID uuid.UUID, callerRole string, doctorID, motherID uuid.UUID) error {
	if !ValidSender(callerRole) {
		return apperr.Validationf("only doctors and mothers hold threads")
	}
	if err := mustBeParty(callerID, doctorID, motherID, callerRole); err != nil {
		return err
	}
	return s.messages.MarkSeen(ctx, doctorID, motherID, callerRole)
}

// UnreadCounts returns per-thread unread totals addressed to the caller.
func (s *Service) UnreadCounts(ctx context.Context, callerID uuid.UUID, callerRole string) ([]*UnreadCount, error) {
	if !ValidSender(callerRole) {
		return nil, apperr.Validationf("only doctors and mothers hold threads")
	}
	return s.messages.UnreadCounts(ctx, callerID, callerRole)
}

func mustBeParty(callerID, doctorID, motherID uuid.UUID, role string) error {
	if role == SenderDoctor && callerID != doctorID {
		return apperr.Forbiddenf("caller is not the named doctor")
	}
	if role == SenderMother && callerID != motherID {
		return apperr.Forbiddenf("caller is not the named mother")
	}
	return nil
}
