package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/domain/child"
	"github.com/matricare/api/internal/domain/consultation"
	"github.com/matricare/api/internal/domain/mood"
	"github.com/matricare/api/internal/domain/mother"
	"github.com/matricare/api/internal/platform/ai"
	"github.com/matricare/api/internal/platform/apperr"
)

// recentConsultations bounds how much consultation history feeds a report;
// chatWindow bounds how many stored turns are replayed to the collaborator.
const (
	recentConsultations = 5
	chatWindow          = 20
)

// MotherDirectory, MoodTracker, ChildDirectory and ConsultationLog are the
// read-only slices of the other domains reports are built from. The concrete
// domain services satisfy them directly.
type MotherDirectory interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*mother.Profile, error)
}

type MoodTracker interface {
	GetStats(ctx context.Context, userID uuid.UUID) (mood.Stats, error)
}

type ChildDirectory interface {
	Get(ctx context.Context, callerID uuid.UUID, callerRole string, childID uuid.UUID) (*child.Child, error)
}

type ConsultationLog interface {
	ListByMother(ctx context.Context, motherUserID uuid.UUID, status string, limit, offset int) ([]*consultation.Consultation, int, error)
}

// Service generates wellness reports and runs the mother AI chat.
type Service struct {
	gen           ai.Generator
	chats         ChatRepository
	mothers       MotherDirectory
	moods         MoodTracker
	children      ChildDirectory
	consultations ConsultationLog
}

func NewService(gen ai.Generator, chats ChatRepository, mothers MotherDirectory,
	moods MoodTracker, children ChildDirectory, consultations ConsultationLog) *Service {
	return &Service{
		gen:           gen,
		chats:         chats,
		mothers:       mothers,
		moods:         moods,
		children:      children,
		consultations: consultations,
	}
}

// MotherReport builds a wellness report from the mother's profile, mood
// statistics and recent consultations.
func (s *Service) MotherReport(ctx context.Context, userID uuid.UUID) (*Report, error) {
	profile, err := s.mothers.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	stats, err := s.moods.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.consultations.ListByMother(ctx, userID, "", recentConsultations, 0)
	if err != nil {
		return nil, err
	}
	text, err := s.gen.Generate(ctx, buildMotherReportPrompt(profile, stats, recent))
	if err != nil {
		return nil, err
	}
	return &Report{Content: text, GeneratedAt: time.Now()}, nil
}

// ChildReport builds a developmental report from the child profile and its
// screening results. Ownership rules are the child domain's.
func (s *Service) ChildReport(ctx context.Context, callerID uuid.UUID, callerRole string, childID uuid.UUID) (*Report, error) {
	ch, err := s.children.Get(ctx, callerID, callerRole, childID)
	if err != nil {
		return nil, err
	}
	text, err := s.gen.Generate(ctx, buildChildReportPrompt(ch))
	if err != nil {
		return nil, err
	}
	return &Report{Content: text, GeneratedAt: time.Now()}, nil
}

// Chat stores the mother's turn, asks the collaborator with the system prompt
// plus the recent window, stores the reply and returns it. The mother's turn
// stays stored even when generation fails, so retries keep context.
func (s *Service) Chat(ctx context.Context, userID uuid.UUID, message string) (*ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validationf("message is required")
	}
	userTurn := &ChatMessage{UserID: userID, Role: RoleUser, Content: message}
	if err := s.chats.Append(ctx, userTurn); err != nil {
		return nil, err
	}

	history, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(history) > chatWindow {
		history = history[len(history)-chatWindow:]
	}
	msgs := make([]ai.Message, 0, len(history)+1)
	msgs = append(msgs, ai.Message{Role: "system", Content: chatSystemPrompt})
	for _, turn := range history {
		msgs = append(msgs, ai.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.gen.Chat(ctx, msgs)
	if err != nil {
		return nil, err
	}
	assistantTurn := &ChatMessage{UserID: userID, Role: RoleAssistant, Content: reply}
	if err := s.chats.Append(ctx, assistantTurn); err != nil {
		return nil, err
	}
	return assistantTurn, nil
}

func (s *Service) ChatHistory(ctx context.Context, userID uuid.UUID) ([]*ChatMessage, error) {
	return s.chats.ListByUser(ctx, userID)
}

func (s *Service) ClearChat(ctx context.Context, userID uuid.UUID) error {
	return s.chats.DeleteByUser(ctx, userID)
}
