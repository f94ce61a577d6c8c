package mood

import (
	"context"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
)

// Service provides business logic for mood tracking.
type Service struct {
	logs LogRepository
}

func NewService(logs LogRepository) *Service {
	return &Service{logs: logs}
}

// Submit appends a mood entry and returns the recomputed statistics.
// Range checking happens here, at the boundary; ComputeStats trusts its input.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, mood int, notes string) (*Log, Stats, error) {
	if mood < MinMood || mood > MaxMood {
		return nil, Stats{}, apperr.Validationf("mood must be between %d and %d", MinMood, MaxMood)
	}
	l := &Log{UserID: userID, Mood: mood, Notes: notes}
	if err := s.logs.Append(ctx, l); err != nil {
		return nil, Stats{}, err
	}
	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return nil, Stats{}, err
	}
	return l, stats, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*Log, error) {
	return s.logs.ListByUser(ctx, userID)
}

func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	logs, err := s.logs.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	moods := make([]int, len(logs))
	for i, l := range logs {
		moods[i] = l.Mood
	}
	return ComputeStats(moods), nil
}

// Reset clears the caller's entire mood history.
func (s *Service) Reset(ctx context.Context, userID uuid.UUID) error {
	return s.logs.DeleteByUser(ctx, userID)
}
