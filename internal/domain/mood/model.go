package mood

import (
	"time"

	"github.com/google/uuid"
)

// Mood values run 1 (lowest) to 5 (highest); entries of happyThreshold or
// above count as happy days.
const (
	MinMood        = 1
	MaxMood        = 5
	happyThreshold = 4
)

// Log maps to the mood_logs table. The log is the only stored mood state;
// statistics are always derived from it.
type Log struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Mood      int       `db:"mood" json:"mood"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Stats is the derived rolling summary of a mother's mood history.
type Stats struct {
	AverageMood        float64 `json:"average_mood"`
	NumberOfMoodTracks int     `json:"number_of_mood_tracking"`
	HappyDays          int     `json:"happy_days"`
}

// ComputeStats derives summary statistics from raw mood values. An empty
// history yields all zeros. Values are averaged at full precision; any
// rounding is a display concern.
func ComputeStats(moods []int) Stats {
	if len(moods) == 0 {
		return Stats{}
	}
	var sum, happy int
	for _, m := range moods {
		sum += m
		if m >= happyThreshold {
			happy++
		}
	}
	return Stats{
		AverageMood:        float64(sum) / float64(len(moods)),
		NumberOfMoodTracks: len(moods),
		HappyDays:          happy,
	}
}
