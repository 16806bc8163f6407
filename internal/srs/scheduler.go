// Package srs implements the spaced-repetition scheduling rules: a linear
// per-item score driving a fixed review-interval table. Deliberately not a
// full SM-2 variant.
package srs

import (
	"time"

	"github.com/example/lingobot/pkg/models"
)

// Scheduler turns review outcomes into score and due-date updates.
type Scheduler struct {
	// Intervals maps an exact score to a review interval in days.
	Intervals map[int]int
	// MaxIntervalDays is used for any positive score above the table.
	MaxIntervalDays int
}

// New creates a scheduler with the default interval table.
func New() *Scheduler {
	return &Scheduler{
		Intervals:       map[int]int{0: 0, 1: 1, 2: 3, 3: 7, 4: 14},
		MaxIntervalDays: 30,
	}
}

// IntervalDays returns the review interval for a score. Scores at or below
// zero are always due immediately; positive scores past the table cap at
// MaxIntervalDays.
func (s *Scheduler) IntervalDays(score int) int {
	if days, ok := s.Intervals[score]; ok {
		return days
	}
	if score > 0 {
		return s.MaxIntervalDays
	}
	return 0
}

// ApplyOutcome records one review outcome on the given state: the score
// moves one step up or down (no clamping in either direction) and the next
// due date is derived from the new score via the interval table.
func (s *Scheduler) ApplyOutcome(state *models.ScheduleState, success bool, now time.Time) {
	if success {
		state.Score++
	} else {
		state.Score--
	}
	state.NextDueAt = now.AddDate(0, 0, s.IntervalDays(state.Score))
}
