package models

import "time"

// ScheduleState is the per-item, per-mode review bookkeeping.
type ScheduleState struct {
	// Score is a signed proficiency counter, unbounded in both directions.
	Score int `json:"score" db:"score"`
	// NextDueAt is the moment the item becomes eligible for due-based review.
	NextDueAt time.Time `json:"next_due_at" db:"next_due_at"`
}

// NewScheduleState returns the state assigned at item creation: zero score,
// due immediately.
func NewScheduleState(now time.Time) ScheduleState {
	return ScheduleState{Score: 0, NextDueAt: now}
}

// Due reports whether the item is eligible for review at the given time.
func (s ScheduleState) Due(now time.Time) bool {
	return !now.Before(s.NextDueAt)
}
