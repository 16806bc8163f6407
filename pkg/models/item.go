package models

import "time"

// DefaultCategory is the bucket used for items imported without a list name.
const DefaultCategory = "General"

// VocabularyItem represents a single vocabulary pair to be learned.
type VocabularyItem struct {
	ID          string `json:"id" db:"id"`
	Category    string `json:"category" db:"category"`
	TermTarget  string `json:"term_target" db:"term_target"`   // target-language form
	TermPrimary string `json:"term_primary" db:"term_primary"` // primary/reference-language form
	// Schedule holds one independent review state per study mode.
	Schedule map[StudyMode]*ScheduleState `json:"schedule"`
}

// NewVocabularyItem creates an item with a fresh schedule for both study
// modes, due immediately.
func NewVocabularyItem(id, category, termTarget, termPrimary string, now time.Time) *VocabularyItem {
	if category == "" {
		category = DefaultCategory
	}
	item := &VocabularyItem{
		ID:          id,
		Category:    category,
		TermTarget:  termTarget,
		TermPrimary: termPrimary,
		Schedule:    make(map[StudyMode]*ScheduleState, len(Modes)),
	}
	for _, mode := range Modes {
		state := NewScheduleState(now)
		item.Schedule[mode] = &state
	}
	return item
}

// CategoryOrDefault returns the item's category, falling back to the
// generic bucket when it was never set.
func (it *VocabularyItem) CategoryOrDefault() string {
	if it.Category == "" {
		return DefaultCategory
	}
	return it.Category
}

// ScheduleFor returns the review state for the given mode, creating a
// zeroed one if the item predates that mode.
func (it *VocabularyItem) ScheduleFor(mode StudyMode) *ScheduleState {
	if it.Schedule == nil {
		it.Schedule = make(map[StudyMode]*ScheduleState, len(Modes))
	}
	if state, ok := it.Schedule[mode]; ok {
		return state
	}
	state := NewScheduleState(time.Now())
	it.Schedule[mode] = &state
	return &state
}
