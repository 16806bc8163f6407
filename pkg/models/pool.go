package models

import (
	"sort"
	"time"
)

// Pool is the process-wide, mutable collection of vocabulary items. The
// active session mutates item schedules in place so that a subsequent save
// persists the update.
type Pool struct {
	Items []*VocabularyItem
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// ByID returns the item with the given id, or nil if it is not in the pool.
func (p *Pool) ByID(id string) *VocabularyItem {
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// HasTarget reports whether an item with exactly this target term exists.
// Used for duplicate detection on import.
func (p *Pool) HasTarget(term string) bool {
	for _, item := range p.Items {
		if item.TermTarget == term {
			return true
		}
	}
	return false
}

// Add appends items to the pool.
func (p *Pool) Add(items ...*VocabularyItem) {
	p.Items = append(p.Items, items...)
}

// Categories returns the sorted set of category names present in the pool.
func (p *Pool) Categories() []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range p.Items {
		name := item.CategoryOrDefault()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// FilterByCategory returns the items whose category is in the allowed set.
// An empty set matches nothing.
func (p *Pool) FilterByCategory(allowed map[string]bool) []*VocabularyItem {
	var matched []*VocabularyItem
	for _, item := range p.Items {
		if allowed[item.CategoryOrDefault()] {
			matched = append(matched, item)
		}
	}
	return matched
}

// ResetDueDates makes every item due now in both study modes, leaving
// scores untouched.
func (p *Pool) ResetDueDates(now time.Time) {
	for _, item := range p.Items {
		for _, mode := range Modes {
			item.ScheduleFor(mode).NextDueAt = now
		}
	}
}
