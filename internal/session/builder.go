package session

import (
	"math/rand"
	"time"

	"github.com/example/lingobot/pkg/models"
)

// Build assembles a study queue from the pool. The result can be empty —
// an empty category set or no due items is a normal "nothing to study"
// outcome, not an error.
func Build(pool *models.Pool, c Criteria, now time.Time) *Queue {
	queue := &Queue{Mode: c.Mode, StudyMode: c.StudyMode}

	eligible := Eligible(pool, c, now)
	if len(eligible) == 0 {
		return queue
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if c.Mode == ModeInfinite {
		// A single random item; the runner replenishes after each answer.
		queue.Items = eligible[:1]
		return queue
	}

	limit := c.Limit
	if limit > len(eligible) {
		limit = len(eligible)
	}
	queue.Items = eligible[:limit]
	return queue
}

// Eligible returns the items matching the criteria: category filter always,
// due-date filter in SRS mode only.
func Eligible(pool *models.Pool, c Criteria, now time.Time) []*models.VocabularyItem {
	matched := pool.FilterByCategory(c.Categories)
	if c.Mode != ModeSRS {
		return matched
	}
	var due []*models.VocabularyItem
	for _, item := range matched {
		if item.ScheduleFor(c.StudyMode).Due(now) {
			due = append(due, item)
		}
	}
	return due
}

// Draw picks one random item from the allowed categories, for endless-mode
// replenishment. Returns nil when the filter matches nothing.
func Draw(pool *models.Pool, allowed map[string]bool) *models.VocabularyItem {
	matched := pool.FilterByCategory(allowed)
	if len(matched) == 0 {
		return nil
	}
	return matched[rand.Intn(len(matched))]
}
