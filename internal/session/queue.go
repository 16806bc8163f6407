package session

import "github.com/example/lingobot/pkg/models"

// Queue is the ephemeral, ordered working set of one study run. It is never
// persisted; quitting or exhausting the run discards it.
type Queue struct {
	Items     []*models.VocabularyItem
	Cursor    int
	Mode      Mode
	StudyMode models.StudyMode
}

// Len returns the current queue length.
func (q *Queue) Len() int {
	return len(q.Items)
}

// Current returns the item at the cursor, or nil when the queue is
// exhausted or empty.
func (q *Queue) Current() *models.VocabularyItem {
	if q.Cursor < 0 || q.Cursor >= len(q.Items) {
		return nil
	}
	return q.Items[q.Cursor]
}

// Exhausted reports whether the cursor has moved past the last item.
func (q *Queue) Exhausted() bool {
	return q.Cursor >= len(q.Items)
}
