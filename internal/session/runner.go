package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/lingobot/internal/srs"
	"github.com/example/lingobot/pkg/models"
)

// ErrNotFound is returned when an outcome is submitted for an item id that
// is not in the pool.
var ErrNotFound = errors.New("item not found in pool")

// ErrNoSession is returned when an outcome is submitted while no session is
// running.
var ErrNoSession = errors.New("no active session")

// Store is the persistence collaborator the runner needs: whole-pool
// replace-on-save.
type Store interface {
	SavePool(ctx context.Context, pool *models.Pool) error
}

// Runner drives one study session over the shared pool: it serves items
// from the queue, funnels outcomes to the scheduler and persists the
// mutated pool after every answer.
type Runner struct {
	pool      *models.Pool
	store     Store
	scheduler *srs.Scheduler
	now       func() time.Time

	criteria Criteria
	queue    *Queue
	exercise *Exercise
}

// NewRunner creates an idle runner bound to the shared pool.
func NewRunner(pool *models.Pool, store Store) *Runner {
	return &Runner{
		pool:      pool,
		store:     store,
		scheduler: srs.New(),
		now:       time.Now,
	}
}

// Active reports whether a session is in progress.
func (r *Runner) Active() bool {
	return r.queue != nil && !r.queue.Exhausted()
}

// Start builds a queue for the criteria and begins the session. It returns
// false when nothing is eligible, in which case the runner stays idle.
func (r *Runner) Start(c Criteria) bool {
	queue := Build(r.pool, c, r.now())
	if queue.Len() == 0 {
		return false
	}
	r.criteria = c
	r.queue = queue
	r.exercise = nil
	return true
}

// Criteria returns the criteria of the running session.
func (r *Runner) Criteria() Criteria {
	return r.criteria
}

// Current returns the item at the cursor together with its exercise state.
// The exercise is drawn the first time a position is visited and reused
// until the cursor advances.
func (r *Runner) Current() (*models.VocabularyItem, *Exercise) {
	if r.queue == nil {
		return nil, nil
	}
	item := r.queue.Current()
	if item == nil {
		return nil, nil
	}
	if r.exercise == nil {
		peers := r.pool.FilterByCategory(r.criteria.Categories)
		r.exercise = NewExercise(item, peers, r.criteria.Direction, r.criteria.Kind)
	}
	return item, r.exercise
}

// SubmitOutcome commits one review outcome: the item's schedule slot for
// the session's study mode is updated, the pool is persisted, and the
// cursor advances. In endless mode one freshly drawn item is appended
// before advancing, so the queue never empties.
//
// A persistence failure does not roll back the local update or stop the
// session; the error is returned so the caller can warn the user.
func (r *Runner) SubmitOutcome(ctx context.Context, itemID string, success bool) error {
	if r.queue == nil {
		return ErrNoSession
	}
	item := r.pool.ByID(itemID)
	if item == nil {
		return fmt.Errorf("submit outcome for %q: %w", itemID, ErrNotFound)
	}

	r.scheduler.ApplyOutcome(item.ScheduleFor(r.queue.StudyMode), success, r.now())

	saveErr := r.store.SavePool(ctx, r.pool)

	if r.queue.Mode == ModeInfinite {
		if next := Draw(r.pool, r.criteria.Categories); next != nil {
			r.queue.Items = append(r.queue.Items, next)
		}
	}
	r.queue.Cursor++
	r.exercise = nil

	if r.queue.Mode != ModeInfinite && r.queue.Exhausted() {
		r.queue = nil
	}

	if saveErr != nil {
		return fmt.Errorf("failed to persist pool: %w", saveErr)
	}
	return nil
}

// Quit discards the queue and all transient exercise state. Scheduling
// updates already committed survive.
func (r *Runner) Quit() {
	r.queue = nil
	r.exercise = nil
}

// Progress returns the cursor position and queue length of the running
// session.
func (r *Runner) Progress() (done, total int) {
	if r.queue == nil {
		return 0, 0
	}
	return r.queue.Cursor, r.queue.Len()
}

// Queue exposes the running queue, or nil when idle.
func (r *Runner) Queue() *Queue {
	return r.queue
}
