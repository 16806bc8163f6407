package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingobot/pkg/models"
)

type fakeStore struct {
	saves int
	err   error
	last  *models.Pool
}

func (f *fakeStore) SavePool(_ context.Context, pool *models.Pool) error {
	f.saves++
	f.last = pool
	return f.err
}

func newTestRunner(pool *models.Pool, store Store, now time.Time) *Runner {
	r := NewRunner(pool, store)
	r.now = func() time.Time { return now }
	return r
}

func freeCriteria(limit int) Criteria {
	return Criteria{
		Categories: map[string]bool{"A": true},
		Mode:       ModeFree,
		StudyMode:  models.Production,
		Limit:      limit,
		Direction:  DirectionPrimaryToTarget,
		Kind:       KindWritten,
	}
}

func TestRunner_StartStaysIdleWhenNothingEligible(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "B")
	r := newTestRunner(pool, &fakeStore{}, now)

	assert.False(t, r.Start(freeCriteria(5)))
	assert.False(t, r.Active())
}

func TestRunner_SubmitOutcomeUpdatesScheduleAndPersists(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pool := newTestPool(now, "A")
	store := &fakeStore{}
	r := newTestRunner(pool, store, now)

	require.True(t, r.Start(freeCriteria(1)))
	item, _ := r.Current()
	require.NotNil(t, item)

	require.NoError(t, r.SubmitOutcome(context.Background(), item.ID, true))

	state := item.ScheduleFor(models.Production)
	assert.Equal(t, 1, state.Score)
	assert.Equal(t, now.AddDate(0, 0, 1), state.NextDueAt)
	// The recognition track is untouched.
	assert.Equal(t, 0, item.ScheduleFor(models.Recognition).Score)
	assert.Equal(t, 1, store.saves)
	// The persisted pool is the shared one, not a detached copy.
	assert.Same(t, pool, store.last)
}

func TestRunner_CompletionReturnsToIdle(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A")
	r := newTestRunner(pool, &fakeStore{}, now)

	require.True(t, r.Start(freeCriteria(2)))
	for i := 0; i < 2; i++ {
		item, _ := r.Current()
		require.NotNil(t, item)
		require.NoError(t, r.SubmitOutcome(context.Background(), item.ID, true))
	}
	assert.False(t, r.Active())
	item, exercise := r.Current()
	assert.Nil(t, item)
	assert.Nil(t, exercise)
}

func TestRunner_EndlessQueueNeverEmpties(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A", "A")
	criteria := freeCriteria(1)
	criteria.Mode = ModeInfinite
	r := newTestRunner(pool, &fakeStore{}, now)

	require.True(t, r.Start(criteria))
	require.Equal(t, 1, r.Queue().Len())

	item, _ := r.Current()
	require.NoError(t, r.SubmitOutcome(context.Background(), item.ID, true))

	assert.Equal(t, 2, r.Queue().Len())
	assert.Equal(t, 1, r.Queue().Cursor)
	assert.True(t, r.Active())

	// Still active after many more answers.
	for i := 0; i < 10; i++ {
		item, _ := r.Current()
		require.NotNil(t, item)
		require.NoError(t, r.SubmitOutcome(context.Background(), item.ID, i%2 == 0))
	}
	assert.True(t, r.Active())
}

func TestRunner_UnknownItemIDIsNotFound(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A")
	store := &fakeStore{}
	r := newTestRunner(pool, store, now)

	require.True(t, r.Start(freeCriteria(1)))
	err := r.SubmitOutcome(context.Background(), "no-such-id", true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.saves)
}

func TestRunner_SubmitWithoutSession(t *testing.T) {
	now := time.Now()
	r := newTestRunner(newTestPool(now, "A"), &fakeStore{}, now)
	assert.ErrorIs(t, r.SubmitOutcome(context.Background(), "a", true), ErrNoSession)
}

func TestRunner_SaveFailureIsSurfacedButApplied(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A")
	store := &fakeStore{err: errors.New("disk full")}
	r := newTestRunner(pool, store, now)

	require.True(t, r.Start(freeCriteria(2)))
	item, _ := r.Current()
	err := r.SubmitOutcome(context.Background(), item.ID, false)

	require.Error(t, err)
	// The local update happened and the session moved on.
	assert.Equal(t, -1, item.ScheduleFor(models.Production).Score)
	assert.True(t, r.Active())
	done, _ := r.Progress()
	assert.Equal(t, 1, done)
}

func TestRunner_ExerciseIsDrawnOncePerPosition(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A")
	r := newTestRunner(pool, &fakeStore{}, now)

	require.True(t, r.Start(freeCriteria(2)))
	_, first := r.Current()
	_, again := r.Current()
	assert.Same(t, first, again)

	item, _ := r.Current()
	require.NoError(t, r.SubmitOutcome(context.Background(), item.ID, true))
	_, next := r.Current()
	assert.NotSame(t, first, next)
}

func TestRunner_QuitDiscardsQueueAndExerciseState(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A")
	store := &fakeStore{}
	r := newTestRunner(pool, store, now)

	require.True(t, r.Start(freeCriteria(2)))
	item, _ := r.Current()
	require.NoError(t, r.SubmitOutcome(context.Background(), item.ID, true))
	r.Quit()

	assert.False(t, r.Active())
	assert.Nil(t, r.Queue())
	// The committed outcome survives the quit.
	assert.Equal(t, 1, item.ScheduleFor(models.Production).Score)
	assert.Equal(t, 1, store.saves)
}

func TestRunner_GiveUpScoresLikeWrongAnswer(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pool := newTestPool(now, "A", "A")
	r := newTestRunner(pool, &fakeStore{}, now)

	require.True(t, r.Start(freeCriteria(2)))

	// First item answered wrong, second given up: identical effect.
	first, exercise := r.Current()
	exercise.CheckText("wrong")
	require.NoError(t, r.SubmitOutcome(context.Background(), first.ID, exercise.Correct))

	second, exercise := r.Current()
	exercise.GiveUp()
	require.NoError(t, r.SubmitOutcome(context.Background(), second.ID, exercise.Correct))

	assert.Equal(t, first.ScheduleFor(models.Production).Score, second.ScheduleFor(models.Production).Score)
	assert.Equal(t, first.ScheduleFor(models.Production).NextDueAt, second.ScheduleFor(models.Production).NextDueAt)
}
