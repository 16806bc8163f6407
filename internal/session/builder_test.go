package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingobot/pkg/models"
)

func newTestPool(now time.Time, categories ...string) *models.Pool {
	pool := models.NewPool()
	for i, category := range categories {
		id := string(rune('a' + i))
		pool.Add(models.NewVocabularyItem(id, category, "target-"+id, "primary-"+id, now))
	}
	return pool
}

func itemIDs(items []*models.VocabularyItem) map[string]bool {
	ids := make(map[string]bool)
	for _, item := range items {
		ids[item.ID] = true
	}
	return ids
}

func TestBuild_EmptyCategorySetYieldsEmptyQueue(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "B", "C")

	for _, mode := range []Mode{ModeSRS, ModeFree, ModeInfinite} {
		queue := Build(pool, Criteria{Categories: map[string]bool{}, Mode: mode, Limit: 10}, now)
		assert.Equal(t, 0, queue.Len(), "mode %s", mode)
	}
}

func TestBuild_FiltersByCategory(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A", "B", "B", "C")

	queue := Build(pool, Criteria{
		Categories: map[string]bool{"A": true},
		Mode:       ModeFree,
		Limit:      10,
	}, now)

	require.Equal(t, 2, queue.Len())
	ids := itemIDs(queue.Items)
	assert.True(t, ids["a"])
	assert.True(t, ids["b"])
	assert.Equal(t, 0, queue.Cursor)
}

func TestBuild_SRSNeverIncludesUndueItems(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A", "A")
	// Push one item into the future.
	pool.ByID("b").ScheduleFor(models.Recognition).NextDueAt = now.AddDate(0, 0, 3)

	for i := 0; i < 20; i++ {
		queue := Build(pool, Criteria{
			Categories: map[string]bool{"A": true},
			Mode:       ModeSRS,
			StudyMode:  models.Recognition,
			Limit:      10,
		}, now)
		require.Equal(t, 2, queue.Len())
		assert.False(t, itemIDs(queue.Items)["b"])
	}
}

func TestBuild_SRSDueFilterIsPerStudyMode(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A")
	// Not due for recognition, still due for production.
	pool.ByID("a").ScheduleFor(models.Recognition).NextDueAt = now.AddDate(0, 0, 1)

	recognition := Build(pool, Criteria{
		Categories: map[string]bool{"A": true},
		Mode:       ModeSRS,
		StudyMode:  models.Recognition,
		Limit:      5,
	}, now)
	assert.Equal(t, 0, recognition.Len())

	production := Build(pool, Criteria{
		Categories: map[string]bool{"A": true},
		Mode:       ModeSRS,
		StudyMode:  models.Production,
		Limit:      5,
	}, now)
	assert.Equal(t, 1, production.Len())
}

func TestBuild_NothingDueIsEmptyNotError(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A")
	pool.ByID("a").ScheduleFor(models.Production).NextDueAt = now.AddDate(0, 0, 7)

	queue := Build(pool, Criteria{
		Categories: map[string]bool{"A": true},
		Mode:       ModeSRS,
		StudyMode:  models.Production,
		Limit:      5,
	}, now)
	assert.Equal(t, 0, queue.Len())
	assert.Nil(t, queue.Current())
}

func TestBuild_LimitSlices(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A", "A", "A", "A")

	queue := Build(pool, Criteria{Categories: map[string]bool{"A": true}, Mode: ModeFree, Limit: 3}, now)
	assert.Equal(t, 3, queue.Len())

	queue = Build(pool, Criteria{Categories: map[string]bool{"A": true}, Mode: ModeFree, Limit: 50}, now)
	assert.Equal(t, 5, queue.Len())
}

func TestBuild_InfiniteQueueHasExactlyOneItem(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "A", "A", "A")

	for i := 0; i < 10; i++ {
		queue := Build(pool, Criteria{Categories: map[string]bool{"A": true}, Mode: ModeInfinite, Limit: 50}, now)
		assert.Equal(t, 1, queue.Len())
	}

	empty := Build(pool, Criteria{Categories: map[string]bool{"Z": true}, Mode: ModeInfinite, Limit: 50}, now)
	assert.Equal(t, 0, empty.Len())
}

func TestBuild_ShufflesAcrossCalls(t *testing.T) {
	now := time.Now()
	categories := make([]string, 20)
	for i := range categories {
		categories[i] = "A"
	}
	pool := newTestPool(now, categories...)

	criteria := Criteria{Categories: map[string]bool{"A": true}, Mode: ModeFree, Limit: 20}
	first := Build(pool, criteria, now)

	// Statistically certain to differ at least once over 10 rebuilds.
	different := false
	for i := 0; i < 10 && !different; i++ {
		next := Build(pool, criteria, now)
		for j := range next.Items {
			if next.Items[j].ID != first.Items[j].ID {
				different = true
				break
			}
		}
	}
	assert.True(t, different, "expected item order to vary across builds")
}

func TestDraw(t *testing.T) {
	now := time.Now()
	pool := newTestPool(now, "A", "B")

	item := Draw(pool, map[string]bool{"B": true})
	require.NotNil(t, item)
	assert.Equal(t, "b", item.ID)

	assert.Nil(t, Draw(pool, map[string]bool{}))
}
