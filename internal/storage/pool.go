package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/example/lingobot/pkg/models"
)

// itemRow is the flat persisted representation of a vocabulary item: one
// score/due-date pair per study mode.
type itemRow struct {
	ID               string    `db:"id"`
	Category         string    `db:"category"`
	TermTarget       string    `db:"term_target"`
	TermPrimary      string    `db:"term_primary"`
	RecognitionScore int       `db:"recognition_score"`
	RecognitionDueAt time.Time `db:"recognition_due_at"`
	ProductionScore  int       `db:"production_score"`
	ProductionDueAt  time.Time `db:"production_due_at"`
}

func toRow(item *models.VocabularyItem) itemRow {
	recognition := item.ScheduleFor(models.Recognition)
	production := item.ScheduleFor(models.Production)
	return itemRow{
		ID:               item.ID,
		Category:         item.Category,
		TermTarget:       item.TermTarget,
		TermPrimary:      item.TermPrimary,
		RecognitionScore: recognition.Score,
		RecognitionDueAt: recognition.NextDueAt,
		ProductionScore:  production.Score,
		ProductionDueAt:  production.NextDueAt,
	}
}

func (r itemRow) toItem() *models.VocabularyItem {
	return &models.VocabularyItem{
		ID:          r.ID,
		Category:    r.Category,
		TermTarget:  r.TermTarget,
		TermPrimary: r.TermPrimary,
		Schedule: map[models.StudyMode]*models.ScheduleState{
			models.Recognition: {Score: r.RecognitionScore, NextDueAt: r.RecognitionDueAt},
			models.Production:  {Score: r.ProductionScore, NextDueAt: r.ProductionDueAt},
		},
	}
}

// LoadPool reads the full item set. On any failure it returns an empty
// pool together with the error, so the caller can keep running and decide
// how loudly to complain.
func (s *Store) LoadPool(ctx context.Context) (*models.Pool, error) {
	var rows []itemRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM items ORDER BY category, term_target")
	if err != nil {
		return models.NewPool(), fmt.Errorf("failed to load pool: %w", err)
	}
	pool := models.NewPool()
	for _, row := range rows {
		pool.Add(row.toItem())
	}
	return pool, nil
}

// SavePool replaces the persisted item set with the given pool in one
// transaction.
func (s *Store) SavePool(ctx context.Context, pool *models.Pool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	query := tx.Rebind(`
		INSERT INTO items (id, category, term_target, term_primary,
			recognition_score, recognition_due_at, production_score, production_due_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, item := range pool.Items {
		row := toRow(item)
		_, err := tx.ExecContext(ctx, query,
			row.ID, row.Category, row.TermTarget, row.TermPrimary,
			row.RecognitionScore, row.RecognitionDueAt, row.ProductionScore, row.ProductionDueAt)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pool save: %w", err)
	}
	return nil
}

// Clear wipes the persisted item set.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}
