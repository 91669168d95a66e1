package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"case-mirror/core/mirror"
	"case-mirror/feature/cases/models"
)

// defaultBatch is the row count fetched per cursor refill.
const defaultBatch = 500

// Store is the persistence layer for the case mirror. It implements
// mirror.Store for the reconciliation engine and adds the direct reads and
// writes the REST layer needs.
//
// Engine mutations accumulate in a lazily opened transaction so one
// upstream page is applied atomically; Commit finishes it, Rollback
// discards it. The transaction is private to the pass that staged it:
// every other entry point (Save, Remove, Get, List, ScanCommitted) runs
// on the base handle and sees committed state only.
type Store struct {
	db    *gorm.DB
	batch int

	// tx is the pending page transaction, nil between pages.
	tx *gorm.DB
}

// New creates a Store on top of db.
func New(db *gorm.DB) *Store {
	return &Store{db: db, batch: defaultBatch}
}

// conn returns the pending page transaction when one is open, the base
// handle otherwise. Only the reconciliation pass may use it: tx is
// unguarded and belongs to the pass goroutine alone.
func (s *Store) conn() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) begin() (*gorm.DB, error) {
	if s.tx == nil {
		tx := s.db.Begin()
		if tx.Error != nil {
			return nil, fmt.Errorf("failed to begin page transaction: %w", tx.Error)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// ScanFrom opens an ordered cursor over rows with id >= from. Refills read
// through the page transaction when one is open, so the pass's own scan
// observes the page it is staging.
func (s *Store) ScanFrom(ctx context.Context, from int64) (mirror.Cursor, error) {
	return &cursor{conn: s.conn, batch: s.batch, next: from, first: true}, nil
}

// ScanCommitted opens an ordered cursor over committed rows with id >= from.
// Refills never touch the page transaction, so readers outside the pass
// (the snapshot archiver) cannot observe an in-flight page or race its tx.
func (s *Store) ScanCommitted(ctx context.Context, from int64) (mirror.Cursor, error) {
	return &cursor{conn: func() *gorm.DB { return s.db }, batch: s.batch, next: from, first: true}, nil
}

// Insert stages a new row in the page transaction.
func (s *Store) Insert(ctx context.Context, rec mirror.Record) error {
	tx, err := s.begin()
	if err != nil {
		return err
	}
	row := models.FromRecord(rec)
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert case %d: %w", rec.ID, err)
	}
	return nil
}

// UpdateVersionAndPayload stages a new version and payload for an existing
// row.
func (s *Store) UpdateVersionAndPayload(ctx context.Context, id, version int64, payload []byte) error {
	tx, err := s.begin()
	if err != nil {
		return err
	}
	result := tx.WithContext(ctx).
		Model(&models.Case{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"logical_timestamp": version,
			"blob":              string(payload),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update case %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update case %d: no such row", id)
	}
	return nil
}

// Delete stages removal of a row, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := s.begin()
	if err != nil {
		return false, err
	}
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&models.Case{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete case %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Commit applies the pending page transaction. With nothing staged it is a
// no-op.
func (s *Store) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit page: %w", err)
	}
	return nil
}

// Rollback discards the pending page transaction, if any.
func (s *Store) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back page: %w", err)
	}
	return nil
}

// Get returns a mirrored case by id, gorm.ErrRecordNotFound when absent.
func (s *Store) Get(ctx context.Context, id int64) (*models.Case, error) {
	var row models.Case
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns one page of mirrored cases in id order plus the total row
// count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]models.Case, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cases: %w", err)
	}

	var rows []models.Case
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cases: %w", err)
	}
	return rows, total, nil
}

// Count returns the number of mirrored cases.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return total, nil
}

// Save writes a mirrored case outside the page transaction, inserting or
// replacing by id. The REST layer uses it to land a registry write in the
// mirror immediately instead of waiting for the next pass.
func (s *Store) Save(ctx context.Context, rec mirror.Record) error {
	row := models.FromRecord(rec)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save case %d: %w", rec.ID, err)
	}
	return nil
}

// Remove deletes a mirrored case outside the page transaction. Removing an
// absent row is not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Case{}).Error; err != nil {
		return fmt.Errorf("failed to remove case %d: %w", id, err)
	}
	return nil
}

// cursor streams rows in ascending id order, refilling in fixed-size
// keyset batches through whatever handle conn yields.
type cursor struct {
	conn  func() *gorm.DB
	batch int
	next  int64 // lower bound for the coming refill
	first bool  // first refill includes next itself
	buf   []models.Case
	pos   int
	done  bool
}

func (c *cursor) Next(ctx context.Context) (mirror.Record, bool, error) {
	if c.pos >= len(c.buf) && !c.done {
		if err := c.refill(ctx); err != nil {
			return mirror.Record{}, false, err
		}
	}
	if c.pos >= len(c.buf) {
		return mirror.Record{}, false, nil
	}
	row := c.buf[c.pos]
	c.pos++
	return row.Record(), true, nil
}

func (c *cursor) refill(ctx context.Context) error {
	q := c.conn().WithContext(ctx).Order("id ASC").Limit(c.batch)
	if c.first {
		q = q.Where("id >= ?", c.next)
	} else {
		q = q.Where("id > ?", c.next)
	}

	var rows []models.Case
	if err := q.Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to scan cases: %w", err)
	}

	c.first = false
	c.buf = rows
	c.pos = 0
	if len(rows) > 0 {
		c.next = rows[len(rows)-1].ID
	}
	if len(rows) < c.batch {
		// Past the last stored row. Latch so rows inserted later in the
		// pass cannot resurrect the cursor.
		c.done = true
	}
	return nil
}

func (c *cursor) Close() error {
	c.buf = nil
	c.done = true
	return nil
}
