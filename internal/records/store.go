package records

import (
	"context"
	"fmt"

	"go_rdns/internal/model"

	"gorm.io/gorm"
)

// Outcome reports what Upsert did
type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	}
	return "unknown"
}

// Store writes PTR records to the records table
type Store struct {
	db *gorm.DB
}

// NewStore creates a new record store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetDB returns the database instance
func (s *Store) GetDB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back on error or panic. Called on a Store that is
// already inside a transaction, it opens a savepoint instead, so fn's writes
// can be discarded without aborting the enclosing transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Insert appends rec unconditionally
func (s *Store) Insert(ctx context.Context, rec *model.Record) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert %s %s: %w", rec.Type, rec.Name, err)
	}
	return nil
}

// Upsert updates content, ttl and auth of the PTR row named rec.Name, or inserts
// rec when no such row exists. The owning domain of an existing row is left
// untouched.
func (s *Store) Upsert(ctx context.Context, rec *model.Record) (Outcome, error) {
	db := s.db.WithContext(ctx)

	var existing []model.Record
	err := db.Model(&model.Record{}).
		Select("id").
		Where("name = ? AND type = ?", rec.Name, model.RecordTypePTR).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return 0, fmt.Errorf("lookup %s: %w", rec.Name, err)
	}

	if len(existing) == 0 {
		if err := s.Insert(ctx, rec); err != nil {
			return 0, err
		}
		return Inserted, nil
	}

	updates := map[string]interface{}{
		"content": rec.Content,
		"ttl":     rec.TTL,
		"auth":    true,
	}
	err = db.Model(&model.Record{}).
		Where("id = ?", existing[0].ID).
		Updates(updates).Error
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", rec.Name, err)
	}
	rec.ID = existing[0].ID
	return Updated, nil
}

// CountPTR returns the number of PTR rows, optionally restricted to a domain
func (s *Store) CountPTR(ctx context.Context, domainID int64) (int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Record{}).Where("type = ?", model.RecordTypePTR)
	if domainID > 0 {
		q = q.Where("domain_id = ?", domainID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
