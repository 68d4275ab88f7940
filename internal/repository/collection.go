// Package repository persists generated entities through gorm.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
)

// Inserter is what the seeder needs from a collection: a bulk insert that either stores
// the whole batch or fails.
type Inserter[M any] interface {
	InsertMany(ctx context.Context, items []*M) ([]*M, error)
}

// Collection is one table of seeded records.
type Collection[M any] struct {
	db   *gorm.DB
	name string
}

func NewCollection[M any](db *gorm.DB, name string) *Collection[M] {
	return &Collection[M]{db: db, name: name}
}

func (c *Collection[M]) Name() string { return c.name }

// InsertMany writes the batch in one transaction, associations included.
func (c *Collection[M]) InsertMany(ctx context.Context, items []*M) ([]*M, error) {
	if len(items) == 0 {
		return items, nil
	}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(items, len(items)).Error
	})
	if err != nil {
		return nil, errs.DatabaseError("insert "+c.name, err)
	}
	return items, nil
}

func (c *Collection[M]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(new(M)).Count(&n).Error; err != nil {
		return 0, errs.DatabaseError("count "+c.name, err)
	}
	return n, nil
}

// Clear deletes every row and returns how many were removed.
func (c *Collection[M]) Clear(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(M))
	if res.Error != nil {
		return 0, errs.DatabaseError("clear "+c.name, res.Error)
	}
	return res.RowsAffected, nil
}
