package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrRecordNotFound is re-exported so callers don't import gorm directly.
var ErrRecordNotFound = gorm.ErrRecordNotFound

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func IsNotFound(err error) bool { return errors.Is(err, ErrRecordNotFound) }
