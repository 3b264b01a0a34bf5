package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/whatif/internal/storage"
)

// SaveRepository is a storage.Store backed by the saves table.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save upserts the snapshot stored under s.Key.
//
// Precondition: s.Key must be non-empty and s.Snapshot valid JSON.
// Postcondition: The row for s.Key holds s with updated_at set to NOW().
func (r *SaveRepository) Save(ctx context.Context, s storage.Save) error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("invalid save key %q", s.Key)
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO saves (session_key, variant, snapshot, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (session_key) DO UPDATE
		 SET variant = EXCLUDED.variant, snapshot = EXCLUDED.snapshot, updated_at = NOW()`,
		s.Key, s.Variant, []byte(s.Snapshot),
	)
	if err != nil {
		return fmt.Errorf("saving %q: %w", s.Key, err)
	}
	return nil
}

// Load returns the snapshot stored under key.
//
// Postcondition: Returns storage.ErrSaveNotFound when no row exists.
func (r *SaveRepository) Load(ctx context.Context, key string) (storage.Save, error) {
	var (
		s    storage.Save
		snap []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT session_key, variant, snapshot, updated_at FROM saves WHERE session_key = $1`,
		key,
	).Scan(&s.Key, &s.Variant, &snap, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Save{}, fmt.Errorf("%w: %q", storage.ErrSaveNotFound, key)
	}
	if err != nil {
		return storage.Save{}, fmt.Errorf("loading %q: %w", key, err)
	}
	s.Snapshot = snap
	return s, nil
}

// Delete removes the row stored under key.
func (r *SaveRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM saves WHERE session_key = $1`, key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}
