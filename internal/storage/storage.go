// Package storage defines the save-slot persistence contract shared by the
// file and PostgreSQL backends.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrSaveNotFound is returned when a save slot holds no snapshot.
var ErrSaveNotFound = errors.New("save not found")

// Save is one persisted session snapshot.
type Save struct {
	// Key is the opaque save-slot key chosen by the frontend.
	Key string `json:"key"`
	// Variant is the game variant the snapshot belongs to.
	Variant string `json:"variant"`
	// Snapshot is the serialized world model and game state.
	Snapshot  json.RawMessage `json:"snapshot"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store persists session snapshots by save-slot key.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	// Save stores s under s.Key, replacing any previous snapshot.
	Save(ctx context.Context, s Save) error
	// Load returns the snapshot stored under key or ErrSaveNotFound.
	Load(ctx context.Context, key string) (Save, error)
	// Delete removes the snapshot stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
