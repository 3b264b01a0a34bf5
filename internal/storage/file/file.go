// Package file stores save snapshots as JSON files in a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cory-johannsen/whatif/internal/storage"
)

// Store is a storage.Store writing one <key>.json file per save slot.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// New creates a Store rooted at dir, creating the directory if needed.
//
// Postcondition: Returns a Store or an error if dir cannot be created.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// path maps a save key onto a file inside the store directory.
func (s *Store) path(key string) (string, error) {
	clean := strings.TrimSpace(key)
	if clean == "" || strings.ContainsAny(clean, `/\`) || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid save key %q", key)
	}
	return filepath.Join(s.dir, clean+".json"), nil
}

// Save writes sv atomically through a temp file and rename.
//
// Postcondition: On success the file for sv.Key holds sv with UpdatedAt set.
func (s *Store) Save(ctx context.Context, sv storage.Save) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(sv.Key)
	if err != nil {
		return err
	}
	sv.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(sv)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", sv.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing save %q: %w", sv.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing save %q: %w", sv.Key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing save %q: %w", sv.Key, err)
	}
	return nil
}

// Load reads the save stored under key.
//
// Postcondition: Returns storage.ErrSaveNotFound when no file exists.
func (s *Store) Load(ctx context.Context, key string) (storage.Save, error) {
	if err := ctx.Err(); err != nil {
		return storage.Save{}, err
	}
	p, err := s.path(key)
	if err != nil {
		return storage.Save{}, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(p)
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return storage.Save{}, fmt.Errorf("%w: %q", storage.ErrSaveNotFound, key)
	}
	if err != nil {
		return storage.Save{}, fmt.Errorf("reading save %q: %w", key, err)
	}

	var sv storage.Save
	if err := json.Unmarshal(data, &sv); err != nil {
		return storage.Save{}, fmt.Errorf("decoding save %q: %w", key, err)
	}
	return sv, nil
}

// Delete removes the save stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting save %q: %w", key, err)
	}
	return nil
}
