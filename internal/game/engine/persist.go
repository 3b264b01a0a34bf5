package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/storage"
)

// Save persists the session under key.
//
// Postcondition: Returns nil on success; failures are also logged at warn.
func (e *Engine) Save(ctx context.Context, store storage.Store, key string, s *Session) error {
	data, err := s.MarshalSnapshot()
	if err != nil {
		e.logger.Warn("encoding snapshot", zap.String("session", key), zap.Error(err))
		return err
	}
	if err := store.Save(ctx, storage.Save{Key: key, Variant: string(s.Variant()), Snapshot: data}); err != nil {
		e.logger.Warn("saving session", zap.String("session", key), zap.Error(err))
		return fmt.Errorf("saving session %q: %w", key, err)
	}
	return nil
}

// Load restores the session saved under key.
//
// Postcondition: Returns (session, true) when a valid save exists. Missing
// and unreadable saves return (nil, false); unreadable ones are logged.
func (e *Engine) Load(ctx context.Context, store storage.Store, key string) (*Session, bool) {
	sv, err := store.Load(ctx, key)
	if errors.Is(err, storage.ErrSaveNotFound) {
		return nil, false
	}
	if err != nil {
		e.logger.Warn("loading session", zap.String("session", key), zap.Error(err))
		return nil, false
	}
	s, err := UnmarshalSession(sv.Snapshot)
	if err != nil {
		e.logger.Warn("restoring session", zap.String("session", key), zap.Error(err))
		return nil, false
	}
	e.logger.Debug("session restored",
		zap.String("session", key),
		zap.String("variant", sv.Variant),
		zap.Int("turn", s.State().Turn),
	)
	return s, true
}
