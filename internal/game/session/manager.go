// Package session tracks which save slots are being played by a connected
// client, so one save is never driven by two connections at once.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/whatif/internal/game/engine"
)

// ErrSlotInUse is returned when a save slot is already claimed.
var ErrSlotInUse = errors.New("save slot in use")

// Slot is one claimed save slot.
type Slot struct {
	// Key is the save key.
	Key string
	// ConnID identifies the client holding the slot.
	ConnID string
	// RemoteAddr is the client's address, for logging.
	RemoteAddr string
	// Since is when the slot was claimed.
	Since time.Time
	// Game is the session being played.
	Game *engine.Session
}

// Manager tracks claimed save slots. All methods are safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	slots map[string]*Slot
	now   func() time.Time
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		slots: make(map[string]*Slot),
		now:   time.Now,
	}
}

// Claim registers game under key for the connection connID.
//
// Precondition: key and connID must be non-empty; game must be non-nil.
// Postcondition: Returns the Slot, or ErrSlotInUse if key is held by another client.
func (m *Manager) Claim(key, connID, remoteAddr string, game *engine.Session) (*Slot, error) {
	if key == "" || connID == "" {
		return nil, fmt.Errorf("claiming slot: key and connection id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.slots[key]; ok {
		return nil, fmt.Errorf("%w: %q held by %s since %s", ErrSlotInUse, key, held.RemoteAddr, held.Since.Format(time.RFC3339))
	}
	s := &Slot{Key: key, ConnID: connID, RemoteAddr: remoteAddr, Since: m.now(), Game: game}
	m.slots[key] = s
	return s, nil
}

// Release frees key if connID holds it.
//
// Postcondition: Returns true when the slot was released.
func (m *Manager) Release(key, connID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok || s.ConnID != connID {
		return false
	}
	delete(m.slots, key)
	return true
}

// Get returns the slot claimed under key.
//
// Postcondition: Returns (slot, true) if claimed, or (nil, false) otherwise.
func (m *Manager) Get(key string) (*Slot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[key]
	return s, ok
}

// Keys returns the claimed keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of claimed slots.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}
