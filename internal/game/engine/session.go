package engine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cory-johannsen/whatif/internal/game/dice"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/game/world"
)

// Variant selects the castle or the horror-house game.
type Variant string

// Game variants.
const (
	Castle Variant = world.CastleID
	Horror Variant = world.HorrorID
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Castle, Horror:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// maniacStart is where the horror antagonist waits at the start of a game.
const maniacStart = "first-floor-hall"

// Session is one player's game: its own world model and state.
// All mutation goes through Engine.Execute, which holds mu for the whole command.
type Session struct {
	mu      sync.Mutex
	variant Variant
	world   *world.Model
	castle  *state.GameState
	horror  *state.HorrorState
	rng     *dice.Seeded
}

func newWorld(v Variant) *world.Model {
	if v == Horror {
		return world.NewHorror()
	}
	return world.NewCastle()
}

func newSession(v Variant, seed int64) *Session {
	s := &Session{variant: v, world: newWorld(v)}
	if v == Horror {
		s.horror = state.NewHorror(s.world.StartLocation, maniacStart, seed)
		s.rng = dice.NewSeeded(seed)
	} else {
		s.castle = state.New(s.world.StartLocation)
	}
	return s
}

// Variant returns the session's game variant.
func (s *Session) Variant() Variant {
	return s.variant
}

// World returns the session's world model. Callers must not mutate it.
func (s *Session) World() *world.Model {
	return s.world
}

// State returns the common game state of either variant. Callers must not mutate it.
func (s *Session) State() *state.GameState {
	if s.horror != nil {
		return &s.horror.GameState
	}
	return s.castle
}

// Horror returns the horror state, or nil for castle sessions.
func (s *Session) Horror() *state.HorrorState {
	return s.horror
}

// Location returns the player's current location.
func (s *Session) Location() *world.Location {
	loc, _ := s.world.Location(s.State().CurrentLocationID)
	return loc
}

// Over reports whether the session has reached a terminal ending.
func (s *Session) Over() bool {
	return s.horror != nil && s.horror.Over()
}

// Clock reports the horror day/night and darkness flags under the
// session lock. ok is false for the castle variant.
func (s *Session) Clock() (daytime, dark, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.horror == nil {
		return false, false, false
	}
	return s.horror.IsDaytime, s.horror.IsDark, true
}

// View returns a deep copy of the session's world and state, safe to read
// while other commands run.
func (s *Session) View() (*world.Model, *state.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.world)
	if err != nil {
		panic(fmt.Sprintf("engine: copying world: %v", err))
	}
	var m world.Model
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("engine: copying world: %v", err))
	}
	return &m, s.State().Clone()
}

// Snapshot is the persisted shape of a session.
type Snapshot struct {
	Variant            Variant                    `json:"variant"`
	Locations          map[string]*world.Location `json:"locations"`
	GameState          json.RawMessage            `json:"gameState"`
	PreviousLocationID string                     `json:"previousLocationId,omitempty"`
}

// MarshalSnapshot serializes the session's world locations and state.
func (s *Session) MarshalSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marshalSnapshot()
}

func (s *Session) marshalSnapshot() ([]byte, error) {
	var (
		gs  []byte
		err error
	)
	if s.horror != nil {
		s.horror.RNGDraws = s.rng.Draws()
		gs, err = json.Marshal(s.horror)
	} else {
		gs, err = json.Marshal(s.castle)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding game state: %w", err)
	}
	data, err := json.Marshal(Snapshot{
		Variant:            s.variant,
		Locations:          s.world.Locations,
		GameState:          gs,
		PreviousLocationID: s.State().PreviousLocationID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSession rebuilds a session from MarshalSnapshot output.
//
// Postcondition: Returns a session equal to the one snapshotted, with the
// hazard sequence resuming where it stopped, or an error for corrupt data.
func UnmarshalSession(data []byte) (*Session, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	v, err := ParseVariant(string(snap.Variant))
	if err != nil {
		return nil, err
	}

	s := &Session{variant: v, world: newWorld(v)}
	s.world.Locations = snap.Locations
	if err := s.world.Validate(); err != nil {
		return nil, fmt.Errorf("restoring world: %w", err)
	}

	if v == Horror {
		var h state.HorrorState
		if err := json.Unmarshal(snap.GameState, &h); err != nil {
			return nil, fmt.Errorf("decoding horror state: %w", err)
		}
		s.horror = &h
		s.rng = dice.RestoreSeeded(h.RNGSeed, h.RNGDraws)
	} else {
		var g state.GameState
		if err := json.Unmarshal(snap.GameState, &g); err != nil {
			return nil, fmt.Errorf("decoding castle state: %w", err)
		}
		s.castle = &g
	}
	if _, ok := s.world.Location(s.State().CurrentLocationID); !ok {
		return nil, fmt.Errorf("restoring state: %w: %q", world.ErrUnknownLocation, s.State().CurrentLocationID)
	}
	if err := checkItemsUnique(s.world, s.State()); err != nil {
		return nil, fmt.Errorf("restoring state: %w", err)
	}
	return s, nil
}

// checkItemsUnique rejects an item carried twice or both carried and placed.
func checkItemsUnique(m *world.Model, g *state.GameState) error {
	placed := m.ItemIDs()
	carried := make(map[string]bool, len(g.Inventory))
	for _, it := range g.Inventory {
		if carried[it.ID] {
			return fmt.Errorf("item %q carried twice", it.ID)
		}
		carried[it.ID] = true
		if locs, ok := placed[it.ID]; ok {
			return fmt.Errorf("item %q is carried and also lies in %q", it.ID, locs[0])
		}
	}
	return nil
}
