// Package state holds the mutable per-session game record for both game
// variants.
package state

import (
	"strings"

	"github.com/cory-johannsen/whatif/internal/game/world"
)

// EntryType classifies a game log entry.
type EntryType string

// Log entry types.
const (
	EntryCommand  EntryType = "command"
	EntryResponse EntryType = "response"
	EntryError    EntryType = "error"
	EntrySuccess  EntryType = "success"
	EntrySystem   EntryType = "system"
	EntryWarning  EntryType = "warning"
	EntryEnding   EntryType = "ending"
)

// LogEntry is one line of the append-only game log.
type LogEntry struct {
	Type EntryType `json:"type"`
	Text string    `json:"text"`
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`
}

// Connection is a discovered [from, to] pair used for map rendering.
type Connection [2]string

// GameState is the castle-variant session record and the base of HorrorState.
type GameState struct {
	CurrentLocationID     string          `json:"currentLocationId"`
	PreviousLocationID    string          `json:"previousLocationId,omitempty"`
	Inventory             []world.Item    `json:"inventory"`
	VisitedLocations      []string        `json:"visitedLocations"`
	GameLog               []LogEntry      `json:"gameLog"`
	Flags                 map[string]bool `json:"flags"`
	Turn                  int             `json:"turn"`
	DiscoveredConnections []Connection    `json:"discoveredConnections"`
}

// New returns a fresh GameState positioned at start.
//
// Postcondition: start is the only visited location; turn is 0.
func New(start string) *GameState {
	return &GameState{
		CurrentLocationID:     start,
		Inventory:             []world.Item{},
		VisitedLocations:      []string{start},
		GameLog:               []LogEntry{},
		Flags:                 map[string]bool{},
		DiscoveredConnections: []Connection{},
	}
}

// Visit adds id to the visited set.
//
// Postcondition: Returns true when id was not visited before.
func (g *GameState) Visit(id string) bool {
	if g.HasVisited(id) {
		return false
	}
	g.VisitedLocations = append(g.VisitedLocations, id)
	return true
}

// HasVisited reports whether id is in the visited set.
func (g *GameState) HasVisited(id string) bool {
	for _, v := range g.VisitedLocations {
		if v == id {
			return true
		}
	}
	return false
}

// Discover records the [from, to] connection unless it is already known.
func (g *GameState) Discover(from, to string) {
	c := Connection{from, to}
	for _, known := range g.DiscoveredConnections {
		if known == c {
			return
		}
	}
	g.DiscoveredConnections = append(g.DiscoveredConnections, c)
}

// Append adds a log entry.
func (g *GameState) Append(t EntryType, text string, timestamp int64) LogEntry {
	e := LogEntry{Type: t, Text: text, Timestamp: timestamp}
	g.GameLog = append(g.GameLog, e)
	return e
}

// FindInventory returns the index of the first carried item matching query, or -1.
func (g *GameState) FindInventory(query string) int {
	return world.FindItem(g.Inventory, query)
}

// HasItemWithID reports whether any carried item's ID contains fragment,
// compared case-insensitively.
func (g *GameState) HasItemWithID(fragment string) bool {
	f := strings.ToLower(fragment)
	if f == "" {
		return false
	}
	for _, it := range g.Inventory {
		if strings.Contains(strings.ToLower(it.ID), f) {
			return true
		}
	}
	return false
}

// RemoveInventoryAt removes and returns the carried item at index i.
//
// Precondition: 0 <= i < len(g.Inventory).
func (g *GameState) RemoveInventoryAt(i int) world.Item {
	it := g.Inventory[i]
	g.Inventory = append(g.Inventory[:i:i], g.Inventory[i+1:]...)
	return it
}

// CommandHistory returns up to the last n entries of type command, oldest first.
func (g *GameState) CommandHistory(n int) []LogEntry {
	var out []LogEntry
	for i := len(g.GameLog) - 1; i >= 0 && len(out) < n; i-- {
		if g.GameLog[i].Type == EntryCommand {
			out = append(out, g.GameLog[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Clone returns a deep copy.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Inventory = append([]world.Item{}, g.Inventory...)
	c.VisitedLocations = append([]string{}, g.VisitedLocations...)
	c.GameLog = append([]LogEntry{}, g.GameLog...)
	c.DiscoveredConnections = append([]Connection{}, g.DiscoveredConnections...)
	c.Flags = make(map[string]bool, len(g.Flags))
	for k, v := range g.Flags {
		c.Flags[k] = v
	}
	return &c
}
