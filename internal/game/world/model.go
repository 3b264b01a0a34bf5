// Package world provides the adventure world model: locations, exits, items and NPCs.
package world

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLocation is returned when a location ID does not resolve in a Model.
var ErrUnknownLocation = errors.New("unknown location")

// Location properties recognised by the engine.
const (
	// PropTrap marks a location whose entry short-circuits into an ending.
	// Values: "exit" (the freedom location) and "shredder".
	PropTrap = "trap"
	// PropEncounter is the percent chance of meeting the antagonist on entry.
	PropEncounter = "encounter"
	// PropDarkExempt allows taking items here even in darkness.
	PropDarkExempt = "dark_exempt"
	// PropUse names the per-location effect of the "use" verb.
	// Values: "shredder", "vent", "feed", "pig".
	PropUse = "use"
	// PropJump marks the one location where jumping is possible.
	PropJump = "jump"
)

// Item is an object that lives either in one Location or in the player's inventory.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Takeable    bool   `json:"takeable"`
	Usable      bool   `json:"usable,omitempty"`
}

// Matches reports whether query is a case-insensitive substring of the
// item's name or ID.
func (i Item) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(i.Name), q) || strings.Contains(strings.ToLower(i.ID), q)
}

// FindItem returns the index of the first item matching query, or -1.
func FindItem(items []Item, query string) int {
	for idx, it := range items {
		if it.Matches(query) {
			return idx
		}
	}
	return -1
}

// Exit is a passage from one location to another.
type Exit struct {
	// Direction is the free-text label players type ("север", "дверь").
	Direction string `json:"direction"`
	// TargetID is the ID of the destination location.
	TargetID string `json:"targetId"`
	// Description is optional flavor text shown in exit listings.
	Description string `json:"description,omitempty"`
	// Locked blocks the exit until RequiredItem is carried.
	Locked bool `json:"locked,omitempty"`
	// RequiredItem is an item ID fragment that unlocks the exit.
	RequiredItem string `json:"requiredItem,omitempty"`
}

// NPC is read-only flavor data attached to a location.
type NPC struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Dialogue    []string `json:"dialogue,omitempty"`
}

// Location is a node of the world graph.
type Location struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	LongDescription string            `json:"longDescription,omitempty"`
	Exits           []Exit            `json:"exits"`
	Items           []Item            `json:"items"`
	NPCs            []NPC             `json:"npcs,omitempty"`
	Visited         bool              `json:"visited"`
	Properties      map[string]string `json:"properties,omitempty"`
}

// FindExit resolves a direction label against this location's exits.
// An exact case-insensitive match wins over a prefix match.
//
// Postcondition: Returns (index, true) if found, or (-1, false) otherwise.
func (l *Location) FindExit(direction string) (int, bool) {
	d := strings.ToLower(strings.TrimSpace(direction))
	if d == "" {
		return -1, false
	}
	for i, e := range l.Exits {
		if strings.ToLower(e.Direction) == d {
			return i, true
		}
	}
	for i, e := range l.Exits {
		if strings.HasPrefix(strings.ToLower(e.Direction), d) {
			return i, true
		}
	}
	return -1, false
}

// FindItem returns the index of the first item here matching query, or -1.
func (l *Location) FindItem(query string) int {
	return FindItem(l.Items, query)
}

// RemoveItemAt removes and returns the item at index i.
//
// Precondition: 0 <= i < len(l.Items).
func (l *Location) RemoveItemAt(i int) Item {
	it := l.Items[i]
	l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
	return it
}

// Property returns a location property, or "" when unset.
func (l *Location) Property(key string) string {
	if l.Properties == nil {
		return ""
	}
	return l.Properties[key]
}

// Model is one session's world graph. Each game owns its own Model;
// factories return a fresh value on every call.
type Model struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	StartLocation string               `json:"startLocation"`
	Locations     map[string]*Location `json:"locations"`
}

// Location returns the location with the given ID.
//
// Postcondition: Returns (location, true) if found, or (nil, false) otherwise.
func (m *Model) Location(id string) (*Location, bool) {
	l, ok := m.Locations[id]
	return l, ok
}

// MustLocation returns the location with the given ID or an ErrUnknownLocation error.
func (m *Model) MustLocation(id string) (*Location, error) {
	l, ok := m.Locations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, id)
	}
	return l, nil
}

// Validate checks model invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (m *Model) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("world ID must not be empty")
	}
	if len(m.Locations) == 0 {
		return fmt.Errorf("world %q: must contain at least one location", m.ID)
	}
	if _, ok := m.Locations[m.StartLocation]; !ok {
		return fmt.Errorf("world %q: start_location %q not found in locations", m.ID, m.StartLocation)
	}
	seenItems := make(map[string]string)
	for id, loc := range m.Locations {
		if loc == nil {
			return fmt.Errorf("world %q: location %q is empty", m.ID, id)
		}
		if loc.ID != id {
			return fmt.Errorf("world %q: location key %q does not match location ID %q", m.ID, id, loc.ID)
		}
		if loc.Name == "" {
			return fmt.Errorf("world %q: location %q: name must not be empty", m.ID, id)
		}
		for _, exit := range loc.Exits {
			if exit.Direction == "" {
				return fmt.Errorf("world %q: location %q: exit with empty direction", m.ID, id)
			}
			if _, ok := m.Locations[exit.TargetID]; !ok {
				return fmt.Errorf("world %q: location %q: exit %q targets unknown location %q", m.ID, id, exit.Direction, exit.TargetID)
			}
		}
		for _, it := range loc.Items {
			if it.ID == "" {
				return fmt.Errorf("world %q: location %q: item with empty ID", m.ID, id)
			}
			if other, dup := seenItems[it.ID]; dup {
				return fmt.Errorf("world %q: item %q appears in %q and %q", m.ID, it.ID, other, id)
			}
			seenItems[it.ID] = id
		}
	}
	return nil
}

// ItemIDs returns every item ID currently placed in a location, keyed by item
// ID with the holding location as value.
func (m *Model) ItemIDs() map[string][]string {
	out := make(map[string][]string)
	for id, loc := range m.Locations {
		for _, it := range loc.Items {
			out[it.ID] = append(out[it.ID], id)
		}
	}
	return out
}
