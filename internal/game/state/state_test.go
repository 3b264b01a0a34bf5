package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/whatif/internal/game/ending"
	"github.com/cory-johannsen/whatif/internal/game/world"
)

func TestNew(t *testing.T) {
	g := New("castle-entrance")
	assert.Equal(t, "castle-entrance", g.CurrentLocationID)
	assert.Equal(t, []string{"castle-entrance"}, g.VisitedLocations)
	assert.Equal(t, 0, g.Turn)
	assert.NotNil(t, g.Inventory)
	assert.NotNil(t, g.Flags)
}

func TestVisit_SetSemantics(t *testing.T) {
	g := New("a")
	assert.False(t, g.Visit("a"))
	assert.True(t, g.Visit("b"))
	assert.False(t, g.Visit("b"))
	assert.Equal(t, []string{"a", "b"}, g.VisitedLocations)
}

func TestDiscover_Dedupes(t *testing.T) {
	g := New("a")
	g.Discover("a", "b")
	g.Discover("a", "b")
	g.Discover("b", "a")
	assert.Equal(t, []Connection{{"a", "b"}, {"b", "a"}}, g.DiscoveredConnections)
}

func TestHasItemWithID(t *testing.T) {
	g := New("a")
	g.Inventory = append(g.Inventory, world.Item{ID: "Key-Chamber", Name: "ключ"})
	assert.True(t, g.HasItemWithID("key"))
	assert.True(t, g.HasItemWithID("CHAMBER"))
	assert.False(t, g.HasItemWithID("crown"))
	assert.False(t, g.HasItemWithID(""))
}

func TestCommandHistory(t *testing.T) {
	g := New("a")
	for i := 0; i < 15; i++ {
		g.Append(EntryCommand, string(rune('a'+i)), int64(i))
		g.Append(EntryResponse, "ok", int64(i))
	}
	h := g.CommandHistory(10)
	require.Len(t, h, 10)
	assert.Equal(t, "f", h[0].Text)
	assert.Equal(t, "o", h[9].Text)

	assert.Empty(t, New("a").CommandHistory(10))
}

func TestClone_IsDeep(t *testing.T) {
	g := New("a")
	g.Inventory = append(g.Inventory, world.Item{ID: "x"})
	g.Flags["seen"] = true
	c := g.Clone()
	c.Inventory[0].ID = "y"
	c.Flags["seen"] = false
	c.Visit("b")
	assert.Equal(t, "x", g.Inventory[0].ID)
	assert.True(t, g.Flags["seen"])
	assert.False(t, g.HasVisited("b"))
}

func TestHorrorState_JSONShape(t *testing.T) {
	h := NewHorror("bedroom", "first-floor-hall", 42)
	require.NoError(t, h.Enter(ending.ForgotPotion))

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"currentLocationId", "inventory", "visitedLocations", "gameLog", "flags", "turn",
		"discoveredConnections", "isDark", "isDaytime", "hasLight", "sleepCount", "craftedItems", "cookedMeals",
		"unlockedDoors", "maniac", "ending", "gameOver", "rngSeed", "rngDraws"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "forgot_potion", raw["ending"])

	var back HorrorState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, h, &back)
}

func TestNewHorror_StartsDark(t *testing.T) {
	h := NewHorror("bedroom", "first-floor-hall", 1)
	assert.True(t, h.IsDark)
	assert.False(t, h.IsDaytime)
	assert.True(t, h.Maniac.Active())
	assert.False(t, h.Over())
}

func TestPropertyDarknessDerivation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := NewHorror("bedroom", "hall", 1)
		h.IsDaytime = rapid.Bool().Draw(t, "day")
		h.HasLight = rapid.Bool().Draw(t, "light")
		h.RecomputeDarkness()
		if h.IsDark != (!h.IsDaytime && !h.HasLight) {
			t.Fatalf("dark=%v day=%v light=%v", h.IsDark, h.IsDaytime, h.HasLight)
		}
	})
}
