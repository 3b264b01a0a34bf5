package state

import (
	"github.com/cory-johannsen/whatif/internal/game/ending"
)

// ManiacState tracks the antagonist of the horror variant.
type ManiacState struct {
	Location    string `json:"location"`
	Asleep      bool   `json:"asleep"`
	TurnedToPig bool   `json:"turnedToPig"`
	Fed         bool   `json:"fed"`
	// SleepTurnsLeft counts down while the transformed antagonist sleeps.
	SleepTurnsLeft int `json:"sleepTurnsLeft,omitempty"`
}

// Active reports whether the antagonist can still catch the player.
func (m ManiacState) Active() bool {
	return !m.Fed && !m.Asleep
}

// HorrorState extends GameState with the horror variant's survival,
// crafting and ending sub-state.
type HorrorState struct {
	GameState
	ending.State

	IsDark        bool        `json:"isDark"`
	IsDaytime     bool        `json:"isDaytime"`
	HasLight      bool        `json:"hasLight"`
	SleepCount    int         `json:"sleepCount"`
	CraftedItems  []string    `json:"craftedItems"`
	CookedMeals   []string    `json:"cookedMeals"`
	UnlockedDoors []string    `json:"unlockedDoors"`
	Maniac        ManiacState `json:"maniac"`
	// DaylightTurnsLeft counts down to nightfall after sleeping.
	DaylightTurnsLeft int `json:"daylightTurnsLeft,omitempty"`

	RNGSeed  int64  `json:"rngSeed"`
	RNGDraws uint64 `json:"rngDraws"`
}

// NewHorror returns a fresh HorrorState at night, in darkness, with the
// antagonist awake at maniacLocation.
func NewHorror(start, maniacLocation string, seed int64) *HorrorState {
	h := &HorrorState{
		GameState:     *New(start),
		CraftedItems:  []string{},
		CookedMeals:   []string{},
		UnlockedDoors: []string{},
		Maniac:        ManiacState{Location: maniacLocation},
		RNGSeed:       seed,
	}
	h.RecomputeDarkness()
	return h
}

// RecomputeDarkness derives IsDark from IsDaytime and HasLight.
//
// Postcondition: IsDark == !IsDaytime && !HasLight.
func (h *HorrorState) RecomputeDarkness() {
	h.IsDark = !h.IsDaytime && !h.HasLight
}

// Clone returns a deep copy.
func (h *HorrorState) Clone() *HorrorState {
	c := *h
	c.GameState = *h.GameState.Clone()
	c.CraftedItems = append([]string{}, h.CraftedItems...)
	c.CookedMeals = append([]string{}, h.CookedMeals...)
	c.UnlockedDoors = append([]string{}, h.UnlockedDoors...)
	return &c
}
