// Package ending implements the horror variant's flat terminal state machine.
package ending

import (
	"errors"
	"fmt"
)

// ErrGameOver is returned when entering an ending after the game has ended.
var ErrGameOver = errors.New("game is already over")

// ErrUnknownEnding is returned for values outside the enumerated outcomes.
var ErrUnknownEnding = errors.New("unknown ending")

// Ending is one terminal outcome. The zero value means the game is still running.
type Ending string

// Terminal outcomes.
const (
	None         Ending = ""
	FrozenJump   Ending = "frozen_jump"
	CaughtManiac Ending = "caught_maniac"
	ShredderMeat Ending = "shredder_meat"
	ForgotPotion Ending = "forgot_potion"
	PigChase     Ending = "pig_chase"
	EatenByPig   Ending = "eaten_by_pig"
	TrueEscape   Ending = "true_escape"
)

// All returns every terminal outcome.
func All() []Ending {
	return []Ending{FrozenJump, CaughtManiac, ShredderMeat, ForgotPotion, PigChase, EatenByPig, TrueEscape}
}

// Valid reports whether e is one of the terminal outcomes.
func (e Ending) Valid() bool {
	for _, o := range All() {
		if o == e {
			return true
		}
	}
	return false
}

// Escape resolves which ending reaching the freedom location produces.
//
// Postcondition: Returns TrueEscape only when the antagonist is both
// transformed and asleep.
func Escape(turnedToPig, asleep bool) Ending {
	switch {
	case !turnedToPig:
		return ForgotPotion
	case !asleep:
		return PigChase
	default:
		return TrueEscape
	}
}

// State is the ending marker carried by a horror session.
//
// Invariant: GameOver is true iff Ending != None.
type State struct {
	Ending   Ending `json:"ending,omitempty"`
	GameOver bool   `json:"gameOver"`
}

// Enter moves the machine from playing into the terminal outcome e.
//
// Precondition: e must be a valid terminal outcome.
// Postcondition: On success Ending == e and GameOver is true; on error the
// state is unchanged.
func (s *State) Enter(e Ending) error {
	if s.GameOver {
		return fmt.Errorf("entering %q after %q: %w", e, s.Ending, ErrGameOver)
	}
	if !e.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEnding, e)
	}
	s.Ending = e
	s.GameOver = true
	return nil
}

// Over reports whether a terminal outcome has been reached.
func (s State) Over() bool {
	return s.GameOver
}
