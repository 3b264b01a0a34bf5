package engine

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/game/command"
	"github.com/cory-johannsen/whatif/internal/game/dice"
	"github.com/cory-johannsen/whatif/internal/game/ending"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/game/world"
)

// Trap property values.
const (
	trapExit     = "exit"
	trapShredder = "shredder"
)

func (e *Engine) handleMove(t *turn) {
	direction := t.cmd.Direction
	if direction == "" {
		direction = command.ExpandDirection(t.noun)
	}
	if direction == "" {
		e.say(t, state.EntryError, "Where do you want to go?")
		return
	}
	e.move(t, direction)
}

// move resolves direction against the current location's exits, unlocking
// the exit when eligible, and attempts the move.
func (e *Engine) move(t *turn, direction string) {
	loc := t.s.Location()
	idx, ok := loc.FindExit(direction)
	if !ok {
		e.say(t, state.EntryError, "You can't go \"%s\" from here.", direction)
		return
	}
	if !e.unlockIfEligible(t, loc, idx) {
		return
	}
	e.attemptMove(t, loc.Exits[idx])
}

// unlockIfEligible unlocks a locked exit when the player carries its
// required item.
//
// Postcondition: Returns true when the exit is passable.
func (e *Engine) unlockIfEligible(t *turn, loc *world.Location, idx int) bool {
	ex := &loc.Exits[idx]
	if !ex.Locked {
		return true
	}
	if ex.RequiredItem == "" {
		e.say(t, state.EntryError, "The way is blocked.")
		return false
	}
	g := t.s.State()
	if !g.HasItemWithID(ex.RequiredItem) {
		e.say(t, state.EntryError, "It's locked. You need a key.")
		return false
	}
	ex.Locked = false
	name := ex.RequiredItem
	for _, it := range g.Inventory {
		if it.Matches(ex.RequiredItem) {
			name = it.Name
			break
		}
	}
	e.say(t, state.EntrySuccess, "Unlocked with %s.", name)
	return true
}

// attemptMove moves the player through ex. In the horror variant trap
// destinations and encounters end the game instead.
func (e *Engine) attemptMove(t *turn, ex world.Exit) {
	target, err := t.s.world.MustLocation(ex.TargetID)
	if err != nil {
		t.logger.Error("exit targets unknown location", zap.Error(err))
		e.say(t, state.EntryError, "The way is blocked.")
		return
	}

	if t.s.horror != nil {
		if end, ok := e.hazard(t, target); ok {
			e.enterEnding(t, end)
			return
		}
	}

	g := t.s.State()
	from := g.CurrentLocationID
	g.PreviousLocationID = from
	g.CurrentLocationID = target.ID
	g.Discover(from, target.ID)
	first := g.Visit(target.ID)
	target.Visited = true
	g.Turn++
	t.logger.Debug("moved", zap.String("from", from), zap.String("to", target.ID), zap.Int("turn", g.Turn))

	e.describeHere(t)
	e.ambience(t, first)
}

// hazard checks whether entering target ends the horror game.
func (e *Engine) hazard(t *turn, target *world.Location) (ending.Ending, bool) {
	h := t.s.horror
	switch target.Property(world.PropTrap) {
	case trapExit:
		return ending.Escape(h.Maniac.TurnedToPig, h.Maniac.Asleep), true
	case trapShredder:
		return ending.ShredderMeat, true
	}

	pct, err := strconv.Atoi(target.Property(world.PropEncounter))
	if err != nil || pct <= 0 {
		return ending.None, false
	}
	if h.Maniac.Location != target.ID || !h.Maniac.Active() {
		return ending.None, false
	}
	res := dice.NewLoggedRoller(t.s.rng, t.logger).Chance("maniac encounter", pct)
	h.RNGDraws = t.s.rng.Draws()
	if res.Success {
		return ending.CaughtManiac, true
	}
	return ending.None, false
}
