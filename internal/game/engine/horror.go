package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/game/ending"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/game/world"
)

// Item queries matched against carried item names and IDs.
const (
	itemBlanket     = "blanket"
	itemScrewdriver = "screwdriver"
	itemPills       = "sleeping-pills"
	itemPotion      = "potion"
	itemRawChicken  = "raw-chicken"
	itemTray        = "tray"
	itemInjection   = "mixed-injection"
	itemMeal        = "grilled-chicken"
)

// PropUse values.
const (
	useShredder = "shredder"
	useVent     = "vent"
	useFeed     = "feed"
	usePig      = "pig"
)

// jumpConfirmation is the noun that confirms a jump.
const jumpConfirmation = "точно"

func (e *Engine) handleSleep(t *turn) {
	h := t.s.horror
	if h.FindInventory(itemBlanket) < 0 {
		e.say(t, state.EntryError, "You need something to sleep under.")
		return
	}
	if h.IsDaytime {
		e.say(t, state.EntryWarning, "It's already day.")
		return
	}
	h.IsDaytime = true
	h.SleepCount++
	h.DaylightTurnsLeft = e.cfg.DaylightTurns
	h.RecomputeDarkness()
	t.logger.Debug("slept until morning", zap.Int("sleep_count", h.SleepCount))
	e.say(t, state.EntrySuccess, "You wrap yourself in the blanket and sleep until morning. It's daytime.")
}

func (e *Engine) handleLight(t *turn) {
	h := t.s.horror
	if t.noun == "" {
		e.say(t, state.EntryError, "Switch on what?")
		return
	}
	if !e.isLightNoun(t) {
		e.say(t, state.EntryError, "You can't switch on \"%s\".", t.noun)
		return
	}
	if h.HasLight {
		e.say(t, state.EntryWarning, "The light is already on.")
		return
	}
	if h.FindInventory(flashlightID) < 0 {
		e.say(t, state.EntryError, "You have nothing to light the way with.")
		return
	}
	h.HasLight = true
	h.RecomputeDarkness()
	e.say(t, state.EntrySuccess, "You switch on the flashlight.")
}

// lightWords name the light itself rather than a particular lamp.
var lightWords = []string{"свет", "light"}

func (e *Engine) isLightNoun(t *turn) bool {
	for _, w := range lightWords {
		if strings.HasPrefix(t.noun, w) {
			return true
		}
	}
	i := t.s.State().FindInventory(t.noun)
	return i >= 0 && t.s.State().Inventory[i].ID == flashlightID
}

// removeBoth removes two distinct inventory items, higher index first.
func removeBoth(g *state.GameState, i, j int) {
	if i < j {
		i, j = j, i
	}
	g.RemoveInventoryAt(i)
	g.RemoveInventoryAt(j)
}

func (e *Engine) handleMix(t *turn) {
	h := t.s.horror
	pills, potion := h.FindInventory(itemPills), h.FindInventory(itemPotion)
	if pills < 0 || potion < 0 {
		e.say(t, state.EntryError, "You need sleeping pills and a potion to mix.")
		return
	}
	removeBoth(&h.GameState, pills, potion)
	it := world.Item{
		ID:          fmt.Sprintf("%s-%d", itemInjection, len(h.CraftedItems)+1),
		Name:        e.catalog.T("mixed injection"),
		Description: e.catalog.T("A syringe of potion laced with sleeping pills."),
		Takeable:    true,
		Usable:      true,
	}
	h.Inventory = append(h.Inventory, it)
	h.CraftedItems = append(h.CraftedItems, it.ID)
	e.say(t, state.EntrySuccess, "You mix the pills into the potion and fill a syringe: %s.", it.Name)
}

func (e *Engine) handleCook(t *turn) {
	h := t.s.horror
	chicken, tray := h.FindInventory(itemRawChicken), h.FindInventory(itemTray)
	if chicken < 0 || tray < 0 {
		e.say(t, state.EntryError, "You need raw chicken and a tray to cook.")
		return
	}
	h.RemoveInventoryAt(chicken)
	it := world.Item{
		ID:          fmt.Sprintf("%s-%d", itemMeal, len(h.CookedMeals)+1),
		Name:        e.catalog.T("grilled chicken"),
		Description: e.catalog.T("Still hot. It smells irresistible."),
		Takeable:    true,
		Usable:      true,
	}
	h.Inventory = append(h.Inventory, it)
	h.CookedMeals = append(h.CookedMeals, it.ID)
	e.say(t, state.EntrySuccess, "The chicken sizzles on the tray: %s.", it.Name)
}

func (e *Engine) handleUse(t *turn) {
	h := t.s.horror
	loc := t.s.Location()
	if t.noun != "" && h.FindInventory(t.noun) < 0 && loc.FindItem(t.noun) < 0 {
		e.say(t, state.EntryError, "You don't have \"%s\".", t.noun)
		return
	}
	switch loc.Property(world.PropUse) {
	case useShredder:
		e.say(t, state.EntryResponse, "The shredder hums. The display blinks: HATCH OPEN. CAPACITY: 90 KG.")
	case useVent:
		if e.nounIsOneOf(t, itemScrewdriver) {
			e.useVent(t, loc)
		}
	case useFeed:
		if e.nounIsOneOf(t, itemMeal, itemInjection) {
			e.useFeed(t)
		}
	case usePig:
		if e.nounIsOneOf(t, itemInjection) {
			e.usePig(t)
		}
	default:
		e.say(t, state.EntryError, "There is nothing to use here.")
	}
}

// nounIsOneOf reports whether the noun is empty or names a carried item whose
// ID contains one of ids. Otherwise it tells the player the item is no use here.
func (e *Engine) nounIsOneOf(t *turn, ids ...string) bool {
	if t.noun == "" {
		return true
	}
	for _, it := range t.s.State().Inventory {
		if !it.Matches(t.noun) {
			continue
		}
		for _, id := range ids {
			if strings.Contains(it.ID, id) {
				return true
			}
		}
	}
	e.say(t, state.EntryError, "%s is no use here.", t.noun)
	return false
}

// useVent unscrews the grille, unlocking the exits that need no key.
func (e *Engine) useVent(t *turn, loc *world.Location) {
	h := t.s.horror
	if h.FindInventory(itemScrewdriver) < 0 {
		e.say(t, state.EntryError, "You need a screwdriver to remove the grille.")
		return
	}
	opened := false
	for i := range loc.Exits {
		ex := &loc.Exits[i]
		if ex.Locked && ex.RequiredItem == "" {
			ex.Locked = false
			h.UnlockedDoors = append(h.UnlockedDoors, loc.ID+":"+ex.Direction)
			opened = true
		}
	}
	if !opened {
		e.say(t, state.EntryWarning, "The grille is already off.")
		return
	}
	e.say(t, state.EntrySuccess, "You unscrew the vent grille. The way is open.")
}

// useFeed leaves the drugged meal for the antagonist, who turns into a pig,
// falls asleep and moves to the pig hall.
func (e *Engine) useFeed(t *turn) {
	h := t.s.horror
	if h.Maniac.Fed {
		e.say(t, state.EntryWarning, "He is already fed.")
		return
	}
	meal, injection := h.FindInventory(itemMeal), h.FindInventory(itemInjection)
	if meal < 0 || injection < 0 {
		e.say(t, state.EntryError, "You need a cooked meal and the injection.")
		return
	}
	removeBoth(&h.GameState, meal, injection)
	h.Maniac.Fed = true
	h.Maniac.TurnedToPig = true
	h.Maniac.Asleep = true
	h.Maniac.SleepTurnsLeft = e.cfg.PigSleepTurns
	if lair, ok := e.locationWithUse(t.s.world, usePig); ok {
		h.Maniac.Location = lair
	}
	t.logger.Info("antagonist transformed", zap.Int("sleep_turns", h.Maniac.SleepTurnsLeft))
	e.say(t, state.EntrySuccess, "You lace the chicken with the injection and leave it in the bowl. Heavy steps, greedy chewing... then a squeal from the cellar and snoring.")
}

func (e *Engine) usePig(t *turn) {
	h := t.s.horror
	if !h.Maniac.TurnedToPig {
		e.say(t, state.EntryResponse, "The pigs ignore you.")
		return
	}
	if h.FindInventory(itemInjection) < 0 {
		e.say(t, state.EntryResponse, "The huge pig snores in the straw.")
		return
	}
	e.enterEnding(t, ending.EatenByPig)
}

func (e *Engine) locationWithUse(m *world.Model, use string) (string, bool) {
	for id, loc := range m.Locations {
		if loc.Property(world.PropUse) == use {
			return id, true
		}
	}
	return "", false
}

func (e *Engine) handleJump(t *turn) {
	loc := t.s.Location()
	if loc.Property(world.PropJump) != "true" {
		e.say(t, state.EntryError, "There is nowhere to jump from here.")
		return
	}
	if t.noun != jumpConfirmation {
		e.say(t, state.EntryWarning, "It's a long way down and freezing outside. Type \"прыгнуть точно\" if you are sure.")
		return
	}
	e.enterEnding(t, ending.FrozenJump)
}

// tick advances the logical clocks after a turn-advancing command.
func (e *Engine) tick(t *turn) {
	h := t.s.horror
	if h == nil || h.Over() {
		return
	}
	if h.DaylightTurnsLeft > 0 {
		h.DaylightTurnsLeft--
		if h.DaylightTurnsLeft == 0 {
			h.IsDaytime = false
			h.RecomputeDarkness()
			e.say(t, state.EntrySystem, "Night falls. The house grows dark.")
		}
	}
	if h.Maniac.Asleep && h.Maniac.SleepTurnsLeft > 0 {
		h.Maniac.SleepTurnsLeft--
		if h.Maniac.SleepTurnsLeft == 0 {
			h.Maniac.Asleep = false
			e.say(t, state.EntryWarning, "Somewhere below, the pig wakes up.")
		}
	}
}
