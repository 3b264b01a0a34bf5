package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/game/command"
	"github.com/cory-johannsen/whatif/internal/game/mapview"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/game/world"
)

// flashlightID is the item ID fragment that provides light when taken.
const flashlightID = "flashlight"

// describe renders a location: name, description, items, characters and exits.
func (e *Engine) describe(loc *world.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", loc.Name)
	b.WriteString(loc.Description)
	if loc.LongDescription != "" {
		b.WriteString("\n")
		b.WriteString(loc.LongDescription)
	}
	if len(loc.Items) > 0 {
		names := make([]string, 0, len(loc.Items))
		for _, it := range loc.Items {
			names = append(names, it.Name)
		}
		b.WriteString("\n")
		b.WriteString(e.catalog.T("Items here: %s", strings.Join(names, ", ")))
	}
	if len(loc.NPCs) > 0 {
		names := make([]string, 0, len(loc.NPCs))
		for _, n := range loc.NPCs {
			names = append(names, n.Name)
		}
		b.WriteString("\n")
		b.WriteString(e.catalog.T("You see: %s", strings.Join(names, ", ")))
	}
	b.WriteString("\n")
	if len(loc.Exits) == 0 {
		b.WriteString(e.catalog.T("There are no exits."))
		return b.String()
	}
	exits := make([]string, 0, len(loc.Exits))
	for _, ex := range loc.Exits {
		label := ex.Direction
		if ex.Locked {
			label += " (" + e.catalog.T("locked") + ")"
		}
		exits = append(exits, label)
	}
	b.WriteString(e.catalog.T("Exits: %s", strings.Join(exits, ", ")))
	return b.String()
}

func (e *Engine) describeHere(t *turn) {
	e.emit(t, state.EntryResponse, e.describe(t.s.Location()))
}

func (e *Engine) handleLook(t *turn) {
	loc := t.s.Location()
	if h := t.s.horror; h != nil && h.IsDark {
		if t.noun == "" {
			e.say(t, state.EntryWarning, "It's too dark to see anything. You need light.")
		} else {
			e.say(t, state.EntryWarning, "It's too dark to examine anything.")
		}
		return
	}
	if t.noun == "" {
		e.describeHere(t)
		return
	}
	if i := loc.FindItem(t.noun); i >= 0 {
		e.emit(t, state.EntryResponse, loc.Items[i].Name+": "+loc.Items[i].Description)
		return
	}
	if i := t.s.State().FindInventory(t.noun); i >= 0 {
		it := t.s.State().Inventory[i]
		e.emit(t, state.EntryResponse, it.Name+": "+it.Description)
		return
	}
	for _, n := range loc.NPCs {
		if strings.Contains(strings.ToLower(n.Name), t.noun) {
			e.emit(t, state.EntryResponse, n.Name+": "+n.Description)
			for _, line := range n.Dialogue {
				e.emit(t, state.EntryResponse, "- "+line)
			}
			return
		}
	}
	e.say(t, state.EntryError, "There is no \"%s\" here.", t.noun)
}

func (e *Engine) handleTake(t *turn) {
	if t.noun == "" {
		e.say(t, state.EntryError, "What do you want to take?")
		return
	}
	loc := t.s.Location()
	h := t.s.horror
	if h != nil && h.IsDark && loc.Property(world.PropDarkExempt) != "true" {
		e.say(t, state.EntryError, "It's too dark to find anything here.")
		return
	}
	i := loc.FindItem(t.noun)
	if i < 0 {
		e.say(t, state.EntryError, "There is no \"%s\" here.", t.noun)
		return
	}
	if !loc.Items[i].Takeable {
		e.say(t, state.EntryError, "%s cannot be taken.", loc.Items[i].Name)
		return
	}
	it := loc.RemoveItemAt(i)
	g := t.s.State()
	g.Inventory = append(g.Inventory, it)
	e.say(t, state.EntrySuccess, "You took %s.", it.Name)

	if h != nil && strings.Contains(it.ID, flashlightID) && !h.HasLight {
		h.HasLight = true
		h.RecomputeDarkness()
		e.say(t, state.EntrySystem, "The flashlight clicks on. You can see now.")
	}
}

func (e *Engine) handleInventory(t *turn) {
	inv := t.s.State().Inventory
	if len(inv) == 0 {
		e.say(t, state.EntryResponse, "Your inventory is empty.")
		return
	}
	lines := []string{e.catalog.T("Inventory:")}
	for _, it := range inv {
		lines = append(lines, "- "+it.Name)
	}
	e.emit(t, state.EntryResponse, strings.Join(lines, "\n"))
}

// handleHistory lists earlier commands; the history command itself is not
// part of its own output.
func (e *Engine) handleHistory(t *turn) {
	hist := t.s.State().CommandHistory(e.cfg.HistorySize + 1)
	hist = hist[:len(hist)-1]
	if len(hist) == 0 {
		e.say(t, state.EntryResponse, "Your command history is empty.")
		return
	}
	lines := []string{e.catalog.T("Recent commands:")}
	for _, entry := range hist {
		lines = append(lines, "- "+entry.Text)
	}
	e.emit(t, state.EntryResponse, strings.Join(lines, "\n"))
}

// categoryTitles orders help sections.
var categoryTitles = []struct{ category, title string }{
	{command.CategoryMovement, "Movement"},
	{command.CategoryWorld, "World"},
	{command.CategorySurvival, "Survival"},
	{command.CategorySystem, "System"},
}

// Help renders the command reference for variant v.
func (e *Engine) Help(v Variant) string {
	byCat := e.registries[v].CommandsByCategory()
	lines := []string{e.catalog.T("Commands:")}
	for _, c := range categoryTitles {
		cmds := byCat[c.category]
		if len(cmds) == 0 {
			continue
		}
		lines = append(lines, "", e.catalog.Text(c.title))
		for _, cmd := range cmds {
			lines = append(lines, fmt.Sprintf("  %-24s %s", cmd.Usage, e.catalog.Text(cmd.Help)))
		}
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) handleHelp(t *turn) {
	e.emit(t, state.EntryResponse, e.Help(t.s.variant))
	t.showHelp = t.s.variant == Castle
}

func (e *Engine) handleReset(t *turn) {
	fresh := e.NewSession(t.s.variant)
	t.s.world = fresh.world
	t.s.castle = fresh.castle
	t.s.horror = fresh.horror
	t.s.rng = fresh.rng
	t.reset = true
	t.logger.Info("session reset")

	e.say(t, state.EntrySystem, "A new game begins.")
	e.describeHere(t)
}

func (e *Engine) handleMap(t *turn) {
	e.emit(t, state.EntryResponse, mapview.Render(mapview.Build(t.s.world, t.s.State())))
}

func (e *Engine) handleBack(t *turn) {
	g := t.s.State()
	if g.PreviousLocationID == "" {
		e.say(t, state.EntryError, "There is nowhere to go back to.")
		return
	}
	from := g.CurrentLocationID
	g.CurrentLocationID, g.PreviousLocationID = g.PreviousLocationID, from
	if t.s.variant == Castle {
		g.Discover(from, g.CurrentLocationID)
	}
	g.Turn++
	t.logger.Debug("moved back", zap.String("from", from), zap.String("to", g.CurrentLocationID))
	e.describeHere(t)
	e.ambience(t, false)
}

// ambience emits the world script's line for the location just entered.
func (e *Engine) ambience(t *turn, firstVisit bool) {
	if e.scripts == nil {
		return
	}
	g := t.s.State()
	if line, ok := e.scripts.OnEnter(t.s.world.ID, g.CurrentLocationID, g.Turn, firstVisit); ok {
		e.emit(t, state.EntrySystem, line)
	}
}
