package engine

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/game/dice"
	"github.com/cory-johannsen/whatif/internal/game/locale"
	"github.com/cory-johannsen/whatif/internal/game/state"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() config.GameConfig {
	return config.GameConfig{
		Locale:        locale.English,
		Seed:          42,
		DaylightTurns: 8,
		PigSleepTurns: 12,
		HistorySize:   10,
	}
}

func newTestEngine(t testing.TB, cfg config.GameConfig, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(cfg, locale.MustNew(locale.English), zaptest.NewLogger(t), opts...)
}

// run executes each line in order and returns the last result.
func run(e *Engine, s *Session, lines ...string) Result {
	var res Result
	for _, l := range lines {
		res = e.Execute(context.Background(), s, l)
	}
	return res
}

// texts returns the text of every entry of type typ.
func texts(entries []state.LogEntry, typ state.EntryType) []string {
	var out []string
	for _, e := range entries {
		if e.Type == typ {
			out = append(out, e.Text)
		}
	}
	return out
}

// teleport places the player at id without advancing the turn.
func teleport(s *Session, id string) {
	s.State().CurrentLocationID = id
	s.State().Visit(id)
}

// give moves the world item with the given ID into the player's inventory.
func give(t testing.TB, s *Session, itemID string) {
	t.Helper()
	for _, loc := range s.world.Locations {
		for i, it := range loc.Items {
			if it.ID == itemID {
				s.State().Inventory = append(s.State().Inventory, loc.RemoveItemAt(i))
				return
			}
		}
	}
	t.Fatalf("item %q not found in world", itemID)
}

// seedWhereFirstRoll finds a seed whose first 1d100 roll satisfies pred.
func seedWhereFirstRoll(t testing.TB, pred func(roll int) bool) int64 {
	t.Helper()
	for seed := int64(1); seed < 10000; seed++ {
		if pred(dice.NewSeeded(seed).Intn(100) + 1) {
			return seed
		}
	}
	t.Fatal("no seed found")
	return 0
}
