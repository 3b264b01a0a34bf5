package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/frontend/telnet"
	"github.com/cory-johannsen/whatif/internal/game/ending"
	"github.com/cory-johannsen/whatif/internal/game/engine"
	"github.com/cory-johannsen/whatif/internal/game/locale"
	"github.com/cory-johannsen/whatif/internal/game/session"
	"github.com/cory-johannsen/whatif/internal/storage"
	"github.com/cory-johannsen/whatif/internal/storage/file"
	"github.com/cory-johannsen/whatif/internal/testutil"
)

const wait = 2 * time.Second

type fixture struct {
	engine *engine.Engine
	store  storage.Store
	slots  *session.Manager
	addr   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	eng := engine.New(config.GameConfig{
		Locale:        locale.English,
		Seed:          7,
		DaylightTurns: 8,
		PigSleepTurns: 12,
		HistorySize:   10,
	}, locale.MustNew(locale.English), logger)
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	slots := session.NewManager()

	h := NewGameHandler(eng, store, slots, logger, WithKeyGenerator(func() string { return "fresh-slot" }))
	acc := telnet.NewAcceptor(config.TelnetConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}, h, logger)
	go func() { _ = acc.ListenAndServe() }()
	require.Eventually(t, func() bool { return acc.Addr() != "" }, wait, 10*time.Millisecond)
	t.Cleanup(acc.Stop)

	return &fixture{engine: eng, store: store, slots: slots, addr: acc.Addr()}
}

func TestGameHandler_NewCastleGameIsSavedOnQuit(t *testing.T) {
	f := newFixture(t)
	c := testutil.NewTelnetClient(t, f.addr)

	c.ReadUntil("Save slot", wait)
	c.Send("")
	c.ReadUntil("Choose a game", wait)
	c.Send("1")
	c.ReadUntil("Your save slot is fresh-slot", wait)
	c.ReadUntil("Exits:", wait)

	c.Send("инвентарь")
	c.ReadUntil("Your inventory is empty.", wait)
	c.Send("выход")
	c.ReadUntil("Goodbye.", wait)

	sv, err := f.store.Load(context.Background(), "fresh-slot")
	require.NoError(t, err)
	assert.Equal(t, string(engine.Castle), sv.Variant)
	require.Eventually(t, func() bool { return f.slots.Count() == 0 }, wait, 10*time.Millisecond)
}

func TestGameHandler_InvalidChoiceReprompts(t *testing.T) {
	f := newFixture(t)
	c := testutil.NewTelnetClient(t, f.addr)

	c.ReadUntil("Save slot", wait)
	c.Send("")
	c.ReadUntil("Choose a game", wait)
	c.Send("3")
	c.ReadUntil("Choose a game", wait)
	c.Send("horror")
	c.ReadUntil("Exits:", wait)

	_, ok := f.slots.Get("fresh-slot")
	assert.True(t, ok)
}

func TestGameHandler_ResumesSavedGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	game := f.engine.NewSession(engine.Horror)
	f.engine.Execute(ctx, game, "осмотреться")
	require.NoError(t, f.engine.Save(ctx, f.store, "slot-1", game))

	c := testutil.NewTelnetClient(t, f.addr)
	c.ReadUntil("Save slot", wait)
	c.Send("slot-1")
	c.ReadUntil("Welcome back.", wait)
	c.ReadUntil("Exits:", wait)

	s, ok := f.slots.Get("slot-1")
	require.True(t, ok)
	assert.Equal(t, engine.Horror, s.Game.Variant())
}

func TestGameHandler_MissingSaveStartsNewGameUnderThatKey(t *testing.T) {
	f := newFixture(t)
	c := testutil.NewTelnetClient(t, f.addr)

	c.ReadUntil("Save slot", wait)
	c.Send("lost")
	c.ReadUntil("No save found under lost", wait)
	c.Send("2")
	c.ReadUntil("Your save slot is lost", wait)
	c.ReadUntil("Exits:", wait)
}

func TestGameHandler_ClaimedSlotIsRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	game := f.engine.NewSession(engine.Castle)
	require.NoError(t, f.engine.Save(ctx, f.store, "busy", game))
	_, err := f.slots.Claim("busy", "other-conn", "10.0.0.1:1", game)
	require.NoError(t, err)

	c := testutil.NewTelnetClient(t, f.addr)
	c.ReadUntil("Save slot", wait)
	c.Send("busy")
	c.ReadUntil("already being played", wait)

	s, _ := f.slots.Get("busy")
	assert.Equal(t, "other-conn", s.ConnID)
}

func TestGameHandler_FinishedGameShowsRestartHint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	game := f.engine.NewSession(engine.Horror)
	require.NoError(t, game.Horror().Enter(ending.CaughtManiac))
	require.NoError(t, f.engine.Save(ctx, f.store, "over", game))

	c := testutil.NewTelnetClient(t, f.addr)
	c.ReadUntil("Save slot", wait)
	c.Send("over")
	c.ReadUntil("The end.", wait)

	c.Send("осмотреться")
	c.ReadUntil("The end.", wait)

	c.Send("сброс")
	c.ReadUntil("A new game begins.", wait)
}
