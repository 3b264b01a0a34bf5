package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/game/world"
	"github.com/cory-johannsen/whatif/internal/scripting"
)

func newCastle(t *testing.T, opts ...Option) (*Engine, *Session) {
	t.Helper()
	e := newTestEngine(t, testConfig(), opts...)
	return e, e.NewSession(Castle)
}

func TestExecute_EmptyInputIsNoop(t *testing.T) {
	e, s := newCastle(t)
	for _, line := range []string{"", "   ", "\t"} {
		res := e.Execute(t.Context(), s, line)
		assert.Empty(t, res.Entries)
	}
	assert.Empty(t, s.State().GameLog)
	assert.Equal(t, 0, s.State().Turn)
}

func TestCastle_MoveForward(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "вперед")

	g := s.State()
	assert.Equal(t, "castle-hall", g.CurrentLocationID)
	assert.Equal(t, "castle-entrance", g.PreviousLocationID)
	assert.Equal(t, 1, g.Turn)
	assert.Contains(t, g.VisitedLocations, "castle-hall")
	assert.Equal(t, []state.Connection{{"castle-entrance", "castle-hall"}}, g.DiscoveredConnections)
	assert.True(t, s.Location().Visited)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, state.EntryCommand, res.Entries[0].Type)
	assert.Equal(t, "вперед", res.Entries[0].Text)
	assert.Equal(t, testNow.UnixMilli(), res.Entries[0].Timestamp)
	assert.Equal(t, state.EntryResponse, res.Entries[1].Type)
	assert.Contains(t, res.Entries[1].Text, "Главный зал")
	assert.Contains(t, res.Entries[1].Text, "Exits: юг, север, восток, запад, вверх, вниз")
}

func TestCastle_AbbreviationsAndGo(t *testing.T) {
	e, s := newCastle(t)
	run(e, s, "вперед", "с")
	assert.Equal(t, "library", s.State().CurrentLocationID)
	run(e, s, "идти ю")
	assert.Equal(t, "castle-hall", s.State().CurrentLocationID)
	run(e, s, "go за")
	assert.Equal(t, "castle-kitchen", s.State().CurrentLocationID, "prefix of запад")
	assert.Equal(t, 4, s.State().Turn, "one turn per move")
}

func TestCastle_NoSuchExit(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "идти небо")
	assert.Equal(t, []string{`You can't go "небо" from here.`}, texts(res.Entries, state.EntryError))
	assert.Equal(t, "castle-entrance", s.State().CurrentLocationID)
	assert.Equal(t, 0, s.State().Turn)

	res = run(e, s, "идти")
	assert.Equal(t, []string{"Where do you want to go?"}, texts(res.Entries, state.EntryError))
}

func TestCastle_LockedDoorWithoutKey(t *testing.T) {
	e, s := newCastle(t)
	run(e, s, "вперед", "север")
	res := run(e, s, "идти дверь")

	assert.Equal(t, []string{"It's locked. You need a key."}, texts(res.Entries, state.EntryError))
	assert.Equal(t, "library", s.State().CurrentLocationID)
	assert.Equal(t, 2, s.State().Turn)
	i, ok := s.Location().FindExit("дверь")
	require.True(t, ok)
	assert.True(t, s.Location().Exits[i].Locked)
}

func TestCastle_UnlockWithKey(t *testing.T) {
	e, s := newCastle(t)
	run(e, s, "вперед", "восток", "взять ключ", "запад", "север")
	res := run(e, s, "дверь")

	assert.Equal(t, []string{"Unlocked with ключ."}, texts(res.Entries, state.EntrySuccess))
	assert.Equal(t, "treasury", s.State().CurrentLocationID)
	library, _ := s.World().Location("library")
	i, _ := library.FindExit("дверь")
	assert.False(t, library.Exits[i].Locked)

	res = run(e, s, "дверь")
	assert.Empty(t, texts(res.Entries, state.EntrySuccess), "exit stays unlocked")
	assert.Equal(t, "library", s.State().CurrentLocationID)
}

func TestCastle_Take(t *testing.T) {
	e, s := newCastle(t)

	res := run(e, s, "взять факел")
	assert.Equal(t, []string{"You took факел."}, texts(res.Entries, state.EntrySuccess))
	require.Len(t, s.State().Inventory, 1)
	assert.Equal(t, "torch", s.State().Inventory[0].ID)
	assert.Equal(t, -1, s.Location().FindItem("факел"))

	res = run(e, s, "взять факел")
	assert.Equal(t, []string{`There is no "факел" here.`}, texts(res.Entries, state.EntryError))

	res = run(e, s, "взять")
	assert.Equal(t, []string{"What do you want to take?"}, texts(res.Entries, state.EntryError))

	res = run(e, s, "вперед", "взять гобелен")
	assert.Equal(t, []string{"гобелен cannot be taken."}, texts(res.Entries, state.EntryError))
	assert.GreaterOrEqual(t, s.Location().FindItem("гобелен"), 0)
	assert.Len(t, s.State().Inventory, 1)
}

func TestCastle_Inventory(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "инвентарь")
	assert.Equal(t, []string{"Your inventory is empty."}, texts(res.Entries, state.EntryResponse))

	res = run(e, s, "взять факел", "i")
	assert.Equal(t, []string{"Inventory:\n- факел"}, texts(res.Entries, state.EntryResponse))
}

func TestCastle_Back(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "назад")
	assert.Equal(t, []string{"There is nowhere to go back to."}, texts(res.Entries, state.EntryError))

	run(e, s, "вперед", "назад")
	g := s.State()
	assert.Equal(t, "castle-entrance", g.CurrentLocationID)
	assert.Equal(t, "castle-hall", g.PreviousLocationID)
	assert.Equal(t, 2, g.Turn)
	assert.Contains(t, g.DiscoveredConnections, state.Connection{"castle-hall", "castle-entrance"})

	run(e, s, "назад")
	assert.Equal(t, "castle-hall", g.CurrentLocationID)
	assert.Len(t, g.DiscoveredConnections, 2)
}

func TestCastle_LookIsIdempotent(t *testing.T) {
	e, s := newCastle(t)
	run(e, s, "вперед", "север")
	first := run(e, s, "осмотреться")
	second := run(e, s, "look")

	require.Len(t, first.Entries, 2)
	require.Len(t, second.Entries, 2)
	assert.Equal(t, first.Entries[1].Text, second.Entries[1].Text)
	assert.Contains(t, first.Entries[1].Text, "Items here: старая книга, свеча")
	assert.Contains(t, first.Entries[1].Text, "You see: призрак библиотекаря")
	assert.Contains(t, first.Entries[1].Text, "дверь (locked)")
	assert.Equal(t, 2, s.State().Turn)
}

func TestCastle_LookAtThings(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "осмотреть факел")
	require.Len(t, texts(res.Entries, state.EntryResponse), 1)
	assert.Contains(t, texts(res.Entries, state.EntryResponse)[0], "факел: ")

	res = run(e, s, "вперед", "север", "осмотреть призрак")
	assert.Contains(t, texts(res.Entries, state.EntryResponse)[0], "призрак библиотекаря: ")

	res = run(e, s, "осмотреть дракона")
	assert.Equal(t, []string{`There is no "дракона" here.`}, texts(res.Entries, state.EntryError))
}

func TestCastle_UnknownVerb(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "танцевать вальс")
	assert.Equal(t, []string{`Unknown command. Type "помощь" for a list of commands.`}, texts(res.Entries, state.EntryError))
	assert.Equal(t, 0, s.State().Turn)
}

func TestCastle_Help(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "помощь")
	assert.True(t, res.ShowHelp)
	help := texts(res.Entries, state.EntryResponse)
	require.Len(t, help, 1)
	assert.Contains(t, help[0], "Movement")
	assert.Contains(t, help[0], "осмотреться [предмет]")
	assert.NotContains(t, help[0], "Survival")

	assert.Contains(t, e.Help(Horror), "Survival")
}

func TestCastle_History(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "история")
	assert.Equal(t, []string{"Your command history is empty."}, texts(res.Entries, state.EntryResponse))

	res = run(e, s, "вперед", "осмотреться", "история")
	assert.Equal(t, []string{"Recent commands:\n- история\n- вперед\n- осмотреться"}, texts(res.Entries, state.EntryResponse))
}

func TestCastle_HistoryKeepsLastEntries(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 2
	e := newTestEngine(t, cfg)
	s := e.NewSession(Castle)
	res := run(e, s, "вперед", "осмотреться", "инвентарь", "история")
	assert.Equal(t, []string{"Recent commands:\n- осмотреться\n- инвентарь"}, texts(res.Entries, state.EntryResponse))
}

func TestCastle_Map(t *testing.T) {
	e, s := newCastle(t)
	res := run(e, s, "вперед", "карта")
	m := texts(res.Entries, state.EntryResponse)
	require.Len(t, m, 1)
	assert.Contains(t, m[0], "[x] Вход в замок")
	assert.Contains(t, m[0], "[@] Главный зал")
}

func TestCastle_Reset(t *testing.T) {
	e, s := newCastle(t)
	run(e, s, "взять факел", "вперед", "север")
	res := run(e, s, "сброс")

	assert.True(t, res.Reset)
	g := s.State()
	assert.Equal(t, "castle-entrance", g.CurrentLocationID)
	assert.Equal(t, 0, g.Turn)
	assert.Empty(t, g.Inventory)
	assert.GreaterOrEqual(t, s.Location().FindItem("факел"), 0)
	require.Len(t, g.GameLog, 2)
	assert.Equal(t, "A new game begins.", g.GameLog[0].Text)
}

func TestCastle_IndependentSessions(t *testing.T) {
	e, a := newCastle(t)
	b := e.NewSession(Castle)
	run(e, a, "взять факел")
	assert.GreaterOrEqual(t, b.Location().FindItem("факел"), 0)
}

func TestCastle_AmbienceOnFirstVisit(t *testing.T) {
	mgr := scripting.NewManager(10000, zaptest.NewLogger(t))
	t.Cleanup(mgr.Close)
	src, ok := world.Script(world.CastleID)
	require.True(t, ok)
	require.NoError(t, mgr.LoadSource(world.CastleID, src))

	e, s := newCastle(t, WithScripts(mgr))
	res := run(e, s, "вперед")
	assert.Equal(t, []string{"Ваши шаги гулко разносятся под сводами."}, texts(res.Entries, state.EntrySystem))

	res = run(e, s, "назад", "вперед")
	assert.Empty(t, texts(res.Entries, state.EntrySystem))
}

func TestIntro(t *testing.T) {
	e, s := newCastle(t)
	entries := e.Intro(s)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Text, "Вход в замок")
	assert.Len(t, s.State().GameLog, 1)
}
