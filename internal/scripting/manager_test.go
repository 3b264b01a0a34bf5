package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/whatif/internal/game/world"
	"github.com/cory-johannsen/whatif/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(0, zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func TestManager_LoadSource_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadSource("w", `
		function test_hook(a, b)
			return a + b
		end
	`))
	ret, err := mgr.CallHook("w", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_LoadSource_SyntaxError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadSource("w", `function (`))
}

func TestManager_LoadDir_OrderAndOverride(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`function v() return "a" end`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`function v() return "b" end`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0644))

	require.NoError(t, mgr.LoadDir("w", dir))
	ret, err := mgr.CallHook("w", "v")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("b"), ret)

	assert.Error(t, mgr.LoadDir("w", filepath.Join(dir, "missing")))
}

func TestManager_CallHook_MissingHookOrWorld(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadSource("w", `-- no functions`))

	ret, err := mgr.CallHook("w", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	ret, err = mgr.CallHook("no_such_world", "on_enter")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.LoadSource("w", `
		function bad_hook()
			error("intentional error")
		end
	`))
	ret, err := mgr.CallHook("w", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_CallHook_RunawayHookDoesNotKillVM(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(500, zap.New(core))
	defer mgr.Close()
	require.NoError(t, mgr.LoadSource("w", `
		function spin() while true do end end
		function ok() return 1 end
	`))
	ret, err := mgr.CallHook("w", "spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	ret, err = mgr.CallHook("w", "ok")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(1), ret)
}

func TestManager_OnEnter_HorrorAmbience(t *testing.T) {
	mgr, _ := newTestManager(t)
	src, ok := world.Script(world.HorrorID)
	require.True(t, ok)
	require.NoError(t, mgr.LoadSource(world.HorrorID, src))

	line, ok := mgr.OnEnter(world.HorrorID, "first-floor-hall", 2, true)
	assert.True(t, ok)
	assert.NotEmpty(t, line)

	_, ok = mgr.OnEnter(world.HorrorID, "first-floor-hall", 3, true)
	assert.False(t, ok, "odd turns are silent")

	_, ok = mgr.OnEnter(world.HorrorID, "bedroom", 2, true)
	assert.False(t, ok)
}

func TestManager_OnEnter_CastleFirstVisitOnly(t *testing.T) {
	mgr, logs := newTestManager(t)
	src, ok := world.Script(world.CastleID)
	require.True(t, ok)
	require.NoError(t, mgr.LoadSource(world.CastleID, src))

	line, ok := mgr.OnEnter(world.CastleID, "library", 4, true)
	assert.True(t, ok)
	assert.Contains(t, line, "Страницы")
	assert.Equal(t, 1, logs.FilterMessage("lua").Len())

	_, ok = mgr.OnEnter(world.CastleID, "library", 9, false)
	assert.False(t, ok)
}

func TestManager_ConcurrentCalls(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadSource("w", `function inc(x) return x + 1 end`))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ret, err := mgr.CallHook("w", "inc", lua.LNumber(i))
			assert.NoError(t, err)
			assert.Equal(t, lua.LNumber(i+1), ret)
		}(i)
	}
	wg.Wait()
}
