package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// HookOnEnter is called after a successful move as
// on_enter(location_id, turn, first_visit).
// A string return value becomes one extra system line.
const HookOnEnter = "on_enter"

type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed LState per world and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same world are
// serialized; different worlds run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with no worlds loaded.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	return &Manager{
		vms:    make(map[string]*vm),
		limit:  instLimit,
		logger: logger,
	}
}

// LoadSource creates a VM for worldID and executes each source chunk in order.
//
// Precondition: worldID must be non-empty.
// Postcondition: The world VM is registered, replacing any previous one;
// returns error on Lua load failure.
func (m *Manager) LoadSource(worldID string, chunks ...string) error {
	L := NewSandboxedState()
	m.registerModules(L, worldID)
	for i, src := range chunks {
		err := Run(L, m.limit, func() error { return L.DoString(src) })
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading chunk %d for %q: %w", i, worldID, err)
		}
	}
	m.install(worldID, L)
	return nil
}

// LoadDir creates a VM for worldID from every *.lua file in dir, in
// lexicographic order.
//
// Precondition: dir must be a readable directory.
func (m *Manager) LoadDir(worldID, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", dir, worldID, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	chunks := make([]string, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("scripting: reading %q: %w", path, err)
		}
		chunks = append(chunks, string(data))
	}
	return m.LoadSource(worldID, chunks...)
}

func (m *Manager) install(worldID string, L *lua.LState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.vms[worldID]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[worldID] = &vm{L: L}
}

// registerModules exposes the game.* table: game.world and game.log(msg).
func (m *Manager) registerModules(L *lua.LState, worldID string) {
	game := L.NewTable()
	L.SetField(game, "world", lua.LString(worldID))
	L.SetField(game, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua", zap.String("world", worldID), zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("game", game)
}

// CallHook calls the named Lua global function in worldID's VM. Returns
// (LNil, nil) if the hook is not defined or no VM exists. Lua runtime errors
// are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(worldID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[worldID]
	m.mu.RUnlock()
	if !ok {
		m.logger.Debug("scripting: no VM for world",
			zap.String("world", worldID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := Run(v.L, m.limit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("world", worldID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// OnEnter runs the ambience hook for a location.
//
// Postcondition: Returns (line, true) only when the hook returned a non-empty string.
func (m *Manager) OnEnter(worldID, locationID string, turn int, firstVisit bool) (string, bool) {
	ret, _ := m.CallHook(worldID, HookOnEnter, lua.LString(locationID), lua.LNumber(turn), lua.LBool(firstVisit))
	s, ok := ret.(lua.LString)
	if !ok || s == "" {
		return "", false
	}
	return string(s), true
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, id)
	}
}
