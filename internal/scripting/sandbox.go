// Package scripting runs per-world ambience scripts in sandboxed GopherLua
// states. Hooks receive plain values and return at most one line of text.
// Scripts must be deterministic: the random functions are removed along
// with file and loader access.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one hook call when no
// limit is configured.
const DefaultInstructionLimit = 100_000

// ErrBudgetExceeded is returned when a script runs out of instructions.
var ErrBudgetExceeded = errors.New("script instruction budget exceeded")

var (
	openers = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

	removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "print"}

	removedMath = []string{"random", "randomseed"}
)

// opBudget cancels itself after a fixed number of Done calls. GopherLua
// polls Done once per opcode while a context is set.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func newOpBudget(limit int) *opBudget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	return b
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// NewSandboxedState creates an LState with only the base, table, string
// and math libraries, minus loaders, printing and randomness.
//
// Postcondition: The caller owns the LState and must Close it.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range openers {
		open(L)
	}
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if math, ok := L.GetGlobal("math").(*lua.LTable); ok {
		for _, name := range removedMath {
			L.SetField(math, name, lua.LNil)
		}
	}
	return L
}

// Run executes fn with a budget of limit opcodes.
//
// Precondition: limit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: L carries no context after Run returns. Running out of
// budget yields an error wrapping ErrBudgetExceeded.
func Run(L *lua.LState, limit int, fn func() error) error {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	b := newOpBudget(limit)
	defer b.cancel()
	L.SetContext(b)
	defer L.RemoveContext()

	err := fn()
	if err != nil && b.Err() != nil {
		return fmt.Errorf("%w after %d instructions: %v", ErrBudgetExceeded, limit, err)
	}
	return err
}
