// Package engine is the command interpreter for both game variants. It turns
// one line of player input into state changes and log entries.
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/game/command"
	"github.com/cory-johannsen/whatif/internal/game/dice"
	"github.com/cory-johannsen/whatif/internal/game/ending"
	"github.com/cory-johannsen/whatif/internal/game/locale"
	"github.com/cory-johannsen/whatif/internal/game/narrate"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/observability"
	"github.com/cory-johannsen/whatif/internal/scripting"
)

// Result is what one command produced.
type Result struct {
	// Entries are the log entries appended by this command, in order.
	Entries []state.LogEntry
	// Ending is set when the session is over, including on later blocked commands.
	Ending ending.Ending
	// ShowHelp asks the frontend to open its help view.
	ShowHelp bool
	// Reset reports that the session was replaced by a new game.
	Reset bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source for log entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNarrator enables free-action narration for the horror variant.
func WithNarrator(n *narrate.Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithScripts enables Lua ambience hooks.
func WithScripts(m *scripting.Manager) Option {
	return func(e *Engine) { e.scripts = m }
}

type handlerFunc func(t *turn)

// Engine interprets commands. It holds no per-session state and is safe for
// concurrent use across sessions.
type Engine struct {
	cfg      config.GameConfig
	catalog  *locale.Catalog
	logger   *zap.Logger
	narrator *narrate.Narrator
	scripts  *scripting.Manager
	now      func() time.Time

	registries map[Variant]*command.Registry
	handlers   map[Variant]map[string]handlerFunc
}

// New creates an Engine.
//
// Precondition: catalog and logger must be non-nil.
func New(cfg config.GameConfig, catalog *locale.Catalog, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
		registries: map[Variant]*command.Registry{
			Castle: command.CastleRegistry(),
			Horror: command.HorrorRegistry(),
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	shared := map[string]handlerFunc{
		command.HandlerLook:      e.handleLook,
		command.HandlerMove:      e.handleMove,
		command.HandlerTake:      e.handleTake,
		command.HandlerInventory: e.handleInventory,
		command.HandlerBack:      e.handleBack,
		command.HandlerHistory:   e.handleHistory,
		command.HandlerHelp:      e.handleHelp,
		command.HandlerReset:     e.handleReset,
		command.HandlerMap:       e.handleMap,
	}
	horror := map[string]handlerFunc{
		command.HandlerSleep: e.handleSleep,
		command.HandlerLight: e.handleLight,
		command.HandlerMix:   e.handleMix,
		command.HandlerCook:  e.handleCook,
		command.HandlerUse:   e.handleUse,
		command.HandlerJump:  e.handleJump,
	}
	for k, v := range shared {
		horror[k] = v
	}
	e.handlers = map[Variant]map[string]handlerFunc{Castle: shared, Horror: horror}
	return e
}

// Registry returns the command vocabulary of variant v.
func (e *Engine) Registry(v Variant) *command.Registry {
	return e.registries[v]
}

// Catalog returns the message catalog.
func (e *Engine) Catalog() *locale.Catalog {
	return e.catalog
}

// NewSession starts a fresh game of variant v.
//
// Postcondition: The player stands at the world's start location on turn 0.
func (e *Engine) NewSession(v Variant) *Session {
	seed := e.cfg.Seed
	if seed == 0 {
		seed = dice.NewSeed()
	}
	return newSession(v, seed)
}

// Intro returns the opening description of the session's current location
// and records it in the log.
func (e *Engine) Intro(s *Session) []state.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := e.newTurn(context.Background(), s, nil, command.ParseResult{})
	e.describeHere(t)
	return t.out
}

// turn carries one command's context through its handler.
type turn struct {
	ctx    context.Context
	s      *Session
	cmd    *command.Command
	verb   string
	noun   string
	line   string
	logger *zap.Logger

	out      []state.LogEntry
	showHelp bool
	reset    bool
}

func (e *Engine) newTurn(ctx context.Context, s *Session, cmd *command.Command, p command.ParseResult) *turn {
	return &turn{
		ctx:  ctx,
		s:    s,
		cmd:  cmd,
		verb: p.Verb,
		noun: p.Noun,
		line: strings.TrimSpace(strings.Join(append([]string{p.Verb}, p.Args...), " ")),
		logger: observability.TurnLogger(e.logger, string(s.variant), s.State().CurrentLocationID, p.Verb),
	}
}

// emit appends an entry to the session log and the turn output. Once the
// game is over only ending entries are recorded.
func (e *Engine) emit(t *turn, typ state.EntryType, text string) {
	if t.s.Over() && typ != state.EntryEnding {
		return
	}
	entry := t.s.State().Append(typ, text, e.now().UnixMilli())
	t.out = append(t.out, entry)
}

// say emits a translated message.
func (e *Engine) say(t *turn, typ state.EntryType, msgid string, vars ...any) {
	e.emit(t, typ, e.catalog.T(msgid, vars...))
}

// Execute interprets one line of player input.
//
// Postcondition: Empty input changes nothing. After an ending only the reset
// command changes state; other input is ignored without output.
func (e *Engine) Execute(ctx context.Context, s *Session, line string) Result {
	p := command.Parse(line)
	if p.Empty() {
		return Result{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, known := e.registries[s.variant].Resolve(p.Verb)
	if s.Over() && !(known && cmd.Handler == command.HandlerReset) {
		return Result{Ending: s.horror.Ending}
	}

	t := e.newTurn(ctx, s, cmd, p)
	e.emit(t, state.EntryCommand, strings.TrimSpace(line))

	turnBefore := s.State().Turn
	switch {
	case known:
		e.handlers[s.variant][cmd.Handler](t)
	default:
		e.handleUnknown(t)
	}
	if !t.reset && s.State().Turn > turnBefore {
		e.tick(t)
	}

	res := Result{Entries: t.out, ShowHelp: t.showHelp, Reset: t.reset}
	if s.horror != nil {
		s.horror.RNGDraws = s.rng.Draws()
		res.Ending = s.horror.Ending
	}
	return res
}

// handleUnknown treats a bare exit label as movement, then falls back to
// narration (horror) or an error (castle).
func (e *Engine) handleUnknown(t *turn) {
	loc := t.s.Location()
	if _, ok := loc.FindExit(command.ExpandDirection(t.verb)); ok {
		e.move(t, command.ExpandDirection(t.verb))
		return
	}
	if t.s.variant == Castle {
		e.say(t, state.EntryError, "Unknown command. Type \"помощь\" for a list of commands.")
		return
	}
	e.narrate(t)
}

func (e *Engine) narrate(t *turn) {
	if e.narrator != nil {
		loc := t.s.Location()
		h := t.s.horror
		inv := make([]string, 0, len(h.Inventory))
		for _, it := range h.Inventory {
			inv = append(inv, it.Name)
		}
		text, ok := e.narrator.Narrate(t.ctx, narrate.FreeAction{
			Location:            loc.Name,
			LocationDescription: loc.Description,
			Inventory:           inv,
			IsDaytime:           h.IsDaytime,
			Action:              t.line,
		})
		if ok {
			e.emit(t, state.EntryResponse, text)
			return
		}
	}
	e.say(t, state.EntryResponse, "Nothing happens. The house stays silent.")
}

// enterEnding moves the horror session into a terminal outcome and emits
// its screen.
func (e *Engine) enterEnding(t *turn, end ending.Ending) {
	if err := t.s.horror.Enter(end); err != nil {
		t.logger.Error("entering ending", zap.String("ending", string(end)), zap.Error(err))
		return
	}
	t.logger.Info("game over", zap.String("ending", string(end)), zap.Int("turn", t.s.horror.Turn))
	screen := ending.ScreenFor(end)
	e.emit(t, state.EntryEnding, screen.Title+"\n\n"+screen.Text)
}
