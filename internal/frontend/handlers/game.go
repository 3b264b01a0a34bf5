// Package handlers runs the adventure over a Telnet connection.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/frontend/telnet"
	"github.com/cory-johannsen/whatif/internal/game/engine"
	"github.com/cory-johannsen/whatif/internal/game/session"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/observability"
	"github.com/cory-johannsen/whatif/internal/storage"
)

const banner = `
  Ч Т О   Е С Л И . . .
`

// quitWords end the connection; the game is saved first.
var quitWords = map[string]bool{"выход": true, "выйти": true, "quit": true, "exit": true}

// variantChoices maps answers to the game prompt onto variants.
var variantChoices = map[string]engine.Variant{
	"1": engine.Castle, "замок": engine.Castle, "castle": engine.Castle,
	"2": engine.Horror, "дом": engine.Horror, "ужас": engine.Horror, "horror": engine.Horror,
}

// Option customises a GameHandler.
type Option func(*GameHandler)

// WithKeyGenerator overrides how new save slot keys are minted.
func WithKeyGenerator(fn func() string) Option {
	return func(h *GameHandler) { h.newKey = fn }
}

// GameHandler implements telnet.SessionHandler: it resumes or starts a game,
// then feeds each input line to the engine and saves after every command.
type GameHandler struct {
	engine *engine.Engine
	store  storage.Store
	slots  *session.Manager
	logger *zap.Logger
	newKey func() string
}

// NewGameHandler creates a GameHandler.
//
// Precondition: all arguments must be non-nil.
func NewGameHandler(eng *engine.Engine, store storage.Store, slots *session.Manager, logger *zap.Logger, opts ...Option) *GameHandler {
	h := &GameHandler{
		engine: eng,
		store:  store,
		slots:  slots,
		logger: logger,
		newKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *GameHandler) t(msgid string, vars ...any) string {
	return h.engine.Catalog().T(msgid, vars...)
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: Returns nil when the player quits, ctx.Err() on server
// shutdown, or the I/O error that ended the connection.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	if err := conn.WriteText(telnet.Paint(banner, telnet.Bold, telnet.Cyan)); err != nil {
		return fmt.Errorf("sending banner: %w", err)
	}

	key, game, err := h.open(ctx, conn)
	if err != nil {
		return err
	}

	logger := observability.SessionLogger(h.logger, key, string(game.Variant())).
		With(zap.String("conn", conn.ID()))
	if _, err := h.slots.Claim(key, conn.ID(), conn.RemoteAddr().String(), game); err != nil {
		if errors.Is(err, session.ErrSlotInUse) {
			logger.Info("save slot already claimed")
			return conn.WriteText(telnet.Paint(h.t("That save is already being played from another connection."), telnet.Yellow))
		}
		return err
	}
	defer h.slots.Release(key, conn.ID())
	logger.Info("game started")

	if err := h.show(conn, game, h.engine.Intro(game)); err != nil {
		return err
	}

	for {
		if err := conn.Prompt(telnet.Paint("> ", telnet.Bold)); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if err != nil {
			h.save(ctx, key, game)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if ctx.Err() != nil {
			h.save(ctx, key, game)
			_ = conn.WriteText(telnet.Paint(h.t("Server shutting down. Goodbye."), telnet.Yellow))
			return ctx.Err()
		}

		if quitWords[strings.ToLower(strings.TrimSpace(line))] {
			h.save(ctx, key, game)
			logger.Info("player quit",
				zap.Int("turn", game.State().Turn),
				zap.Duration("duration", time.Since(start)),
			)
			return conn.WriteText(h.t("Goodbye."))
		}

		res := h.engine.Execute(ctx, game, line)
		if len(res.Entries) == 0 && !game.Over() {
			continue
		}
		if err := h.show(conn, game, res.Entries); err != nil {
			return err
		}
		if len(res.Entries) > 0 {
			h.save(ctx, key, game)
		}
	}
}

// open asks for a save slot and returns its key with a restored or new game.
func (h *GameHandler) open(ctx context.Context, conn *telnet.Conn) (string, *engine.Session, error) {
	key, err := conn.Ask(h.t("Save slot (empty for a new game): "))
	if err != nil {
		return "", nil, fmt.Errorf("reading save slot: %w", err)
	}
	if key != "" {
		if game, ok := h.engine.Load(ctx, h.store, key); ok {
			return key, game, conn.WriteText(telnet.Paint(h.t("Welcome back."), telnet.Green))
		}
		if err := conn.WriteText(h.t("No save found under %s. Starting a new game.", key)); err != nil {
			return "", nil, err
		}
	} else {
		key = h.newKey()
	}

	v, err := h.chooseVariant(conn)
	if err != nil {
		return "", nil, err
	}
	if err := conn.WriteText(telnet.Paint(h.t("Your save slot is %s. Use it to continue later.", key), telnet.Cyan)); err != nil {
		return "", nil, err
	}
	return key, h.engine.NewSession(v), nil
}

func (h *GameHandler) chooseVariant(conn *telnet.Conn) (engine.Variant, error) {
	for {
		if err := conn.WriteText(h.t("Choose a game: 1) castle  2) horror house")); err != nil {
			return "", err
		}
		answer, err := conn.Ask("> ")
		if err != nil {
			return "", fmt.Errorf("reading game choice: %w", err)
		}
		if v, ok := variantChoices[strings.ToLower(answer)]; ok {
			return v, nil
		}
	}
}

// show writes rendered entries and, once the game is over, the restart hint.
func (h *GameHandler) show(conn *telnet.Conn, game *engine.Session, entries []state.LogEntry) error {
	if text := RenderEntries(entries); text != "" {
		if err := conn.WriteText(text); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if game.Over() {
		return conn.WriteText(telnet.Paint(h.t("The end. Type \"сброс\" to play again or \"выход\" to leave."), telnet.Dim))
	}
	return nil
}

// save persists the game; failures are logged by the engine and the game
// continues.
func (h *GameHandler) save(ctx context.Context, key string, game *engine.Session) {
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	_ = h.engine.Save(ctx, h.store, key, game)
}
