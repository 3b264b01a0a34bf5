// Package main runs the adventure in the local terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/frontend/tui"
	"github.com/cory-johannsen/whatif/internal/game/engine"
	"github.com/cory-johannsen/whatif/internal/game/locale"
	"github.com/cory-johannsen/whatif/internal/storage"
)

// client is everything the terminal client needs at run time.
type client struct {
	logger  *zap.Logger
	engine  *engine.Engine
	store   storage.Store
	catalog *locale.Catalog
}

func newClient(logger *zap.Logger, eng *engine.Engine, store storage.Store, catalog *locale.Catalog) *client {
	return &client{logger: logger, engine: eng, store: store, catalog: catalog}
}

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and ADVENTURE_* env when empty)")
	slot := flag.String("slot", "", "save slot to resume; empty starts a new game")
	variant := flag.String("game", "castle", "game for a new slot: castle or horror")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	// The terminal belongs to the UI.
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stderr" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = filepath.Join(os.TempDir(), "adventure.log")
	}

	ctx := context.Background()
	c, cleanup, err := initializeClient(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing client: %v", err)
	}
	defer cleanup()

	key := *slot
	var game *engine.Session
	if key != "" {
		if restored, ok := c.engine.Load(ctx, c.store, key); ok {
			game = restored
		} else {
			fmt.Println(c.catalog.T("No save found under %s. Starting a new game.", key))
		}
	} else {
		key = uuid.NewString()
	}
	if game == nil {
		v, err := engine.ParseVariant(*variant)
		if err != nil {
			log.Fatalf("choosing game: %v", err)
		}
		game = c.engine.NewSession(v)
		fmt.Println(c.catalog.T("Your save slot is %s. Use it to continue later.", key))
	}

	c.logger.Info("terminal game started",
		zap.String("session", key),
		zap.String("variant", string(game.Variant())),
	)
	p := tea.NewProgram(tui.New(ctx, c.engine, c.store, key, game, c.logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		c.logger.Error("terminal client failed", zap.Error(err))
		log.Fatalf("running client: %v", err)
	}
	fmt.Println(c.catalog.T("Your save slot is %s. Use it to continue later.", key))
}
