// Package app holds the providers that assemble the adventure server and
// the terminal client from configuration.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/frontend/handlers"
	"github.com/cory-johannsen/whatif/internal/game/engine"
	"github.com/cory-johannsen/whatif/internal/game/locale"
	"github.com/cory-johannsen/whatif/internal/game/narrate"
	"github.com/cory-johannsen/whatif/internal/game/session"
	"github.com/cory-johannsen/whatif/internal/game/world"
	"github.com/cory-johannsen/whatif/internal/observability"
	"github.com/cory-johannsen/whatif/internal/scripting"
	"github.com/cory-johannsen/whatif/internal/storage"
	"github.com/cory-johannsen/whatif/internal/storage/file"
	"github.com/cory-johannsen/whatif/internal/storage/postgres"
)

// ScriptInstructionLimit bounds each ambience hook call.
const ScriptInstructionLimit = 100_000

// EngineSet provides an Engine and the save store from a config.Config.
var EngineSet = wire.NewSet(
	wire.FieldsOf(new(config.Config), "Logging", "Storage", "Database", "Narrator", "Game"),
	ProvideLogger,
	ProvideCatalog,
	ProvideStore,
	ProvideNarrator,
	ProvideScripts,
	ProvideEngine,
)

// ServerSet adds the Telnet game handler on top of EngineSet.
var ServerSet = wire.NewSet(
	EngineSet,
	wire.FieldsOf(new(config.Config), "Telnet"),
	session.NewManager,
	ProvideGameHandler,
)

// ProvideLogger builds the process logger.
func ProvideLogger(cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideCatalog loads the message catalog for the configured locale.
func ProvideCatalog(cfg config.GameConfig) (*locale.Catalog, error) {
	return locale.New(cfg.Locale)
}

// ProvideStore opens the configured save backend. The postgres backend
// applies pending migrations first when AutoMigrate is set.
//
// Postcondition: The returned cleanup releases the backend's resources.
func ProvideStore(ctx context.Context, cfg config.StorageConfig, db config.DatabaseConfig, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.Backend {
	case config.StorageFile:
		store, err := file.New(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("file save store ready", zap.String("dir", cfg.Dir))
		return store, func() {}, nil

	case config.StoragePostgres:
		if db.AutoMigrate {
			start := time.Now()
			version, err := postgres.Migrate(db.DSN())
			if err != nil {
				return nil, nil, err
			}
			logger.Info("database migrated", zap.Uint("version", version), zap.Duration("elapsed", time.Since(start)))
		}
		pool, err := postgres.NewPool(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("database connected",
			zap.String("host", db.Host),
			zap.Int("port", db.Port),
			zap.String("database", db.Name),
		)
		return postgres.NewSaveRepository(pool.DB()), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// ProvideNarrator builds the free-action narrator for the configured provider.
func ProvideNarrator(ctx context.Context, cfg config.NarratorConfig, logger *zap.Logger) (*narrate.Narrator, func(), error) {
	gen, closeGen, err := narrate.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building narrator: %w", err)
	}
	logger.Info("narrator ready", zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))
	cleanup := func() {
		if err := closeGen(); err != nil {
			logger.Warn("closing narrator", zap.Error(err))
		}
	}
	return narrate.NewNarrator(gen, cfg.Timeout, logger), cleanup, nil
}

// ProvideScripts loads one ambience VM per world. A world directory under
// cfg.ScriptDir replaces that world's embedded script.
func ProvideScripts(cfg config.GameConfig, logger *zap.Logger) (*scripting.Manager, func(), error) {
	m := scripting.NewManager(ScriptInstructionLimit, logger)
	for _, id := range []string{world.CastleID, world.HorrorID} {
		if cfg.ScriptDir != "" {
			dir := filepath.Join(cfg.ScriptDir, id)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				if err := m.LoadDir(id, dir); err != nil {
					m.Close()
					return nil, nil, err
				}
				logger.Info("loaded world scripts", zap.String("world", id), zap.String("dir", dir))
				continue
			}
		}
		if src, ok := world.Script(id); ok {
			if err := m.LoadSource(id, src); err != nil {
				m.Close()
				return nil, nil, err
			}
		}
	}
	return m, m.Close, nil
}

// ProvideEngine builds the command interpreter.
func ProvideEngine(cfg config.GameConfig, catalog *locale.Catalog, logger *zap.Logger, n *narrate.Narrator, s *scripting.Manager) *engine.Engine {
	return engine.New(cfg, catalog, logger, engine.WithNarrator(n), engine.WithScripts(s))
}

// ProvideGameHandler builds the Telnet game handler.
func ProvideGameHandler(eng *engine.Engine, store storage.Store, slots *session.Manager, logger *zap.Logger) *handlers.GameHandler {
	return handlers.NewGameHandler(eng, store, slots, logger)
}
