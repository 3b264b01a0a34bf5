// Command migrate manages the PostgreSQL save schema.
//
//	migrate [-config path] [-steps n] up|down|status
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/observability"
	"github.com/cory-johannsen/whatif/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and ADVENTURE_* env when empty)")
	steps := flag.Int("steps", 0, "migrations to apply or roll back (0 = all)")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, cfg.Database, action, *steps); err != nil {
		logger.Error("migration failed", zap.String("action", action), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger, db config.DatabaseConfig, action string, steps int) (err error) {
	start := time.Now()
	schema, err := postgres.OpenSchema(db.DSN())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := schema.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var moved bool
	switch action {
	case "up":
		moved, err = schema.Up(steps)
	case "down":
		moved, err = schema.Down(steps)
	case "status":
	default:
		return fmt.Errorf("unknown action %q: want up, down or status", action)
	}
	if err != nil {
		return err
	}

	st, err := schema.State()
	if err != nil {
		return err
	}
	logger.Info("save schema",
		zap.String("action", action),
		zap.Bool("changed", moved),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
		zap.Bool("empty", st.Empty),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
