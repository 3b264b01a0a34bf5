// Package main runs the adventure Telnet server.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/frontend/telnet"
	"github.com/cory-johannsen/whatif/internal/game/session"
	"github.com/cory-johannsen/whatif/internal/server"
)

// daemon is everything the server needs at run time.
type daemon struct {
	logger   *zap.Logger
	acceptor *telnet.Acceptor
	slots    *session.Manager
}

func newDaemon(logger *zap.Logger, acceptor *telnet.Acceptor, slots *session.Manager) *daemon {
	return &daemon{logger: logger, acceptor: acceptor, slots: slots}
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults and ADVENTURE_* env when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx := context.Background()
	d, cleanup, err := initializeDaemon(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}

	d.logger.Info("adventure server ready",
		zap.Stringer("config", cfg),
		zap.Duration("startup", time.Since(start)),
	)

	lc := server.NewLifecycle(d.logger)
	lc.Add("telnet", &server.FuncService{
		StartFn: d.acceptor.ListenAndServe,
		StopFn: func() {
			d.logger.Info("closing connections",
				zap.Int("connections", d.acceptor.Active()),
				zap.Strings("slots", d.slots.Keys()),
			)
			d.acceptor.Stop()
		},
	})
	lc.OnShutdown("resources", func() error {
		cleanup()
		return nil
	})

	if err := lc.Run(ctx); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
