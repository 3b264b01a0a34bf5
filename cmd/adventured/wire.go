//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/whatif/internal/app"
	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/frontend/handlers"
	"github.com/cory-johannsen/whatif/internal/frontend/telnet"
)

func initializeDaemon(ctx context.Context, cfg config.Config) (*daemon, func(), error) {
	wire.Build(
		app.ServerSet,
		wire.Bind(new(telnet.SessionHandler), new(*handlers.GameHandler)),
		telnet.NewAcceptor,
		newDaemon,
	)
	return nil, nil, nil
}
