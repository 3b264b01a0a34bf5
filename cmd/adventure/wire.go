//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/whatif/internal/app"
	"github.com/cory-johannsen/whatif/internal/config"
)

func initializeClient(ctx context.Context, cfg config.Config) (*client, func(), error) {
	wire.Build(app.EngineSet, newClient)
	return nil, nil, nil
}
