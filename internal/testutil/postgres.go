// Package testutil holds helpers shared by integration tests: a disposable
// save database and a line-oriented Telnet client.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/whatif/internal/config"
	"github.com/cory-johannsen/whatif/internal/storage/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "adventure"
	pgPassword = "adventure"
	pgDatabase = "saves"
)

// SaveDatabase is a throwaway PostgreSQL server for save-store tests.
type SaveDatabase struct {
	Config config.DatabaseConfig
	Pool   *postgres.Pool
}

// StartSaveDatabase runs PostgreSQL in a container and connects a pool.
// With migrated set, the embedded schema is applied before returning.
// The test is skipped when no container provider is reachable.
//
// Postcondition: The container and pool are released by t.Cleanup.
func StartSaveDatabase(t *testing.T, migrated bool) *SaveDatabase {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	start := time.Now()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v [%s]", pgImage, err, time.Since(start))
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("resolving container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("resolving container port: %v", err)
	}

	db := &SaveDatabase{Config: config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            pgUser,
		Password:        pgPassword,
		Name:            pgDatabase,
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}}

	if migrated {
		version, err := postgres.Migrate(db.DSN())
		if err != nil {
			t.Fatalf("migrating save database: %v", err)
		}
		t.Logf("save schema at version %d", version)
	}

	db.Pool, err = postgres.NewPool(ctx, db.Config)
	if err != nil {
		t.Fatalf("connecting to save database: %v", err)
	}
	t.Cleanup(db.Pool.Close)

	t.Logf("save database ready on %s:%d [%s]", host, port.Int(), time.Since(start))
	return db
}

// DSN returns the connection string for the database.
func (d *SaveDatabase) DSN() string {
	return d.Config.DSN()
}
