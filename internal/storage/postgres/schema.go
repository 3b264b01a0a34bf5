package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/cory-johannsen/whatif/migrations"
)

// Schema drives the embedded save-table migrations against one database.
type Schema struct {
	m *migrate.Migrate
}

// SchemaState is the migration version recorded in the database.
type SchemaState struct {
	Version uint
	Dirty   bool
	// Empty is true when no migration has ever been applied.
	Empty bool
}

// OpenSchema prepares the embedded migrations for the database at dsn.
// Callers must Close the returned Schema.
func OpenSchema(dsn string) (*Schema, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting migrator: %w", err)
	}
	return &Schema{m: m}, nil
}

// Up applies n pending migrations, or all of them when n <= 0. It reports
// whether anything changed.
func (s *Schema) Up(n int) (bool, error) {
	if n > 0 {
		return changed(s.m.Steps(n))
	}
	return changed(s.m.Up())
}

// Down rolls back n migrations, or all of them when n <= 0.
func (s *Schema) Down(n int) (bool, error) {
	if n > 0 {
		return changed(s.m.Steps(-n))
	}
	return changed(s.m.Down())
}

// State reads the recorded schema version.
func (s *Schema) State() (SchemaState, error) {
	v, dirty, err := s.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaState{Empty: true}, nil
	}
	if err != nil {
		return SchemaState{}, fmt.Errorf("reading schema version: %w", err)
	}
	return SchemaState{Version: v, Dirty: dirty}, nil
}

// Close releases the migrator's source and database handles.
func (s *Schema) Close() error {
	srcErr, dbErr := s.m.Close()
	return errors.Join(srcErr, dbErr)
}

func changed(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, migrate.ErrNoChange):
		return false, nil
	default:
		return false, fmt.Errorf("running migrations: %w", err)
	}
}

// Migrate brings the save schema at dsn fully up to date and returns the
// resulting version. An already current schema is not an error.
func Migrate(dsn string) (version uint, err error) {
	s, err := OpenSchema(dsn)
	if err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	if _, err := s.Up(0); err != nil {
		return 0, err
	}
	st, err := s.State()
	if err != nil {
		return 0, err
	}
	return st.Version, nil
}
