// Package migrations owns the postgres schema. The SQL files are embedded so
// the binary does not depend on the working directory.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"tasksAPI/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// Up creates the schema if it is missing. Running it against an up to date
// database is a no-op.
func Up(dsn string) error {
	m, closeDB, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: failed to apply", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations: schema is up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func Down(dsn string) error {
	m, closeDB, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: failed to roll back", err)
		return fmt.Errorf("roll back migrations: %w", err)
	}
	logger.Info("Migrations: rolled back")
	return nil
}

func newMigrate(dsn string) (*migrate.Migrate, func(), error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() { _ = db.Close() }

	if err := db.Ping(); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migration driver: %w", err)
	}

	source, err := iofs.New(files, "sql")
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, closeDB, nil
}
