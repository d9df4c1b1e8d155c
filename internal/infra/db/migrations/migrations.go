// Package migrations applies the embedded schema to MySQL or Postgres.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/bryanwahyu/unit-monitor/internal/pkg/logger"
)

//go:embed mysql/*.sql postgres/*.sql
var migrationsFS embed.FS

// Up migrates db to the latest version. driver is "mysql" or "postgres".
func Up(db *sql.DB, driver string) error {
	m, err := instance(db, driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.L().Info("no new database migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	logger.L().Info("database migrations applied")
	return nil
}

// Down rolls back every migration.
func Down(db *sql.DB, driver string) error {
	m, err := instance(db, driver)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Files lists the embedded migration files for driver.
func Files(driver string) ([]string, error) {
	entries, err := migrationsFS.ReadDir(driver)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %q: %w", driver, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}

func instance(db *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case "mysql":
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case "postgres":
		target, err = migratepg.WithInstance(db, &migratepg.Config{})
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrationsFS, driver)
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return nil, err
	}
	m.Log = migrationLogger{}
	return m, nil
}

type migrationLogger struct{}

func (migrationLogger) Printf(format string, v ...any) {
	logger.L().Sugar().Debugf("migration: "+format, v...)
}

func (migrationLogger) Verbose() bool { return false }
