package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// MigratePostgres applies the embedded postgres migrations to databaseURL.
func MigratePostgres(databaseURL string) error {
	src, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("load postgres migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(databaseURL))
	if err != nil {
		return fmt.Errorf("init postgres migrator: %w", err)
	}
	defer m.Close()

	return up(m, "postgres")
}

// MigrateSQLite applies the embedded sqlite migrations through db. The
// migrator does not close db.
func MigrateSQLite(db *sql.DB) error {
	src, err := iofs.New(sqliteMigrations, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("load sqlite migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("init sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("init sqlite migrator: %w", err)
	}

	return up(m, "sqlite")
}

func up(m *migrate.Migrate, dialect string) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("database schema already up to date", "dialect", dialect)
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply %s migrations: %w", dialect, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil {
		return fmt.Errorf("read %s schema version: %w", dialect, verr)
	}
	slog.Info("database schema migrated", "dialect", dialect, "version", version, "dirty", dirty)
	return nil
}

func pgx5URL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}
