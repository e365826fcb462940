package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/hostpad/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dsn builds an ncruces DSN for path with the pragmas every connection
// needs.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(wal)")
	q.Add("_pragma", "foreign_keys(on)")
	return "file:" + path + "?" + q.Encode()
}

// openDB opens the database at path and brings its schema up to date.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	log.Debug(log.CatDB, "Opening database", "path", path)
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatDB, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info(log.CatDB, "Connected to database", "path", path)
	return db, nil
}

// migrateUp applies every pending migration.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	drv, err := newMigrationDriver(db)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("preparing migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("preparing migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(log.CatDB, "closing migrations", "source", srcErr, "database", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err == nil {
		log.Debug(log.CatDB, "Schema ready", "version", version, "dirty", dirty)
	}
	return nil
}
