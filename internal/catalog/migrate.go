package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

const migrationsTable = "schema_migrations"

// migrationDriver is a golang-migrate database driver bound to an already
// open ncruces connection pool. It never closes the pool.
type migrationDriver struct {
	db     *sql.DB
	locked atomic.Bool
}

var _ database.Driver = (*migrationDriver)(nil)

func newMigrationDriver(db *sql.DB) (*migrationDriver, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
		version INTEGER NOT NULL,
		dirty   INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", migrationsTable, err)
	}
	return &migrationDriver{db: db}, nil
}

// Open is unsupported; the driver is only built from an open *sql.DB.
func (d *migrationDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("catalog migration driver cannot open URLs")
}

// Close leaves the pool to its owner.
func (d *migrationDriver) Close() error {
	return nil
}

func (d *migrationDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *migrationDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file in a transaction.
func (d *migrationDriver) Run(migration io.Reader) error {
	query, err := io.ReadAll(migration)
	if err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if _, err := tx.Exec(string(query)); err != nil {
		_ = tx.Rollback()
		return &database.Error{OrigErr: err, Err: "migration failed", Query: query}
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

// SetVersion replaces the single version row. NilVersion with dirty unset
// clears it.
func (d *migrationDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if _, err := tx.Exec(`DELETE FROM ` + migrationsTable); err != nil {
		_ = tx.Rollback()
		return &database.Error{OrigErr: err, Err: "clearing version failed"}
	}
	if version >= 0 || (version == database.NilVersion && dirty) {
		if _, err := tx.Exec(`INSERT INTO `+migrationsTable+` (version, dirty) VALUES (?, ?)`, version, dirty); err != nil {
			_ = tx.Rollback()
			return &database.Error{OrigErr: err, Err: "setting version failed"}
		}
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

func (d *migrationDriver) Version() (version int, dirty bool, err error) {
	err = d.db.QueryRow(`SELECT version, dirty FROM `+migrationsTable+` LIMIT 1`).Scan(&version, &dirty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return database.NilVersion, false, nil
	case err != nil:
		return 0, false, &database.Error{OrigErr: err, Err: "reading version failed"}
	}
	return version, dirty, nil
}

// Drop removes every user table, then recreates the version table.
func (d *migrationDriver) Drop() error {
	rows, err := d.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return &database.Error{OrigErr: err, Err: "listing tables failed"}
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, t := range tables {
		if _, err := d.db.Exec(`DROP TABLE IF EXISTS "` + t + `"`); err != nil {
			return &database.Error{OrigErr: err, Err: "dropping " + t + " failed"}
		}
	}
	_, err = newMigrationDriver(d.db)
	return err
}
