package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"gowakeonlan/internal/models"
)

// SQLite keeps the host list in a table ordered by position.
type SQLite struct {
	db  *sqlx.DB
	log logr.Logger
}

type hostRow struct {
	Position int `db:"position"`
	models.HostRecord
}

func NewSQLite(log logr.Logger, dbName string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbName), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Connect("sqlite3", dbName)
	if err != nil {
		log.Error(err, "Failed to connect to database", "dbType", "sqlite3", "dbName", dbName)
		return nil, err
	}

	s := &SQLite{
		db:  db,
		log: log.WithName("SQLiteStore"),
	}
	if err := s.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) createTable() error {
	schema := `
    CREATE TABLE IF NOT EXISTS hosts (
        position INTEGER PRIMARY KEY,
        selected BOOLEAN NOT NULL DEFAULT 0,
        name TEXT NOT NULL DEFAULT '',
        mac_address TEXT NOT NULL DEFAULT '',
        port INTEGER NOT NULL,
        destination TEXT NOT NULL DEFAULT ''
    );
`
	if _, err := s.db.Exec(schema); err != nil {
		s.log.Error(err, "Failed to execute create table query")
		return err
	}
	return nil
}

func (s *SQLite) ReadHosts(ctx context.Context) ([]models.HostRecord, error) {
	rows := make([]hostRow, 0)
	query := `SELECT position, selected, name, mac_address, port, destination FROM hosts ORDER BY position`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		s.log.Error(err, "Failed to read hosts")
		return nil, err
	}

	hosts := make([]models.HostRecord, len(rows))
	for i, r := range rows {
		hosts[i] = r.HostRecord
	}
	s.log.V(1).Info("Read hosts", "count", len(hosts))
	return hosts, nil
}

// WriteHosts replaces the table content in one transaction.
func (s *SQLite) WriteHosts(ctx context.Context, hosts []models.HostRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hosts`); err != nil {
		return fmt.Errorf("failed to clear hosts: %w", err)
	}

	query := `
    INSERT INTO hosts (position, selected, name, mac_address, port, destination)
    VALUES (:position, :selected, :name, :mac_address, :port, :destination)`
	for i, h := range hosts {
		if _, err := tx.NamedExecContext(ctx, query, hostRow{Position: i, HostRecord: h}); err != nil {
			s.log.Error(err, "Failed to insert host", "position", i, "name", h.Name)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.V(1).Info("Wrote hosts", "count", len(hosts))
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	s.log.Info("Closing database connection")
	return s.db.Close()
}
