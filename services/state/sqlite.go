package state

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var gooseOnce sync.Once
var gooseErr error

func initGoose() error {
	gooseOnce.Do(func() {
		goose.SetBaseFS(embedMigrations)
		if err := goose.SetDialect("sqlite3"); err != nil {
			gooseErr = fmt.Errorf("set goose dialect: %w", err)
		}
	})
	return gooseErr
}

// SQLiteStore keeps namespaces as rows of the kv table.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// SQLitePath is the database file used inside a data directory.
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "cinebox.db")
}

// OpenSQLite opens the database and applies pending migrations.
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := SQLitePath(dataDir)
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, dbPath: path}
	if err := store.Migrator().Up(); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("[state] sqlite store ready at %s", path)
	return store, nil
}

// Migrator exposes the schema migrations of the store's database.
func (s *SQLiteStore) Migrator() *Migrator {
	return &Migrator{db: s.db}
}

func (s *SQLiteStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query kv: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, namespace, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, namespace, key, value)
	if err != nil {
		return fmt.Errorf("upsert kv: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, namespace, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
		return fmt.Errorf("delete kv: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrator runs the embedded goose migrations.
type Migrator struct {
	db *sql.DB
}

func (m *Migrator) Up() error {
	if err := initGoose(); err != nil {
		return err
	}
	if err := goose.Up(m.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Status() error {
	if err := initGoose(); err != nil {
		return err
	}
	if err := goose.Status(m.db, "migrations"); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

func (m *Migrator) Version() (int64, error) {
	if err := initGoose(); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("database version: %w", err)
	}
	return version, nil
}
