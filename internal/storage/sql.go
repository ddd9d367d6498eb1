package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour of a SQLStore.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) selectQuery() string {
	if d == Postgres {
		return `SELECT value FROM kv_blobs WHERE name = $1`
	}
	return `SELECT value FROM kv_blobs WHERE name = ?`
}

func (d Dialect) upsertQuery() string {
	if d == Postgres {
		return `INSERT INTO kv_blobs (name, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}
	return `INSERT INTO kv_blobs (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
}

func (d Dialect) insertAbsentQuery() string {
	if d == Postgres {
		return `INSERT INTO kv_blobs (name, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT(name) DO NOTHING`
	}
	return `INSERT INTO kv_blobs (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO NOTHING`
}

func (d Dialect) swapQuery() string {
	if d == Postgres {
		return `UPDATE kv_blobs SET value = $1, updated_at = $2 WHERE name = $3 AND value = $4`
	}
	return `UPDATE kv_blobs SET value = ?, updated_at = ? WHERE name = ? AND value = ?`
}

// SQLStore keeps blobs in the kv_blobs table of a SQL database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an open database whose schema is already migrated.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

// NewSQLiteStore opens (creating if needed) the SQLite file at dbPath and
// migrates it.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(SQLite, dbPath); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("SQLite store ready", "path", dbPath)
	return NewSQLStore(db, SQLite), nil
}

// NewPostgresStore connects to the PostgreSQL database at url and migrates it.
func NewPostgresStore(ctx context.Context, url string) (*SQLStore, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres url is required")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(Postgres, url); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("PostgreSQL store ready")
	return NewSQLStore(db, Postgres), nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.selectQuery(), key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// PutAll upserts every blob in one transaction. The guard is checked first
// with a conditional write, so of two racing transactions only one commits.
func (s *SQLStore) PutAll(ctx context.Context, blobs map[string][]byte, guard *Guard) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC()
	if guard != nil {
		if err := s.swap(ctx, tx, guard, now); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(blobs) {
		if _, err := tx.ExecContext(ctx, s.dialect.upsertQuery(), key, blobs[key], now); err != nil {
			return fmt.Errorf("upsert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLStore) swap(ctx context.Context, tx *sql.Tx, guard *Guard, now time.Time) error {
	var (
		res sql.Result
		err error
	)
	if guard.Old == nil {
		res, err = tx.ExecContext(ctx, s.dialect.insertAbsentQuery(), guard.Key, guard.New, now)
	} else {
		res, err = tx.ExecContext(ctx, s.dialect.swapQuery(), guard.New, now, guard.Key, guard.Old)
	}
	if err != nil {
		return fmt.Errorf("swap %s: %w", guard.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("swap %s: %w", guard.Key, err)
	}
	if n != 1 {
		return ErrConflict
	}
	return nil
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
