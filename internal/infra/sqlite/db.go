// Package sqlite provides SQLite-based persistent storage for ReadQuest.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so every store method is
// available inside and outside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// queries implements the store methods against a dbtx. Embedded by DB and Tx.
type queries struct {
	q dbtx
}

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	queries
	sql *sql.DB
}

// Tx is a transaction scope exposing the same store methods as DB.
type Tx struct {
	queries
}

// Open creates or opens the SQLite database at dir/readquest.db.
// Enables WAL mode, foreign keys, a 5-second busy timeout, and immediate
// transactions (writers take the write lock at BEGIN, not first write).
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "readquest.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{queries: queries{q: db}, sql: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.sql.Ping()
}

// InTx runs fn inside one transaction. Any error rolls the whole scope back;
// no partial stats/unlock state is ever visible.
func (d *DB) InTx(fn func(tx *Tx) error) error {
	sqlTx, err := d.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&Tx{queries: queries{q: sqlTx}}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Rosters
		`CREATE TABLE IF NOT EXISTS classes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			code       TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			class_id   INTEGER NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
			nickname   TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(class_id, nickname)
		)`,

		// Books and reading sessions
		`CREATE TABLE IF NOT EXISTS books (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id   INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			title        TEXT NOT NULL,
			author       TEXT NOT NULL DEFAULT '',
			total_pages  INTEGER NOT NULL DEFAULT 0,
			current_page INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_books_student ON books(student_id)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id       INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			book_id          INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			start_page       INTEGER NOT NULL DEFAULT 0,
			end_page         INTEGER NOT NULL DEFAULT 0,
			chapters         INTEGER NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			goal_minutes     INTEGER NOT NULL DEFAULT 0,
			xp_earned        INTEGER NOT NULL DEFAULT 0,
			created_at       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_student ON sessions(student_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS reflections (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			question   TEXT NOT NULL DEFAULT '',
			answer     TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reflections_student ON reflections(student_id)`,

		// Book completions: one per (student, book), numbered per student
		`CREATE TABLE IF NOT EXISTS book_completions (
			student_id        INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			book_id           INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			completion_number INTEGER NOT NULL,
			completed_at      INTEGER NOT NULL,
			PRIMARY KEY(student_id, book_id)
		)`,

		// Unlock ledger: append-only, at most one grant per (student, key, period)
		`CREATE TABLE IF NOT EXISTS unlocks (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id      INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			achievement_key TEXT NOT NULL,
			period_key      TEXT NOT NULL,
			awarded_xp      INTEGER NOT NULL DEFAULT 0,
			awarded_coins   INTEGER NOT NULL DEFAULT 0,
			unlocked_at     INTEGER NOT NULL,
			UNIQUE(student_id, achievement_key, period_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unlocks_student ON unlocks(student_id, unlocked_at)`,

		// Per-student progression
		`CREATE TABLE IF NOT EXISTS student_stats (
			student_id         INTEGER PRIMARY KEY REFERENCES students(id) ON DELETE CASCADE,
			total_xp           INTEGER NOT NULL DEFAULT 0,
			level              INTEGER NOT NULL DEFAULT 1,
			coins              INTEGER NOT NULL DEFAULT 0,
			total_coins_earned INTEGER NOT NULL DEFAULT 0,
			streak_days        INTEGER NOT NULL DEFAULT 1,
			last_active_date   TEXT NOT NULL DEFAULT ''
		)`,

		// Room decorations owned per student
		`CREATE TABLE IF NOT EXISTS room_items (
			student_id   INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			item_key     TEXT NOT NULL,
			equipped     BOOLEAN NOT NULL DEFAULT 0,
			purchased_at INTEGER NOT NULL,
			PRIMARY KEY(student_id, item_key)
		)`,
	}

	for _, m := range migrations {
		if _, err := d.sql.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
