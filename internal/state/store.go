// Package state persists sync run history in a local SQLite database.
//
// Two tables: run reports (the status command reads these) and a cache
// of resolved list IDs per account. The cache only saves the diff
// command a name-lookup round trip; the engine still resolves lists by
// name on every run, so a stale or missing cache never changes sync
// behavior.
//
// The driver is modernc.org/sqlite (pure Go, no CGO), which keeps
// cross-compilation for small servers trivial.
package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/edgeban/edgeban/internal/clock"
	"github.com/edgeban/edgeban/internal/mirror"
)

var (
	ErrNotFound    = errors.New("key not found")
	ErrStoreClosed = errors.New("store is closed")
)

// Store is a SQLite-backed record of past sync runs.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
	clock  clock.Clock
}

// Options configures the store.
type Options struct {
	Path  string // ":memory:" for tests
	Clock clock.Clock
}

// Open opens or creates the database at opts.Path.
func Open(opts Options) (*Store, error) {
	dsn := opts.Path
	if opts.Path != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer keeps SQLITE_BUSY away and makes :memory: share one
	// database across the pool.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = &clock.RealClock{}
	}

	s := &Store{db: db, clock: clk}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_ns INTEGER NOT NULL,
			finished_ns INTEGER NOT NULL,
			ip_count INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			report BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_ns);

		CREATE TABLE IF NOT EXISTS list_ids (
			account_id TEXT NOT NULL,
			list_name TEXT NOT NULL,
			list_id TEXT NOT NULL,
			updated_ns INTEGER NOT NULL,
			PRIMARY KEY (account_id, list_name)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists a finished run report.
func (s *Store) SaveRun(report *mirror.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	blob, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	ok := 0
	if report.OK() {
		ok = 1
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO runs (id, started_ns, finished_ns, ip_count, ok, report) VALUES (?, ?, ?, ?, ?, ?)",
		report.RunID, report.Started.UnixNano(), report.Finished.UnixNano(), report.IPCount, ok, blob,
	)
	return err
}

// RecentRuns returns up to limit run reports, newest first.
func (s *Store) RecentRuns(limit int) ([]*mirror.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query("SELECT report FROM runs ORDER BY started_ns DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*mirror.Report
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var report mirror.Report
		if err := json.Unmarshal(blob, &report); err != nil {
			return nil, fmt.Errorf("decoding stored report: %w", err)
		}
		out = append(out, &report)
	}
	return out, rows.Err()
}

// PruneRuns deletes all but the newest keep runs.
func (s *Store) PruneRuns(keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(
		"DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_ns DESC LIMIT ?)",
		keep,
	)
	return err
}

// RememberListID caches a resolved list ID for an account.
func (s *Store) RememberListID(accountID, listName, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO list_ids (account_id, list_name, list_id, updated_ns) VALUES (?, ?, ?, ?)",
		accountID, listName, listID, s.clock.Now().UnixNano(),
	)
	return err
}

// CachedListID returns the last list ID resolved for an account, or
// ErrNotFound when none was recorded.
func (s *Store) CachedListID(accountID, listName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	var id string
	err := s.db.QueryRow(
		"SELECT list_id FROM list_ids WHERE account_id = ? AND list_name = ?",
		accountID, listName,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Close closes the database. Further calls return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// LastRun returns the most recent run report, or ErrNotFound when the
// store is empty.
func (s *Store) LastRun() (*mirror.Report, error) {
	runs, err := s.RecentRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return runs[0], nil
}
