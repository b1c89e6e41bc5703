// Package history stores the reading history: an append-only log of
// selections that can be watched for changes.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"simple-bible/internal/history/migrations"
	"simple-bible/internal/observe"
	"simple-bible/internal/state"
)

var _ state.HistoryLog = (*SQLiteLog)(nil)

// SQLiteLog is a state.HistoryLog kept in a SQLite database.
type SQLiteLog struct {
	mu   sync.Mutex // orders inserts with the snapshots they publish
	db   *sql.DB
	path string
	feed *observe.Broadcaster[[]state.HistoryRecord]
	now  func() time.Time
}

// Open opens (or creates) history.db inside dir and applies migrations.
func Open(dir string) (*SQLiteLog, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dir, "history.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &SQLiteLog{
		db:   db,
		path: dbPath,
		feed: observe.New[[]state.HistoryRecord](),
		now:  time.Now,
	}
	if err := l.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return l, nil
}

// Path returns the database file path.
func (l *SQLiteLog) Path() string {
	return l.path
}

// Close ends every watch and closes the database.
func (l *SQLiteLog) Close() error {
	l.feed.Close()
	return l.db.Close()
}

// migrate runs every embedded NNN_name.up.sql newer than the recorded version.
func (l *SQLiteLog) migrate(fsys embed.FS) error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := l.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := l.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := l.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Insert appends selection and publishes the new log to watchers.
func (l *SQLiteLog) Insert(ctx context.Context, selection state.Selection) (state.HistoryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := state.HistoryRecord{
		ID:        uuid.New().String(),
		Selection: selection,
		CreatedAt: l.now().UTC(),
	}
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO history (id, translation, book_index, chapter, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, selection.Translation, selection.BookIndex, selection.Chapter, rec.CreatedAt)
	if err != nil {
		return state.HistoryRecord{}, fmt.Errorf("inserting history: %w", err)
	}
	if rec.Seq, err = res.LastInsertId(); err != nil {
		return state.HistoryRecord{}, fmt.Errorf("reading history seq: %w", err)
	}

	all, err := l.query(ctx, "")
	if err != nil {
		return rec, err
	}
	l.feed.Publish(all)
	return rec, nil
}

// Watch implements state.HistoryLog.
func (l *SQLiteLog) Watch(ctx context.Context) (<-chan []state.HistoryRecord, error) {
	l.mu.Lock()
	all, err := l.query(ctx, "")
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	ch, cancel := l.feed.SubscribeWith(all)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, nil
}

// List returns the most recent limit records, oldest first. A limit of zero
// or less returns everything.
func (l *SQLiteLog) List(ctx context.Context, limit int) ([]state.HistoryRecord, error) {
	if limit <= 0 {
		return l.query(ctx, "")
	}
	return l.query(ctx, fmt.Sprintf("WHERE seq > (SELECT COALESCE(MAX(seq), 0) - %d FROM history)", limit))
}

func (l *SQLiteLog) query(ctx context.Context, where string) ([]state.HistoryRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, id, translation, book_index, chapter, created_at
		FROM history `+where+`
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []state.HistoryRecord{}
	for rows.Next() {
		var r state.HistoryRecord
		if err := rows.Scan(&r.Seq, &r.ID, &r.Selection.Translation, &r.Selection.BookIndex,
			&r.Selection.Chapter, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
