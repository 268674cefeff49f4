// Package usage keeps a local ledger of generation metadata.
package usage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/pkg/filesystem"
	"github.com/doeshing/gai-go/internal/ports"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore persists usage records in ~/.gai/usage.db.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath is the ledger location under the gai directory.
func DefaultPath() string {
	return filepath.Join(filesystem.GaiDir(), "usage.db")
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init usage db: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		kind TEXT NOT NULL,
		provider TEXT,
		model TEXT,
		attempts INTEGER,
		generations INTEGER,
		prompt_bytes INTEGER,
		duration_ms INTEGER,
		outcome TEXT
	);`)
	return err
}

// Save inserts a record, assigning an id and timestamp when missing.
func (s *SQLiteStore) Save(record domain.UsageRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO generations
		(id, timestamp, kind, provider, model, attempts, generations, prompt_bytes, duration_ms, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		string(record.Kind),
		string(record.Provider),
		record.Model,
		record.Attempts,
		record.Generations,
		record.PromptBytes,
		record.DurationMS,
		string(record.Outcome),
	)
	return err
}

// Recent returns up to limit records, newest first. A non-positive limit returns all.
func (s *SQLiteStore) Recent(limit int) ([]domain.UsageRecord, error) {
	query := selectColumns + " ORDER BY timestamp DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(query, args...)
}

// Since aggregates records newer than t.
func (s *SQLiteStore) Since(t time.Time) (domain.UsageSummary, error) {
	records, err := s.query(selectColumns+" WHERE timestamp >= ? ORDER BY timestamp DESC", t.UTC().Format(timestampLayout))
	if err != nil {
		return domain.UsageSummary{}, err
	}
	summary := domain.UsageSummary{ByKind: map[domain.CommandKind]int{}}
	for i, rec := range records {
		summary.Total++
		summary.ByKind[rec.Kind]++
		if rec.Outcome == domain.OutcomeAccepted || rec.Outcome == domain.OutcomeEdited {
			summary.Accepted++
		}
		if i == 0 {
			last := rec
			summary.Last = &last
		}
	}
	return summary, nil
}

const selectColumns = `SELECT id, timestamp, kind, provider, model, attempts, generations, prompt_bytes, duration_ms, outcome FROM generations`

func (s *SQLiteStore) query(query string, args ...interface{}) ([]domain.UsageRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UsageRecord
	for rows.Next() {
		var rec domain.UsageRecord
		var ts, kind, provider, outcome string
		if err := rows.Scan(&rec.ID, &ts, &kind, &provider, &rec.Model, &rec.Attempts, &rec.Generations, &rec.PromptBytes, &rec.DurationMS, &outcome); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Kind = domain.CommandKind(kind)
		rec.Provider = domain.ProviderKind(provider)
		rec.Outcome = domain.UsageOutcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all records.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM generations")
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.UsageRepository = (*SQLiteStore)(nil)
