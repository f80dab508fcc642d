package journal

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteJournal opens (and if needed creates) a SQLite journal.
// Use ":memory:" for an in-memory database, or a file path for a persistent one.
func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryJournal, "open sqlite journal").
			WithContext("dsn", dsn).
			Build()
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryJournal, "initialize journal schema").
			WithContext("dsn", dsn).
			Build()
	}
	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id TEXT NOT NULL,
		state_type TEXT NOT NULL,
		revision INTEGER NOT NULL,
		payload BLOB NOT NULL,
		applied_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transitions_type ON transitions(state_type, revision);
	CREATE INDEX IF NOT EXISTS idx_transitions_store ON transitions(store_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append inserts a transition row.
func (j *SQLiteJournal) Append(ctx context.Context, t Transition) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	appliedAt := t.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = time.Now()
	}
	payload := t.Payload
	if payload == nil {
		payload = []byte{}
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO transitions (store_id, state_type, revision, payload, applied_at) VALUES (?, ?, ?, ?, ?)",
		t.StoreID, t.StateType, int64(t.Revision), payload, appliedAt.UnixNano(),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryJournal, "insert transition").
			WithContext("state_type", t.StateType).
			Build()
	}
	return nil
}

// ByStateType returns matching transitions ordered by revision.
func (j *SQLiteJournal) ByStateType(ctx context.Context, storeID, stateType string) ([]Transition, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		`SELECT store_id, state_type, revision, payload, applied_at FROM transitions
		 WHERE state_type = ? AND (? = '' OR store_id = ?)
		 ORDER BY revision, id`,
		stateType, storeID, storeID,
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryJournal, "query transitions").Build()
	}
	defer func() { _ = rows.Close() }()

	var out []Transition
	for rows.Next() {
		var (
			t         Transition
			revision  int64
			appliedAt int64
		)
		if err := rows.Scan(&t.StoreID, &t.StateType, &revision, &t.Payload, &appliedAt); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryJournal, "scan transition").Build()
		}
		t.Revision = uint64(revision)
		t.AppliedAt = time.Unix(0, appliedAt)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryJournal, "iterate transitions").Build()
	}
	return out, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}
