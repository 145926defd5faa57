package history

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
)

// Entry is one journaled control action.
type Entry struct {
	ID         int64     `json:"id" yaml:"id"`
	Unit       string    `json:"unit" yaml:"unit"`
	Action     string    `json:"action" yaml:"action"`
	Scope      string    `json:"scope" yaml:"scope"`
	Succeeded  bool      `json:"succeeded" yaml:"succeeded"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	StateAfter string    `json:"stateAfter,omitempty" yaml:"stateAfter,omitempty"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// Query narrows a List call. Zero values mean no restriction.
type Query struct {
	Unit  string
	Limit int
}

// Recorder stores journal entries.
type Recorder interface {
	Record(ctx context.Context, e *Entry) (int64, error)
}

// Repository stores and lists journal entries.
type Repository interface {
	Recorder
	List(ctx context.Context, q Query) ([]Entry, error)
}

// SQLRepository implements Repository with a SQL database.
type SQLRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewRepository creates a SQL-backed journal.
func NewRepository(db *sql.DB, clk clock.Clock) *SQLRepository {
	return &SQLRepository{db: db, clock: clk}
}

// Record inserts e, stamping CreatedAt from the clock when unset.
func (r *SQLRepository) Record(ctx context.Context, e *Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.clock.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO actions (unit, action, scope, succeeded, error, state_after, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.Unit, e.Action, e.Scope, e.Succeeded, e.Error, e.StateAfter, e.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

// List returns entries newest first.
func (r *SQLRepository) List(ctx context.Context, q Query) ([]Entry, error) {
	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT id, unit, action, scope, succeeded, error, state_after, created_at FROM actions")
	if q.Unit != "" {
		sb.WriteString(" WHERE unit = ?")
		args = append(args, q.Unit)
	}
	sb.WriteString(" ORDER BY id DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Unit, &e.Action, &e.Scope, &e.Succeeded, &e.Error, &e.StateAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// NopRecorder discards entries. It is used when the journal is disabled
// or its database cannot be opened.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, *Entry) (int64, error) {
	return 0, nil
}
