package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRecord(t *testing.T) {
	db, mock := setupTestDB(t)
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	r := NewRepository(db, clk)

	e := &Entry{Unit: "sshd.service", Action: "restart", Scope: "system", Succeeded: true, StateAfter: "active"}

	mock.ExpectExec(`INSERT INTO actions`).
		WithArgs(e.Unit, e.Action, e.Scope, true, "", "active", clk.Now().UTC()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := r.Record(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, clk.Now().UTC(), e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_error(t *testing.T) {
	db, mock := setupTestDB(t)
	r := NewRepository(db, clock.NewMock())

	mock.ExpectExec(`INSERT INTO actions`).WillReturnError(errors.New("disk full"))

	_, err := r.Record(context.Background(), &Entry{Unit: "a.service", Action: "start"})
	assert.EqualError(t, err, "disk full")
}

func TestList(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "unit", "action", "scope", "succeeded", "error", "state_after", "created_at"}

	t.Run("all entries", func(t *testing.T) {
		db, mock := setupTestDB(t)
		r := NewRepository(db, clock.NewMock())

		mock.ExpectQuery(`SELECT id, unit, action, scope, succeeded, error, state_after, created_at FROM actions ORDER BY id DESC`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(2, "b.service", "stop", "user", false, "denied", "", created).
				AddRow(1, "a.service", "start", "system", true, "", "active", created))

		entries, err := r.List(context.Background(), Query{})
		require.NoError(t, err)
		assert.Equal(t, []Entry{
			{ID: 2, Unit: "b.service", Action: "stop", Scope: "user", Succeeded: false, Error: "denied", CreatedAt: created},
			{ID: 1, Unit: "a.service", Action: "start", Scope: "system", Succeeded: true, StateAfter: "active", CreatedAt: created},
		}, entries)
	})

	t.Run("filtered and limited", func(t *testing.T) {
		db, mock := setupTestDB(t)
		r := NewRepository(db, clock.NewMock())

		mock.ExpectQuery(`FROM actions WHERE unit = \? ORDER BY id DESC LIMIT \?`).
			WithArgs("a.service", 5).
			WillReturnRows(sqlmock.NewRows(columns))

		entries, err := r.List(context.Background(), Query{Unit: "a.service", Limit: 5})
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNopRecorder(t *testing.T) {
	id, err := NopRecorder{}.Record(context.Background(), &Entry{})
	assert.NoError(t, err)
	assert.Zero(t, id)
}

func TestConnectionString(t *testing.T) {
	assert.Equal(t, "sqlite3:///var/lib/servicedeck/history.db", ConnectionString("/var/lib/servicedeck/history.db"))
}
