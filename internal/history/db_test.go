package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/servicedeck/internal/log"
)

func TestOpen_migratesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := Open(path, log.Nop())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewRepository(db, clock.New())
	ctx := context.Background()
	_, err = repo.Record(ctx, &Entry{Unit: "a.service", Action: "start", Scope: "system", Succeeded: true})
	require.NoError(t, err)
	_, err = repo.Record(ctx, &Entry{Unit: "b.service", Action: "stop", Scope: "system", Error: "denied"})
	require.NoError(t, err)

	entries, err := repo.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b.service", entries[0].Unit)
	assert.False(t, entries[0].Succeeded)

	// Reopening applies no new migrations.
	require.NoError(t, Up(path, log.Nop()))
}
