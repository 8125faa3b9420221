package journal

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/tradewind/bundle"
)

// newTestStore connects to the test database named by TEST_DATABASE_URL.
// Tests are skipped when no database is available.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping journal tests")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(context.Background()))

	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM bundle_journal")
		pool.Close()
	})

	store := NewStore(pool)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestJournal_PendingThenSubmitted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.RecordPending(ctx, 0, []string{"tx1", "tx2"})
	require.NoError(t, err)
	require.NotZero(t, id)

	unresolved, err := store.ListUnresolved(ctx)
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, StatusPending, unresolved[0].Status)
	assert.Equal(t, []string{"tx1", "tx2"}, unresolved[0].Transactions)

	err = store.RecordOutcome(ctx, id, &bundle.Result{BundleID: "bundle-1"}, nil)
	require.NoError(t, err)

	unresolved, err = store.ListUnresolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, unresolved, "resolved entries leave the unresolved set")
}

func TestJournal_PendingThenFailed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.RecordPending(ctx, 1, []string{"tx1"})
	require.NoError(t, err)

	err = store.RecordOutcome(ctx, id, nil, errors.New("broadcast timed out"))
	require.NoError(t, err)

	unresolved, err := store.ListUnresolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, unresolved, "failed entries are resolved, not pending")
}
