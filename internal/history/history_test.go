package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-bible/internal/state"
)

func setupTestLog(t *testing.T) *SQLiteLog {
	t.Helper()
	log, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, log.Close()) })
	return log
}

var (
	s1 = state.Selection{Translation: "KJV", BookIndex: 0, Chapter: 1}
	s2 = state.Selection{Translation: "KJV", BookIndex: 18, Chapter: 23}
	s3 = state.Selection{Translation: "WEB", BookIndex: 42, Chapter: 3}
)

func receive(t *testing.T, ch <-chan []state.HistoryRecord) []state.HistoryRecord {
	t.Helper()
	select {
	case recs, ok := <-ch:
		require.True(t, ok, "channel closed")
		return recs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for history")
		return nil
	}
}

func TestSQLiteLog_InsertKeepsOrder(t *testing.T) {
	log := setupTestLog(t)
	ctx := context.Background()

	for _, s := range []state.Selection{s1, s2, s3} {
		rec, err := log.Insert(ctx, s)
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, s, rec.Selection)
	}

	all, err := log.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []state.Selection{s1, s2, s3}, state.Selections(all))
	assert.Less(t, all[0].Seq, all[1].Seq)
	assert.Less(t, all[1].Seq, all[2].Seq)
	assert.False(t, all[0].CreatedAt.IsZero())
}

func TestSQLiteLog_ListLimit(t *testing.T) {
	log := setupTestLog(t)
	ctx := context.Background()
	for _, s := range []state.Selection{s1, s2, s3} {
		_, err := log.Insert(ctx, s)
		require.NoError(t, err)
	}

	last, err := log.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []state.Selection{s2, s3}, state.Selections(last))
}

func TestSQLiteLog_Watch(t *testing.T) {
	log := setupTestLog(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := log.Insert(ctx, s1)
	require.NoError(t, err)

	ch, err := log.Watch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []state.Selection{s1}, state.Selections(receive(t, ch)))

	_, err = log.Insert(ctx, s2)
	require.NoError(t, err)
	assert.Equal(t, []state.Selection{s1, s2}, state.Selections(receive(t, ch)))

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// A snapshot may still be buffered; the close follows it.
			_, ok = <-ch
		}
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestSQLiteLog_ReopenKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	log, err := Open(dir)
	require.NoError(t, err)
	_, err = log.Insert(ctx, s1)
	require.NoError(t, err)
	require.NoError(t, log.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []state.Selection{s1}, state.Selections(all))
}

func TestMemoryLog_Watch(t *testing.T) {
	log := NewMemoryLog()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := log.Watch(ctx)
	require.NoError(t, err)
	assert.Empty(t, receive(t, ch))

	_, err = log.Insert(ctx, s3)
	require.NoError(t, err)
	recs := receive(t, ch)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].Seq)
	assert.Equal(t, s3, recs[0].Selection)
	assert.Len(t, log.Records(), 1)
}
