package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterCoalescesToLatest(t *testing.T) {
	m := NewMemory()
	w := NewWriter(m, time.Hour)

	for i := 1; i <= 5; i++ {
		require.NoError(t, w.Save(KeyStats, blob{Count: i}))
	}
	assert.Equal(t, 0, m.Saves(), "nothing is written before the flush")

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 1, m.Saves())

	got, err := LoadJSON(context.Background(), m, KeyStats, blob{})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)
}

func TestWriterDebounceFires(t *testing.T) {
	m := NewMemory()
	w := NewWriter(m, 20*time.Millisecond)

	require.NoError(t, w.Save(KeyStats, blob{Count: 1}))
	require.NoError(t, w.Save(KeyCounters, blob{Count: 2}))

	assert.Eventually(t, func() bool { return m.Saves() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWriterSynchronousWhenNoDelay(t *testing.T) {
	m := NewMemory()
	w := NewWriter(m, 0)

	require.NoError(t, w.Save(KeyStats, blob{Count: 7}))
	assert.Equal(t, 1, m.Saves())
}

func TestWriterDegradedAndRecovers(t *testing.T) {
	m := NewMemory()
	m.SetFailSaves(errors.New("read-only filesystem"))
	w := NewWriter(m, time.Hour)
	ctx := context.Background()

	require.NoError(t, w.Save(KeyStats, blob{Count: 1}), "save never surfaces persistence errors")
	assert.Error(t, w.Flush(ctx))
	assert.True(t, w.Degraded())

	m.SetFailSaves(nil)
	require.NoError(t, w.Flush(ctx), "failed snapshot is retried")
	assert.False(t, w.Degraded())

	got, err := LoadJSON(ctx, m, KeyStats, blob{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestWriterRetryDoesNotOverwriteNewer(t *testing.T) {
	m := NewMemory()
	m.SetFailSaves(errors.New("locked"))
	w := NewWriter(m, time.Hour)
	ctx := context.Background()

	require.NoError(t, w.Save(KeyStats, blob{Count: 1}))
	_ = w.Flush(ctx)
	require.NoError(t, w.Save(KeyStats, blob{Count: 2}))

	m.SetFailSaves(nil)
	require.NoError(t, w.Flush(ctx))

	got, err := LoadJSON(ctx, m, KeyStats, blob{})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
}

func TestWriterClose(t *testing.T) {
	m := NewMemory()
	w := NewWriter(m, time.Hour)

	require.NoError(t, w.Save(KeyStats, blob{Count: 3}))
	require.NoError(t, w.Close(context.Background()))
	assert.Equal(t, 1, m.Saves())

	assert.ErrorIs(t, w.Save(KeyStats, blob{Count: 4}), ErrClosed)
}
