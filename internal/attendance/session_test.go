package attendance

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)
	require.NoError(t, w.Select(ctx, backend, 1))
	require.NoError(t, w.Toggle(10))

	snap := w.Snapshot()
	assert.Equal(t, PhaseMarkAttendance, snap.Phase)
	assert.Equal(t, 1, snap.Present)

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, restored.Present())
	require.NoError(t, restored.Toggle(10))
	assert.Equal(t, []int64{11}, w.Present(), "restored workflow must not share marks")
}

func TestRestoreRejectsMixedPhases(t *testing.T) {
	_, err := Restore(Snapshot{Phase: PhaseMarkAttendance})
	assert.Error(t, err)

	_, err = Restore(Snapshot{Phase: PhaseSelectClass, Roster: []Mark{{Present: true}}})
	assert.Error(t, err)

	_, err = Restore(Snapshot{Phase: "archived"})
	assert.Error(t, err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	w, _ := Start(ctx, newFake())
	session := NewSession("user-1", w, now)
	require.NotEmpty(t, session.ID)
	require.NoError(t, store.Save(ctx, session))

	got, ok, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.Owner)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, store.Sweep(now))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	w, _ := Start(ctx, newFake())
	session := NewSession("user-1", w, time.Now())
	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Delete(ctx, session.ID))

	_, ok, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreWithoutClient(t *testing.T) {
	store := NewRedisStore(nil, time.Minute)
	_, _, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	w, _ := Start(ctx, newFake())
	session := NewSession("user-1", w, time.Now())

	require.NoError(t, store.Save(ctx, session))
	got, ok, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.State.Phase, got.State.Phase)
	assert.Len(t, got.State.Classes, 2)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, ok, err = store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
