package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingSweeper struct {
	calls int32
}

func (s *countingSweeper) Sweep(time.Time) int {
	atomic.AddInt32(&s.calls, 1)
	return 2
}

func TestSweepOnce(t *testing.T) {
	store := &countingSweeper{}
	if got := SweepOnce(store, time.Now()); got != 2 {
		t.Fatalf("expected 2 removed, got %d", got)
	}
}

func TestSessionSweepJobRunsUntilCancelled(t *testing.T) {
	store := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	StartSessionSweepJob(ctx, 5*time.Millisecond, store, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&store.calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep job did not tick")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
}

func TestSessionSweepJobWithoutStore(t *testing.T) {
	StartSessionSweepJob(context.Background(), time.Millisecond, nil, zerolog.Nop())
}
