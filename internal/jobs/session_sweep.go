package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/metrics"
)

// Sweeper is a session store that has to drop its own expired entries.
type Sweeper interface {
	Sweep(now time.Time) int
}

// StartSessionSweepJob removes expired in-memory attendance sessions every interval
// until ctx is done. Redis-backed stores expire by TTL and need no job.
func StartSessionSweepJob(ctx context.Context, interval time.Duration, store Sweeper, logger zerolog.Logger) {
	if store == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	log := logger.With().Str("job", "session_sweep").Logger()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := SweepOnce(store, time.Now().UTC()); removed > 0 {
					log.Info().Int("removed", removed).Msg("expired attendance sessions removed")
				}
			}
		}
	}()
}

func SweepOnce(store Sweeper, now time.Time) int {
	removed := store.Sweep(now)
	metrics.CountSwept(removed)
	return removed
}
