package clients

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

// Snapshot holds the raw collections of one joint fetch.
type Snapshot map[Resource][]records.Raw

// Fetcher is what derivations need from the backend: a joint fetch of several
// collections.
type Fetcher interface {
	FetchAll(ctx context.Context, resources ...Resource) (Snapshot, error)
}

// FetchAll issues one request per resource concurrently and waits for all of them.
// If any request fails the whole group fails: no partial snapshot is returned.
func (b *Backend) FetchAll(ctx context.Context, resources ...Resource) (Snapshot, error) {
	var (
		mu       sync.Mutex
		snapshot = make(Snapshot, len(resources))
		g        errgroup.Group
	)
	for _, resource := range resources {
		resource := resource
		g.Go(func() error {
			list, err := b.List(ctx, resource)
			if err != nil {
				return err
			}
			mu.Lock()
			snapshot[resource] = list
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "load")
	}
	return snapshot, nil
}
