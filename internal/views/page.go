// Package views holds the page controllers. Each page owns an explicit state object:
// the operator's filter criteria and the last snapshot fetched for it. Views are
// re-derived from that state on every read.
package views

import (
	"context"
	"sync"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
)

// Status is the part of every view that reports the last refresh.
type Status struct {
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

// controller is the state shared by all pages. D is the page's decoded snapshot.
//
// Refreshes are not cancelled or sequenced: whichever completes last sets the data.
type controller[D any] struct {
	fetcher   clients.Fetcher
	resources []clients.Resource
	decode    func(clients.Snapshot) D

	mu       sync.Mutex
	criteria filter.Criteria
	data     D
	loaded   bool
	err      error
}

func newController[D any](fetcher clients.Fetcher, decode func(clients.Snapshot) D, resources ...clients.Resource) *controller[D] {
	return &controller[D]{
		fetcher:   fetcher,
		resources: resources,
		decode:    decode,
		criteria:  filter.Reset(),
	}
}

// Refresh re-fetches the page's collections as one group. A failure clears the
// derived data and is kept as the page's single error.
func (c *controller[D]) Refresh(ctx context.Context) error {
	snapshot, err := c.fetcher.FetchAll(ctx, c.resources...)
	var data D
	if err == nil {
		data = c.decode(snapshot)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.loaded = err == nil
	c.err = err
	return err
}

// SetCriteria changes the filter without re-fetching.
func (c *controller[D]) SetCriteria(criteria filter.Criteria) {
	c.mu.Lock()
	c.criteria = criteria
	c.mu.Unlock()
}

func (c *controller[D]) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

func (c *controller[D]) state() (D, filter.Criteria, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := Status{Loaded: c.loaded}
	if c.err != nil {
		status.Error = clients.UserMessage(c.err)
	}
	return c.data, c.criteria, status
}
