package telemetry

import "sync/atomic"

// Counters are the monotonic evaluation counters of one engine.
type Counters struct {
	evaluations     atomic.Int64
	cacheable       atomic.Int64
	notCacheable    atomic.Int64
	hookErrors      atomic.Int64
	dependencyIDs   atomic.Int64
	invalidationIDs atomic.Int64
	delayed         atomic.Int64
}

func NewCounters() *Counters {
	return &Counters{}
}

// Observe records one finished evaluation.
func (c *Counters) Observe(cacheable, delayed bool, dependencyIDs, invalidationIDs int) {
	c.evaluations.Add(1)
	if cacheable {
		c.cacheable.Add(1)
	} else {
		c.notCacheable.Add(1)
	}
	if delayed {
		c.delayed.Add(1)
	}
	c.dependencyIDs.Add(int64(dependencyIDs))
	c.invalidationIDs.Add(int64(invalidationIDs))
}

// HookError records an evaluation aborted by a value source or generator error.
func (c *Counters) HookError() {
	c.evaluations.Add(1)
	c.hookErrors.Add(1)
}

// AddInvalidationIDs records ids computed outside of an evaluation (delayed invalidations).
func (c *Counters) AddInvalidationIDs(n int) {
	c.invalidationIDs.Add(int64(n))
}

func (c *Counters) snapshot() snapshot {
	return snapshot{
		evaluations:     uint64(max(c.evaluations.Load(), 0)),
		cacheable:       uint64(max(c.cacheable.Load(), 0)),
		notCacheable:    uint64(max(c.notCacheable.Load(), 0)),
		hookErrors:      uint64(max(c.hookErrors.Load(), 0)),
		dependencyIDs:   uint64(max(c.dependencyIDs.Load(), 0)),
		invalidationIDs: uint64(max(c.invalidationIDs.Load(), 0)),
		delayed:         uint64(max(c.delayed.Load(), 0)),
	}
}
