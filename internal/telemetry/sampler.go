package telemetry

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	evaluations     uint64
	cacheable       uint64
	notCacheable    uint64
	hookErrors      uint64
	dependencyIDs   uint64
	invalidationIDs uint64
	delayed         uint64
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		evaluations:     delta(prev.evaluations, cur.evaluations),
		cacheable:       delta(prev.cacheable, cur.cacheable),
		notCacheable:    delta(prev.notCacheable, cur.notCacheable),
		hookErrors:      delta(prev.hookErrors, cur.hookErrors),
		dependencyIDs:   delta(prev.dependencyIDs, cur.dependencyIDs),
		invalidationIDs: delta(prev.invalidationIDs, cur.invalidationIDs),
		delayed:         delta(prev.delayed, cur.delayed),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
