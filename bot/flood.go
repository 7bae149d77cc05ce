package bot

import (
	"sync"
	"time"
)

const defaultNotifyWindow = 10 * time.Minute

// floodGuard allows at most limit events per key within a sliding window.
type floodGuard struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[int64][]time.Time
	now    func() time.Time
}

func newFloodGuard(limit int, window time.Duration) *floodGuard {
	return &floodGuard{
		limit:  limit,
		window: window,
		hits:   make(map[int64][]time.Time),
		now:    time.Now,
	}
}

func (f *floodGuard) Allow(key int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	cutoff := now.Add(-f.window)

	kept := f.hits[key][:0]
	for _, hit := range f.hits[key] {
		if hit.After(cutoff) {
			kept = append(kept, hit)
		}
	}

	if len(kept) >= f.limit {
		f.hits[key] = kept
		return false
	}

	f.hits[key] = append(kept, now)
	return true
}
