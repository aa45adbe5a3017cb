package parallel

import "sync"

// minBand is the smallest band worth handing to another goroutine.
const minBand = 16

var (
	sharedOnce sync.Once
	shared     *WorkerPool
)

// Shared returns the process-wide pool, started on first use.
func Shared() *WorkerPool {
	sharedOnce.Do(func() { shared = NewWorkerPool(0) })
	return shared
}

// Bands splits [0, n) into contiguous ranges and calls fn once per range.
// Ranges never overlap, so fn may write to disjoint output regions
// without locking. Small n runs on the calling goroutine.
func Bands(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if n < 2*minBand {
		fn(0, n)
		return
	}
	p := Shared()
	parts := min(p.Workers()*2, n/minBand)
	if parts <= 1 {
		fn(0, n)
		return
	}

	work := make([]func(), 0, parts)
	for i := range parts {
		lo, hi := i*n/parts, (i+1)*n/parts
		work = append(work, func() { fn(lo, hi) })
	}
	p.ExecuteAll(work)
}
