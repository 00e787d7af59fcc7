package hierarchy

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// chunkRanges splits [0,n) into grain-sized half-open ranges. Mirrors the
// tbb::blocked_range chunking the original used for every parallel-for.
func chunkRanges(n, grain int) [][2]int {
	if grain <= 0 {
		grain = n
	}
	if n <= 0 {
		return nil
	}
	ranges := make([][2]int, 0, (n+grain-1)/grain)
	for lo := 0; lo < n; lo += grain {
		hi := lo + grain
		if hi > n {
			hi = n
		}
		ranges = append(ranges, [2]int{lo, hi})
	}
	return ranges
}

// parallelFor runs fn over disjoint [lo,hi) chunks of [0,n) concurrently
// and waits for all of them, for the error-free parallel-for regions (edge
// scoring, attribute synthesis, field initialization). Grounded on the
// goroutine-per-chunk + WaitGroup idiom used throughout the ligra-style
// VertexSubset/EdgeMap helpers in the retrieved pack.
func parallelFor(n, grain int, fn func(lo, hi int)) {
	ranges := chunkRanges(n, grain)
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for _, r := range ranges {
		r := r
		go func() {
			defer wg.Done()
			fn(r[0], r[1])
		}()
	}
	wg.Wait()
}

// parallelForErr is parallelFor's counterpart for regions that can fail,
// such as the parallel colorer running out of colors. The first error
// returned by any chunk is propagated; the rest of errgroup.Group's
// goroutines keep running to completion (our work doesn't need early
// cancellation, only error collection).
func parallelForErr(n, grain int, fn func(lo, hi int) error) error {
	ranges := chunkRanges(n, grain)
	var g errgroup.Group
	for _, r := range ranges {
		r := r
		g.Go(func() error {
			return fn(r[0], r[1])
		})
	}
	return g.Wait()
}
