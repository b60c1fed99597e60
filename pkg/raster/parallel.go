package raster

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsPerTask keeps tiny images from being split into goroutines that do
// less work than it costs to start them.
const minRowsPerTask = 8

// ParallelRows splits [0, n) into contiguous bands and calls fn(start, end)
// for each band on its own goroutine. Bands are disjoint, so fn may write its
// own rows of a shared output without locking. It returns once every band
// has finished.
func ParallelRows(n int, fn func(start, end int)) {
	ParallelRange(n, minRowsPerTask, fn)
}

// ParallelRange is ParallelRows with an explicit minimum band size.
func ParallelRange(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	if chunk >= n {
		fn(0, n)
		return
	}
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
