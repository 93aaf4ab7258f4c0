package utils

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Splits [0, n) into at most parts contiguous, non-empty ranges of
// near-equal size. Returns the range boundaries as [start, end) pairs.
func Stripes(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	size, rest := n/parts, n%parts
	stripes := make([][2]int, 0, parts)
	start := 0
	for i := range parts {
		end := start + size
		if i < rest {
			end++ // The first `rest` stripes take one extra item
		}
		stripes = append(stripes, [2]int{start, end})
		start = end
	}

	return stripes
}

// Runs fn over [0, n) split into stripes, with at most workers stripes
// running at once (workers <= 0 means GOMAXPROCS). Returns once every
// stripe has finished, so all writes made by fn are visible to the caller.
//
// fn must only touch data owned by its own [start, end) range.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	stripes := Stripes(n, workers)
	if len(stripes) == 1 {
		fn(stripes[0][0], stripes[0][1])
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, s := range stripes {
		g.Go(func() error {
			fn(s[0], s[1])
			return nil
		})
	}
	g.Wait()
}
