// Package workpool runs index-addressed jobs over a bounded set of
// goroutines. Callers write result i from job i, so output order never
// depends on scheduling.
package workpool

import (
	"context"
	"sync"
)

// Run invokes fn(i) for every i in [0, n), at most workers at a time.
// workers < 2 degrades to a plain sequential loop. A cancelled context stops
// handing out jobs; jobs already started run to completion.
func Run(ctx context.Context, n, workers int, fn func(int)) {
	if n <= 0 {
		return
	}
	if workers < 2 {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return
			}
			fn(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			fn(i)
		}(i)
	}
	wg.Wait()
}
