package runner

import (
	"context"
	"runtime"
	"sync"
)

// forEach calls fn for every index in [0, n) on at most workers goroutines.
// Dispatch stops once ctx is done; indexes never dispatched are not called.
func forEach(ctx context.Context, workers, n int, fn func(ctx context.Context, idx int)) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	workers = min(workers, n)

	idxCh := make(chan int, workers)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range idxCh {
				fn(ctx, idx)
			}
		}()
	}

dispatch:
	for idx := range n {
		select {
		case <-ctx.Done():
			break dispatch
		case idxCh <- idx:
		}
	}

	close(idxCh)
	wg.Wait()

	return ctx.Err()
}
