package concurrency

import (
	"context"
	"sync"
)

type WorkerFn func(ctx context.Context, index int) error

// SimpleWorkerPool runs fn for every index in [0, tasks) using at most
// concurrency goroutines. The first error cancels the context seen by the
// remaining calls and is returned once all workers have stopped.
func SimpleWorkerPool(ctx context.Context, concurrency int, tasks int, fn WorkerFn) error {
	if tasks <= 0 {
		return nil
	}
	if concurrency <= 0 || concurrency > tasks {
		concurrency = tasks
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := fn(ctx, idx); err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
				}
			}
		}()
	}

feed:
	for i := 0; i < tasks; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// FanOut runs every task in parallel and waits for all of them. Any failure
// fails the whole call.
func FanOut(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	return SimpleWorkerPool(ctx, len(tasks), len(tasks), func(ctx context.Context, i int) error {
		return tasks[i](ctx)
	})
}
