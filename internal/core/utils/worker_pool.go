package utils

import "sync"

type CompletedTask[T any] struct {
	Index  int
	Result T
	Error  error
}

type QueuedTask[T any] struct {
	Index int
	Value T
}

func RunInPool[In any, Out any](worker func(In) (Out, error), queue chan QueuedTask[In], completed chan CompletedTask[Out], maxWorkers int) {
	workers := max(1, min(len(queue), maxWorkers))

	go func() {
		wg := sync.WaitGroup{}
		wg.Add(workers)

		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()

				for {
					next, ok := <-queue
					if !ok {
						return
					}

					res, err := worker(next.Value)
					if err != nil {
						completed <- CompletedTask[Out]{Index: next.Index, Error: err}
					} else {
						completed <- CompletedTask[Out]{Index: next.Index, Result: res}
					}
				}
			}()
		}

		wg.Wait()

		close(completed)
	}()
}

// MapInPool applies worker to every item with up to maxWorkers goroutines and
// returns the results in input order. onDone, if set, is called once per
// completed item from the calling goroutine. The first error is returned
// after all queued items have drained.
func MapInPool[In any, Out any](items []In, worker func(In) (Out, error), maxWorkers int, onDone func()) ([]Out, error) {
	queue := make(chan QueuedTask[In], len(items))
	for i, item := range items {
		queue <- QueuedTask[In]{Index: i, Value: item}
	}
	close(queue)

	completed := make(chan CompletedTask[Out], len(items))
	RunInPool(worker, queue, completed, maxWorkers)

	results := make([]Out, len(items))
	var firstErr error
	firstErrIndex := len(items)
	for task := range completed {
		if task.Error != nil {
			if task.Index < firstErrIndex {
				firstErr, firstErrIndex = task.Error, task.Index
			}
		} else {
			results[task.Index] = task.Result
		}
		if onDone != nil {
			onDone()
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
