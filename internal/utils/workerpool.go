package utils

import (
	"context"
	"sort"
	"sync"
)

// Task is one unit of work and its outcome
type Task[T any] struct {
	Index  int
	Data   T
	Result any
	Err    error
}

// Worker is a function that processes a task
type Worker[T any] func(ctx context.Context, data T) (any, error)

// Pool runs a Worker over submitted items on a fixed number of goroutines
type Pool[T any] struct {
	workers    int
	taskQueue  chan *Task[T]
	resultChan chan *Task[T]
	wg         sync.WaitGroup
	worker     Worker[T]
	stopOnce   sync.Once
}

// NewPool creates a new worker pool
func NewPool[T any](workers int, worker Worker[T]) *Pool[T] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T]{
		workers:    workers,
		taskQueue:  make(chan *Task[T], workers*2),
		resultChan: make(chan *Task[T], workers*2),
		worker:     worker,
	}
}

// Start starts the worker pool
func (p *Pool[T]) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx)
	}
}

// runWorker runs a single worker
func (p *Pool[T]) runWorker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			result, err := p.worker(ctx, task.Data)
			task.Result = result
			task.Err = err

			select {
			case p.resultChan <- task:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Submit submits a task to the pool
func (p *Pool[T]) Submit(data T) {
	p.taskQueue <- &Task[T]{Data: data}
}

// Results returns the results channel
func (p *Pool[T]) Results() <-chan *Task[T] {
	return p.resultChan
}

// Stop stops the pool and waits for workers to finish
func (p *Pool[T]) Stop() {
	p.stopOnce.Do(func() {
		close(p.taskQueue)
		p.wg.Wait()
		close(p.resultChan)
	})
}

// Process runs the worker over items concurrently. Results arrive in
// completion order; use Ordered to restore input order.
func (p *Pool[T]) Process(ctx context.Context, items []T) ([]*Task[T], error) {
	if len(items) == 0 {
		return []*Task[T]{}, nil
	}

	p.Start(ctx)

	go func() {
		for i, item := range items {
			select {
			case <-ctx.Done():
				return
			default:
				p.taskQueue <- &Task[T]{Data: item, Index: i}
			}
		}
		close(p.taskQueue)
	}()

	results := make([]*Task[T], 0, len(items))
	collectDone := false
	for !collectDone {
		select {
		case <-ctx.Done():
			collectDone = true
		case task, ok := <-p.resultChan:
			if !ok {
				collectDone = true
			} else {
				results = append(results, task)
				if len(results) == len(items) {
					collectDone = true
				}
			}
		}
	}

	p.wg.Wait()

	// Drain remaining results to avoid goroutine leak
	go func() {
		for range p.resultChan {
		}
	}()
	close(p.resultChan)

	if ctx.Err() != nil {
		return results, ctx.Err()
	}

	return results, nil
}

// FirstError returns the first non-nil error from a slice of errors
func FirstError(errors []error) error {
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}

// CollectErrors collects all non-nil errors from a slice
func CollectErrors(errors []error) []error {
	var result []error
	for _, err := range errors {
		if err != nil {
			result = append(result, err)
		}
	}
	return result
}

// Ordered returns tasks sorted by their submission index
func Ordered[T any](tasks []*Task[T]) []*Task[T] {
	out := make([]*Task[T], len(tasks))
	copy(out, tasks)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
