package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(ctx context.Context, job T) G

// WorkerPool. numWorkers goroutines applying one JobFunc to queued jobs.
// results come out in completion order, not in submission order.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: max(numWorkers, 1),
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(ctx, job)
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

// Wait. block until every worker is done, then close the result channel. call after Close.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

// Close. no more jobs
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) NumWorkers() int {
	return wp.numWorkers
}

type indexed[T any] struct {
	i   int
	val T
}

// Map. run jobFunc over jobs on numWorkers goroutines, results are in job order
func Map[T any, G any](ctx context.Context, numWorkers int, jobs []T, jobFunc JobFunc[T, G]) []G {
	wp := NewWorkerPool[indexed[T], indexed[G]](numWorkers, len(jobs))
	wp.Start(ctx, func(ctx context.Context, job indexed[T]) indexed[G] {
		return indexed[G]{i: job.i, val: jobFunc(ctx, job.val)}
	})
	for i, job := range jobs {
		wp.AddJob(indexed[T]{i: i, val: job})
	}
	wp.Close()
	wp.Wait()

	results := make([]G, len(jobs))
	for res := range wp.CollectResults() {
		results[res.i] = res.val
	}
	return results
}
