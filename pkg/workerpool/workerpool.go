// Package workerpool runs fire-and-forget jobs on a fixed set of goroutines.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Job is a unit of work submitted to the Pool.
type Job func(ctx context.Context) error

var (
	// ErrClosed is returned when submitting to a closed pool.
	ErrClosed = errors.New("worker pool closed")
	// ErrQueueFull is returned by Submit when the queue has no room.
	ErrQueueFull = errors.New("worker pool queue full")
)

// Pool drains a bounded job queue with a fixed number of workers. Job errors
// go to the OnError hook when set.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc

	closeMu sync.RWMutex
	closed  bool

	OnError func(error)
}

// New creates a pool with the given worker count and queue capacity.
func New(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start launches the workers. Jobs receive a context derived from ctx that is
// cancelled once Close has drained the queue.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					if err := job(ctx); err != nil && p.OnError != nil {
						p.OnError(err)
					}
				}
			}
		}()
	}
}

// Submit enqueues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs, waits for queued ones to finish and stops the
// workers.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
}
