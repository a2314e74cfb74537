package lookup

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned when submitting to a closed Pool.
var ErrPoolClosed = errors.New("worker pool closed")

// Job is a unit of work submitted to the Pool.
type Job func(ctx context.Context)

// Pool runs jobs on a fixed number of goroutines. It bounds how many
// fetches the engine has on the wire at once.
type Pool struct {
	jobs    chan Job
	done    chan struct{}
	wg      sync.WaitGroup
	workers int

	closeMu sync.RWMutex
	closed  bool
}

// NewPool creates a pool with the specified number of workers and job queue
// capacity.
func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		done:    make(chan struct{}),
		workers: workers,
	}
}

// Start begins the worker goroutines. They run until ctx is done or Close is
// called; on Close, queued jobs are drained first.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-p.jobs:
					job(ctx)
				case <-p.done:
					for {
						select {
						case job := <-p.jobs:
							job(ctx)
						default:
							return
						}
					}
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking while the queue is full.
func (p *Pool) Submit(job Job) error {
	return p.SubmitCtx(context.Background(), job)
}

// SubmitCtx enqueues a job but returns promptly if ctx is canceled or the
// pool is closed while waiting for queue space.
func (p *Pool) SubmitCtx(ctx context.Context, job Job) error {
	p.closeMu.RLock()
	closed := p.closed
	p.closeMu.RUnlock()
	if closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new jobs and waits for workers to finish.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.closeMu.Unlock()
	p.wg.Wait()
}
