package lookup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(4, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	var ran int32
	jobs := 100
	for i := 0; i < jobs; i++ {
		err := p.Submit(func(ctx context.Context) {
			atomic.AddInt32(&ran, 1)
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	// Close drains the queue before returning.
	p.Close()

	if got := atomic.LoadInt32(&ran); int(got) != jobs {
		t.Fatalf("expected %d jobs executed, got %d", jobs, got)
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := NewPool(1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	p.Close()
	cancel()
	if err := p.Submit(func(ctx context.Context) {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPoolSubmitUnblocksOnClose(t *testing.T) {
	p := NewPool(1, 1)
	// No workers, so the queue stays full after one job.
	if err := p.Submit(func(ctx context.Context) {}); err != nil {
		t.Fatalf("setup submit failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Submit(func(ctx context.Context) {})
	}()

	time.Sleep(10 * time.Millisecond)
	p.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("expected ErrPoolClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Submit did not return after Close")
	}
}

func TestPoolSubmitCtxCanceled(t *testing.T) {
	p := NewPool(1, 1)
	defer p.Close()
	if err := p.Submit(func(ctx context.Context) {}); err != nil {
		t.Fatalf("setup submit failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.SubmitCtx(ctx, func(ctx context.Context) {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestPoolContextCancellationStopsWorkers(t *testing.T) {
	p := NewPool(2, 16)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	done := make(chan struct{}, 1)
	go func() {
		p.Close()
		done <- struct{}{}
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("Close blocked after context cancellation")
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(2, 8)
	p.Start(context.Background())

	var running, peak int32
	release := make(chan struct{})
	for i := 0; i < 6; i++ {
		if err := p.Submit(func(ctx context.Context) {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	p.Close()

	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Fatalf("expected at most 2 concurrent jobs, saw %d", got)
	}
}
