// Package lookup resolves search strings to dictionary subjects. It keeps a
// process-lifetime cache keyed by the classified query, fetches each key at
// most once at a time, and tells the presentation layer when an entry
// settles so it can render again.
package lookup

import (
	"context"
	"sync"

	"github.com/apex/log"

	"github.com/japaniel/kanjikai/pkg/api"
	"github.com/japaniel/kanjikai/pkg/query"
	"github.com/japaniel/kanjikai/pkg/subject"
	"github.com/japaniel/kanjikai/pkg/words"
)

// RetryPolicy decides what a lookup of a failed key does.
type RetryPolicy int

const (
	// RetryNever returns the cached failure for the life of the engine.
	RetryNever RetryPolicy = iota
	// RetryOnLookup replaces a failed entry with a fresh pending one and
	// fetches again.
	RetryOnLookup
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	Resolver api.Resolver
	// OnRedraw is called once each time an entry or the word corpus leaves
	// the pending state. It runs on a worker goroutine, never under the
	// engine lock.
	OnRedraw func()
	Retry    RetryPolicy
	// Workers bounds concurrent fetches. Defaults to 4.
	Workers int
	Logger  log.Interface
}

type entry struct {
	status Status
	result subject.Subject
	err    error
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{Status: e.status, Subject: e.result, Err: e.err}
}

type corpusState int

const (
	corpusIdle corpusState = iota
	corpusLoading
	corpusLoaded
	corpusFailed
)

// Engine is the cache/lookup core. All methods are safe for concurrent use.
type Engine struct {
	fetcher  api.Fetcher
	resolver api.Resolver
	onRedraw func()
	retry    RetryPolicy
	logger   log.Interface

	pool   *Pool
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	idle      *sync.Cond
	inflight  int
	entries   map[string]*entry
	corpus    corpusState
	index     *words.Index
	corpusErr error
}

// NewEngine creates an engine fetching through fetcher.
func NewEngine(fetcher api.Fetcher, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Log
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		fetcher:  fetcher,
		resolver: opts.Resolver,
		onRedraw: opts.OnRedraw,
		retry:    opts.Retry,
		logger:   logger,
		pool:     NewPool(workers, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		entries:  make(map[string]*entry),
	}
	e.idle = sync.NewCond(&e.mu)
	e.pool.Start(ctx)
	return e
}

// Lookup classifies raw and returns the current state of its cache entry
// without blocking. The first lookup of a key starts its fetch; lookups
// while that fetch is outstanding observe the same pending entry.
func (e *Engine) Lookup(raw string) Snapshot {
	q := query.Classify(raw)
	if !q.Valid() {
		return Snapshot{Status: StatusInvalid, Err: q.Err()}
	}

	e.mu.Lock()
	if ent, ok := e.entries[q.Key]; ok {
		if ent.status != StatusError || e.retry != RetryOnLookup {
			snap := ent.snapshot()
			e.mu.Unlock()
			return snap
		}
	}
	ent := &entry{status: StatusPending}
	e.entries[q.Key] = ent
	e.inflight++
	e.mu.Unlock()

	e.dispatch(func(ctx context.Context) {
		subj, err := e.fetchSubject(ctx, q)
		e.settle(q, ent, subj, err)
	}, func(err error) {
		e.settle(q, ent, nil, err)
	})
	return Snapshot{Status: StatusPending}
}

// Peek returns the cached state of raw without starting a fetch. ok is false
// when the key has never been looked up.
func (e *Engine) Peek(raw string) (snap Snapshot, ok bool) {
	q := query.Classify(raw)
	if !q.Valid() {
		return Snapshot{Status: StatusInvalid, Err: q.Err()}, true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries[q.Key]
	if !ok {
		return Snapshot{}, false
	}
	return ent.snapshot(), true
}

func (e *Engine) fetchSubject(ctx context.Context, q query.Query) (subject.Subject, error) {
	path, err := e.resolver.Path(q)
	if err != nil {
		return nil, err
	}
	e.logger.WithFields(log.Fields{"key": q.Key, "kind": q.Kind, "path": path}).Debug("fetching subject")

	body, err := e.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	if q.Kind == query.Kanji {
		k, err := subject.ParseKanji(body)
		if err != nil {
			return nil, &api.TransportError{Path: path, Reason: "decode kanji", Err: err}
		}
		return k, nil
	}
	r, err := subject.ParseReading(body)
	if err != nil {
		return nil, &api.TransportError{Path: path, Reason: "decode reading", Err: err}
	}
	return r, nil
}

func (e *Engine) settle(q query.Query, ent *entry, subj subject.Subject, err error) {
	e.mu.Lock()
	if err != nil {
		ent.status = StatusError
		ent.err = err
	} else {
		ent.status = StatusOK
		ent.result = subj
	}
	e.mu.Unlock()

	fields := log.Fields{"key": q.Key, "kind": q.Kind}
	if err != nil {
		e.logger.WithFields(fields).WithError(err).Warn("lookup failed")
	} else {
		e.logger.WithFields(fields).Debug("lookup settled")
	}
	e.finish()
}

// finish notifies the presentation layer and then marks one fetch done, so
// Wait never returns before the matching redraw.
func (e *Engine) finish() {
	if e.onRedraw != nil {
		e.onRedraw()
	}
	e.mu.Lock()
	e.inflight--
	if e.inflight == 0 {
		e.idle.Broadcast()
	}
	e.mu.Unlock()
}

// dispatch hands run to the pool without blocking the caller. If the pool
// refuses the job, fail is called instead so the entry still settles.
func (e *Engine) dispatch(run func(ctx context.Context), fail func(error)) {
	go func() {
		if err := e.pool.SubmitCtx(e.ctx, Job(run)); err != nil {
			fail(err)
		}
	}()
}

// Wait blocks until no fetch is outstanding.
func (e *Engine) Wait() {
	e.mu.Lock()
	for e.inflight > 0 {
		e.idle.Wait()
	}
	e.mu.Unlock()
}

// Close waits for outstanding fetches and stops the workers. Lookups after
// Close settle as errors.
func (e *Engine) Close() {
	e.Wait()
	e.pool.Close()
	e.cancel()
}

// Len reports how many keys are cached.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}
