// Package pool provides the worker pool connection services schedule their
// long-running operations on. A process-wide default pool is created once
// and shared so independent services reuse the same pool instead of each
// growing their own.
package pool

import "sync"

// Pool runs submitted functions on tracked goroutines. A limit of zero means
// unbounded concurrency.
type Pool struct {
	wg  sync.WaitGroup
	sem chan struct{}
}

// New returns a pool that runs at most limit functions concurrently.
// limit <= 0 disables the bound.
func New(limit int) *Pool {
	p := &Pool{}
	if limit > 0 {
		p.sem = make(chan struct{}, limit)
	}
	return p
}

// Go schedules fn on the pool. It blocks only when the pool is bounded and
// saturated.
func (p *Pool) Go(fn func()) {
	if p.sem != nil {
		p.sem <- struct{}{}
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.sem != nil {
			defer func() { <-p.sem }()
		}
		fn()
	}()
}

// Wait blocks until every scheduled function has returned.
func (p *Pool) Wait() { p.wg.Wait() }

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the process-wide shared pool, creating it on first use.
// Its lifetime is the lifetime of the process.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = New(0)
	})
	return defaultPool
}
