package pool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoRunsEverySubmittedFunc(t *testing.T) {
	p := New(0)
	var count atomic.Int64
	for i := 0; i < 50; i++ {
		p.Go(func() { count.Add(1) })
	}
	p.Wait()
	assert.Equal(t, int64(50), count.Load())
}

func TestBoundedPoolLimitsConcurrency(t *testing.T) {
	const limit = 3
	p := New(limit)

	var mu sync.Mutex
	running, peak := 0, 0

	for i := 0; i < 20; i++ {
		p.Go(func() {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	p.Wait()

	assert.LessOrEqual(t, peak, limit)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
