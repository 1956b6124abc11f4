package fractal

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool runs submitted functions off the calling goroutine.
type Pool interface {
	Go(fn func()) error
}

// WorkerPool starts one goroutine per submitted function.
//
// With maxInFlight == 0 the pool is unbounded. Otherwise at most maxInFlight
// functions run at once, and Go fails with ErrPoolExhausted instead of
// queueing when every slot is taken.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	sem      *semaphore.Weighted // nil when unbounded
	running  atomic.Bool
	inFlight atomic.Int64
	wg       sync.WaitGroup
}

// NewWorkerPool returns a running pool. A non-positive maxInFlight means unbounded.
func NewWorkerPool(maxInFlight int) *WorkerPool {
	p := &WorkerPool{}
	if maxInFlight > 0 {
		p.sem = semaphore.NewWeighted(int64(maxInFlight))
	}
	p.running.Store(true)
	return p
}

// Go starts fn on its own goroutine. It never blocks.
func (p *WorkerPool) Go(fn func()) error {
	if !p.running.Load() {
		return ErrPoolClosed
	}
	if p.sem != nil && !p.sem.TryAcquire(1) {
		return ErrPoolExhausted
	}

	p.inFlight.Add(1)
	p.wg.Add(1)
	go func() {
		defer func() {
			p.inFlight.Add(-1)
			if p.sem != nil {
				p.sem.Release(1)
			}
			p.wg.Done()
		}()
		fn()
	}()
	return nil
}

// InFlight reports the number of functions still running.
func (p *WorkerPool) InFlight() int {
	return int(p.inFlight.Load())
}

// Running reports whether the pool accepts work.
func (p *WorkerPool) Running() bool {
	return p.running.Load()
}

// Close stops accepting work. Functions already started run to completion.
func (p *WorkerPool) Close() {
	p.running.Store(false)
}

// Wait blocks until every started function has returned.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
