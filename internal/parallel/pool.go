// Package parallel provides the worker pool that fans row-granular
// sampling work out across CPUs.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs closures on a fixed set of goroutines. Each worker owns
// a buffered queue and steals from its siblings when idle, which keeps
// every worker busy when some rows cost more than others.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	mu     sync.RWMutex // held shared by ExecuteAll, exclusively by Close
	queues []chan func()
	quit   chan struct{}
	wg     sync.WaitGroup
	open   atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers. Zero or
// negative means GOMAXPROCS. Workers begin waiting for work immediately.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := workers * 4
	if depth < 8 {
		depth = 8
	}

	p := &WorkerPool{
		queues: make([]chan func(), workers),
		quit:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.open.Store(true)

	p.wg.Add(workers)
	for i := range p.queues {
		go p.run(i)
	}
	return p
}

// run serves the worker's own queue and steals when it runs dry.
func (p *WorkerPool) run(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case fn := <-own:
			fn()
		case <-p.quit:
			return
		default:
			if fn := p.steal(id); fn != nil {
				fn()
				continue
			}
			select {
			case fn := <-own:
				fn()
			case <-p.quit:
				return
			}
		}
	}
}

// steal takes one queued item from any other worker, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i, q := range p.queues {
		if i == id {
			continue
		}
		select {
		case fn := <-q:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll spreads the work items round-robin across the workers and
// blocks until every one of them has run. On a closed pool it is a no-op.
func (p *WorkerPool) ExecuteAll(work []func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(work) == 0 || !p.open.Load() {
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer pending.Done()
			fn()
		}
		p.queues[i%len(p.queues)] <- wrapped
	}
	pending.Wait()
}

// Close stops the workers. It waits for in-flight ExecuteAll calls to
// return, so no queued work is abandoned. Safe to call more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open.CompareAndSwap(true, false) {
		return
	}
	close(p.quit)
	p.wg.Wait()
}

// Workers reports the pool size.
func (p *WorkerPool) Workers() int { return len(p.queues) }

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool { return p.open.Load() }
