package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 4, 4},
		{"zero defaults to GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative defaults to GOMAXPROCS", -5, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.workers)
			t.Cleanup(pool.Close)

			if got := pool.Workers(); got != tt.want {
				t.Errorf("Workers() = %d, want %d", got, tt.want)
			}
			if !pool.IsRunning() {
				t.Error("IsRunning() = false after creation")
			}
		})
	}
}

func TestExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	t.Cleanup(pool.Close)

	var count atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}

	pool.ExecuteAll(work)

	if got := count.Load(); got != 100 {
		t.Errorf("ran %d items, want 100", got)
	}
}

func TestExecuteAllEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	t.Cleanup(pool.Close)

	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestExecuteAllDisjointWrites(t *testing.T) {
	pool := NewWorkerPool(2)
	t.Cleanup(pool.Close)

	results := make([]int, 64)
	work := make([]func(), len(results))
	for i := range work {
		work[i] = func() { results[i] = i + 1 }
	}

	pool.ExecuteAll(work)

	for i, got := range results {
		if got != i+1 {
			t.Errorf("results[%d] = %d, want %d", i, got, i+1)
		}
	}
}

func TestExecuteAllWaitsForSlowItems(t *testing.T) {
	pool := NewWorkerPool(4)
	t.Cleanup(pool.Close)

	var count atomic.Int64
	work := make([]func(), 16)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}
	work[0] = func() {
		time.Sleep(20 * time.Millisecond)
		count.Add(1)
	}

	pool.ExecuteAll(work)

	if got := count.Load(); got != 16 {
		t.Errorf("ExecuteAll returned with %d of 16 items done", got)
	}
}

func TestExecuteAllConcurrentCallers(t *testing.T) {
	pool := NewWorkerPool(4)
	t.Cleanup(pool.Close)

	var count atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func(), 25)
			for i := range work {
				work[i] = func() { count.Add(1) }
			}
			pool.ExecuteAll(work)
		}()
	}
	wg.Wait()

	if got := count.Load(); got != 200 {
		t.Errorf("ran %d items, want 200", got)
	}
}

func TestClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}

	var count atomic.Int64
	pool.ExecuteAll([]func(){func() { count.Add(1) }})
	if got := count.Load(); got != 0 {
		t.Errorf("closed pool ran %d items, want 0", got)
	}
}

func BenchmarkExecuteAll(b *testing.B) {
	pool := NewWorkerPool(0)
	b.Cleanup(pool.Close)

	var sink atomic.Int64
	work := make([]func(), 256)
	for i := range work {
		work[i] = func() { sink.Add(1) }
	}

	b.ReportAllocs()
	for b.Loop() {
		pool.ExecuteAll(work)
	}
}
