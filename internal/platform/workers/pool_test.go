package workers

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := New(4, 16)
	defer pool.Close()

	var ran atomic.Int64
	resultC := make(chan Result, 10)
	for i := 0; i < 10; i++ {
		i := i
		pool.Submit(Task{
			Fn: func() (any, error) {
				ran.Add(1)
				return i * 2, nil
			},
			ResultC: resultC,
		})
	}

	sum := 0
	for i := 0; i < 10; i++ {
		res := <-resultC
		if res.Err != nil {
			t.Fatalf("unexpected task error: %v", res.Err)
		}
		sum += res.Value.(int)
	}
	if ran.Load() != 10 {
		t.Fatalf("expected 10 tasks to run, got %d", ran.Load())
	}
	if sum != 90 {
		t.Fatalf("expected result sum 90, got %d", sum)
	}
}

func TestPoolDeliversErrors(t *testing.T) {
	pool := New(1, 1)
	defer pool.Close()

	resultC := make(chan Result, 1)
	pool.Submit(Task{
		Fn:      func() (any, error) { return nil, errors.New("boom") },
		ResultC: resultC,
	})

	res := <-resultC
	if res.Err == nil || res.Err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", res.Err)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := New(2, 8)
	defer pool.Close()

	var active, peak atomic.Int64
	resultC := make(chan Result, 8)
	for i := 0; i < 8; i++ {
		pool.Submit(Task{
			Fn: func() (any, error) {
				now := active.Add(1)
				for {
					old := peak.Load()
					if now <= old || peak.CompareAndSwap(old, now) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
				return nil, nil
			},
			ResultC: resultC,
		})
	}
	for i := 0; i < 8; i++ {
		<-resultC
	}
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, saw %d", peak.Load())
	}
}
