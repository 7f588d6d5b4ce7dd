package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countJob struct {
	counter *atomic.Int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var counter atomic.Int64
	for i := 0; i < 20; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()

	if counter.Load() != 20 {
		t.Errorf("Expected 20 executions, got %d", counter.Load())
	}
	if len(results) != 20 {
		t.Errorf("Expected 20 results, got %d", len(results))
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
	pool.Submit(&countJob{counter: &counter, fail: true})

	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failed result, got %d", failures)
	}
}

func TestPool_SubmitBeyondQueueCapacity(t *testing.T) {
	// Far more jobs than the internal channel buffers hold; submission
	// must not block while workers are producing results.
	pool := NewPool(1)
	pool.Start()

	var counter atomic.Int64
	for i := 0; i < 100; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()

	if counter.Load() != 100 {
		t.Errorf("Expected 100 executions, got %d", counter.Load())
	}
	if len(results) != 100 {
		t.Errorf("Expected 100 results, got %d", len(results))
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestLimiter_AllowRespectsRate(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://edu.example/page") {
		t.Error("First request should be allowed")
	}
	if l.Allow("https://edu.example/page") {
		t.Error("Second immediate request should be limited")
	}
	// A different domain gets a fresh limiter.
	if !l.Allow("https://other.example/page") {
		t.Error("Different domain should have a separate limiter")
	}
}
