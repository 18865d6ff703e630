package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_StartStop(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job Job) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool(2, 10, processor)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(i)
	}

	pool.Stop()
	cancel()

	if processed.Load() != 5 {
		t.Errorf("expected 5 jobs processed, got %d", processed.Load())
	}
}

func TestRunBatch_ProcessesAllJobs(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = i
	}

	RunBatch(context.Background(), 4, jobs, func(ctx context.Context, job Job) error {
		mu.Lock()
		seen[job.(int)] = true
		mu.Unlock()
		return nil
	})

	if len(seen) != 20 {
		t.Errorf("expected all 20 jobs processed, got %d", len(seen))
	}
}

func TestRunBatch_FailuresDoNotAbort(t *testing.T) {
	var processed atomic.Int64

	jobs := []Job{1, 2, 3, 4, 5}
	RunBatch(context.Background(), 2, jobs, func(ctx context.Context, job Job) error {
		processed.Add(1)
		if job.(int)%2 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	if processed.Load() != 5 {
		t.Errorf("expected all 5 jobs to settle despite failures, got %d", processed.Load())
	}
}

func TestRunBatch_EmptyJobs(t *testing.T) {
	// Must return without spawning anything.
	RunBatch(context.Background(), 4, nil, func(ctx context.Context, job Job) error {
		t.Error("processor called with no jobs")
		return nil
	})
}

func TestRunBatch_MoreWorkersThanJobs(t *testing.T) {
	var processed atomic.Int64

	RunBatch(context.Background(), 16, []Job{1, 2}, func(ctx context.Context, job Job) error {
		processed.Add(1)
		return nil
	})

	if processed.Load() != 2 {
		t.Errorf("expected 2 jobs processed, got %d", processed.Load())
	}
}

func TestRunBatch_WaitsForSlowJobs(t *testing.T) {
	var completed atomic.Int64

	start := time.Now()
	RunBatch(context.Background(), 4, []Job{1, 2, 3, 4}, func(ctx context.Context, job Job) error {
		time.Sleep(20 * time.Millisecond)
		completed.Add(1)
		return nil
	})
	elapsed := time.Since(start)

	if completed.Load() != 4 {
		t.Errorf("RunBatch returned before all jobs settled: %d of 4", completed.Load())
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("RunBatch returned too quickly: %v", elapsed)
	}
}
