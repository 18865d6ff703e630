package worker

import (
	"context"
	"sync"
)

type Job interface{}

type ProcessFunc func(ctx context.Context, job Job) error

// Pool fans work out over a fixed number of goroutines. Stop closes the job
// channel and waits for every submitted job to settle, so a batch caller gets
// join-all semantics: successes and failures are both drained, nothing aborts
// the batch early.
type Pool struct {
	numWorkers int
	jobs       chan Job
	processor  ProcessFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, processor ProcessFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, bufferSize),
		processor:  processor,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processor(ctx, job)
		}
	}
}

func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// RunBatch processes jobs with up to workers goroutines and returns once all
// of them have settled. Per-job failure handling is the processor's business;
// RunBatch never aborts on the first failure.
func RunBatch(ctx context.Context, workers int, jobs []Job, process ProcessFunc) {
	if len(jobs) == 0 {
		return
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := NewPool(workers, len(jobs), process)
	pool.Start(ctx)
	for _, job := range jobs {
		pool.Submit(job)
	}
	pool.Stop()
}
