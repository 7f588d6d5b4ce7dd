package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution.
type Result interface {
	GetError() error
}

// Pool manages a fixed set of workers executing jobs concurrently. It
// bounds fan-out work (violation enrichment, batch scans) to the rate
// limits of the external providers behind it.
type Pool struct {
	workers       int
	jobQueue      chan Job
	results       chan Result
	collected     []Result
	collectorDone chan struct{}
	wg            sync.WaitGroup
	ctx           context.Context
	cancelFunc    context.CancelFunc
	closeOnce     sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:       workers,
		jobQueue:      make(chan Job, workers*2),
		results:       make(chan Result, workers*2),
		collectorDone: make(chan struct{}),
		ctx:           ctx,
		cancelFunc:    cancel,
	}
}

// Start starts the workers and the result collector. The collector
// drains results while jobs are still being submitted, so any number of
// jobs can be submitted without blocking the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect accumulates results until the results channel is closed.
func (p *Pool) collect() {
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
	close(p.collectorDone)
}

// Submit submits a job to the pool for execution.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait waits for all submitted jobs to complete and returns the results.
// No further jobs may be submitted afterwards.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone
	return p.collected
}

// Shutdown stops the worker pool immediately, discarding queued jobs.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
