// Package worker provides the bounded concurrency primitives used by batch
// document processing and outbound verification calls.
package worker

import (
	"context"
	"sync"
)

// Task is a unit of work executed by the pool.
type Task interface {
	Run(ctx context.Context) Outcome
}

// Outcome is the result of one task.
type Outcome interface {
	Err() error
}

// Pool executes tasks with a fixed number of workers. Outcomes are collected
// internally rather than handed back through a bounded channel, so a worker
// never stalls on delivery and a submitter never wedges against a stalled
// worker when the backlog outgrows the queue buffer.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	outcomes []Outcome
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			outcome := task.Run(p.ctx)
			p.mu.Lock()
			p.outcomes = append(p.outcomes, outcome)
			p.mu.Unlock()
		}
	}
}

// Submit queues a task. Submissions after shutdown are dropped.
func (p *Pool) Submit(task Task) {
	select {
	case <-p.ctx.Done():
	case p.tasks <- task:
	}
}

// Drain closes the queue, waits for the workers, and returns every outcome
// in completion order.
func (p *Pool) Drain() []Outcome {
	close(p.tasks)
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcomes
}

// Shutdown cancels in-flight work and releases the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
