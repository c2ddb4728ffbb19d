package workers

import "context"

// Task is one unit of work. Fn must be safe for concurrent execution;
// when ResultC is non-nil the outcome is delivered on it.
type Task struct {
	Fn      func() (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

// Pool runs submitted tasks on a fixed set of workers. Bulk payroll
// operations fan out per-employee work through it inside a single
// request; nothing outlives the request that submitted it.
type Pool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
}

func New(workerCount, queueSize int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.tasks:
			value, err := task.Fn()
			if task.ResultC != nil {
				task.ResultC <- Result{Value: value, Err: err}
			}
		}
	}
}

// Submit enqueues a task. Blocks when the queue is full.
func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Close stops the workers. Tasks already picked up finish; queued
// tasks that no worker reached are dropped.
func (p *Pool) Close() {
	p.cancel()
}
