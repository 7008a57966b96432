package work

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrPoolStopped        = errors.New("worker pool has been stopped")
)

// TaskResult represents the result of one task execution
type TaskResult[T any] struct {
	TaskID    string
	Result    T
	Error     error
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// IsSuccess returns true if the task completed successfully
func (tr *TaskResult[T]) IsSuccess() bool {
	return tr.Error == nil
}

// Executor is the unit of work the pool runs
type Executor[T any] interface {
	ExecutorID() string
	Execute(ctx context.Context) (T, error)
	OnError(error)
	Timeout() time.Duration // 0 means use the pool default
}

// Pool runs executors across a fixed set of workers
type Pool[T any] struct {
	numWorkers  int
	taskTimeout time.Duration
	tasks       chan Executor[T]
	results     chan TaskResult[T]
	quit        chan struct{}
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once

	tasksQueued    int64
	tasksCompleted int64

	stopped bool
	mu      sync.RWMutex
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool[T any](numWorkers int, taskChannelSize int, taskTimeout time.Duration) (*Pool[T], error) {
	if numWorkers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if taskChannelSize < 0 {
		taskChannelSize = numWorkers * 2
	}
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}

	return &Pool[T]{
		numWorkers:  numWorkers,
		taskTimeout: taskTimeout,
		tasks:       make(chan Executor[T], taskChannelSize),
		results:     make(chan TaskResult[T], numWorkers*2),
		quit:        make(chan struct{}),
	}, nil
}

// Start starts the worker pool
func (p *Pool[T]) Start(ctx context.Context, poolID string) {
	p.startOnce.Do(func() {
		for i := 0; i < p.numWorkers; i++ {
			p.wg.Add(1)
			go p.worker(ctx, i)
		}
		log.Info().
			Str("workerPoolID", poolID).
			Int("numWorkers", p.numWorkers).
			Msg("Worker pool started")
	})
}

func (p *Pool[T]) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.runTask(ctx, task)
		case <-p.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool[T]) runTask(ctx context.Context, task Executor[T]) {
	timeout := task.Timeout()
	if timeout <= 0 {
		timeout = p.taskTimeout
	}

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := task.Execute(taskCtx)
	end := time.Now()

	if err != nil {
		task.OnError(err)
	}
	atomic.AddInt64(&p.tasksCompleted, 1)

	tr := TaskResult[T]{
		TaskID:    task.ExecutorID(),
		Result:    result,
		Error:     err,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}

	select {
	case p.results <- tr:
	case <-p.quit:
	}
}

// Stop gracefully stops the worker pool
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.stopOnce.Do(func() {
		close(p.quit)
		close(p.tasks)
		p.wg.Wait()
		close(p.results)
	})
}

// AddTask adds a task to the pool, blocking until accepted or the context ends
func (p *Pool[T]) AddTask(ctx context.Context, task Executor[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		atomic.AddInt64(&p.tasksQueued, 1)
		return nil
	case <-p.quit:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the results channel
func (p *Pool[T]) Results() <-chan TaskResult[T] {
	return p.results
}

// Completed returns how many tasks have finished
func (p *Pool[T]) Completed() int64 {
	return atomic.LoadInt64(&p.tasksCompleted)
}
