package dispatch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type task struct {
	name string
	run  func(ctx context.Context) error
}

// Queue runs detached tasks on background workers. Submitters never wait on
// a task and only learn its outcome through the log.
type Queue struct {
	tasks  chan task
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewQueue(size, workers int, logger *zap.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:  make(chan task, size),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}

	return q
}

// Submit enqueues fn without blocking. It reports false when the queue is
// full or closed, in which case the task is dropped.
func (q *Queue) Submit(name string, fn func(ctx context.Context) error) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn("detached task dropped, queue closed", zap.String("task", name))
		return false
	}

	select {
	case q.tasks <- task{name: name, run: fn}:
		return true
	default:
		q.logger.Warn("detached task dropped, queue full", zap.String("task", name))
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish. When ctx
// expires first, in-flight tasks are cancelled and the rest abandoned.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return fmt.Errorf("draining detached tasks: %w", ctx.Err())
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for t := range q.tasks {
		if q.ctx.Err() != nil {
			q.logger.Warn("detached task abandoned", zap.String("task", t.name))
			continue
		}
		q.run(t)
	}
}

func (q *Queue) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("detached task panicked",
				zap.String("task", t.name),
				zap.Any("panic", r),
			)
		}
	}()

	if err := t.run(q.ctx); err != nil {
		q.logger.Warn("detached task failed",
			zap.String("task", t.name),
			zap.Error(err),
		)
		return
	}
	q.logger.Debug("detached task done", zap.String("task", t.name))
}
