package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a periodic task. Runs of one job never overlap; ticks that arrive
// while a run is in progress are dropped.
type Job struct {
	Name     string
	Interval time.Duration
	// RunAtStart triggers one run before the first tick.
	RunAtStart bool
	Run        func(ctx context.Context) error
}

// Handle stops a single scheduled job.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the job and waits for an in-progress run to return.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

type Scheduler struct {
	logger *zap.Logger

	mu      sync.Mutex
	handles []*Handle
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Schedule starts job until ctx is cancelled, the handle is stopped, or the
// scheduler is stopped.
func (s *Scheduler) Schedule(ctx context.Context, job Job) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()

	go s.loop(ctx, job, h.done)

	s.logger.Info("job scheduled",
		zap.String("job", job.Name),
		zap.Duration("interval", job.Interval),
	)
	return h
}

// Stop halts every job and waits for them to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	for _, h := range handles {
		h.Stop()
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job, done chan struct{}) {
	defer close(done)

	if job.RunAtStart {
		s.run(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, job)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()

	if err := job.Run(ctx); err != nil {
		s.logger.Warn("job failed", zap.String("job", job.Name), zap.Error(err))
	}
}
