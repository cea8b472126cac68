package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of periodic work.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error { return f(ctx) }

// Worker runs a Task on a fixed interval until stopped. Task errors are
// logged and the loop continues.
type Worker struct {
	task      Task
	interval  time.Duration
	immediate bool
	logger    *zap.Logger
	stopChan  chan struct{}
	doneChan  chan struct{}
	stopOnce  sync.Once
}

// DefaultInterval replaces a non-positive interval passed to NewWorker.
const DefaultInterval = time.Minute

type Option func(*Worker)

// RunImmediately runs the task once before the first tick.
func RunImmediately() Option {
	return func(w *Worker) { w.immediate = true }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewWorker(task Task, interval time.Duration, opts ...Option) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	w := &Worker{
		task:     task,
		interval: interval,
		logger:   zap.NewNop(),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start blocks running the polling loop.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	w.logger.Debug("worker started", zap.Duration("interval", w.interval))

	if w.immediate {
		w.run(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("worker stopped: context cancelled")
			return
		case <-w.stopChan:
			w.logger.Debug("worker stopped: stop signal received")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	if err := w.task.Run(ctx); err != nil {
		w.logger.Warn("worker task failed", zap.Error(err))
	}
}

// Stop signals the loop and waits for it to exit. Safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	<-w.doneChan
}
