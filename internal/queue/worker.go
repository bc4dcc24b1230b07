package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// Worker drains due tasks from a queue and routes them to registered
// handlers by task name.
type Worker struct {
	queue     interfaces.Queue
	handlers  map[string]interfaces.TaskHandler
	now       func() time.Time
	batchSize int
	logger    interfaces.Logger
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerClock overrides the clock used to decide which tasks are due.
func WithWorkerClock(clock func() time.Time) WorkerOption {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

// WithBatchSize bounds how many tasks a single Process pass drains.
func WithBatchSize(size int) WorkerOption {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithWorkerLogger attaches a module logger.
func WithWorkerLogger(logger interfaces.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logging.EnsureLogger(logger)
	}
}

// NewWorker constructs a worker over the given queue.
func NewWorker(queue interfaces.Queue, opts ...WorkerOption) *Worker {
	w := &Worker{
		queue:     queue,
		handlers:  make(map[string]interfaces.TaskHandler),
		now:       time.Now,
		batchSize: 50,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register binds a handler to a task name, replacing any previous binding.
func (w *Worker) Register(name string, handler interfaces.TaskHandler) {
	if name == "" || handler == nil {
		return
	}
	w.handlers[name] = handler
}

// Process drains one batch of due tasks. Handler errors mark the task failed;
// the queue decides whether it is rescheduled.
func (w *Worker) Process(ctx context.Context) error {
	if w.queue == nil {
		return errors.New("queue: worker has no queue")
	}

	due, err := w.queue.ListDue(ctx, w.now(), w.batchSize)
	if err != nil {
		return err
	}

	for _, task := range due {
		if task == nil {
			continue
		}
		handler, ok := w.handlers[task.Name]
		if !ok {
			markErr := w.queue.MarkFailed(ctx, task.ID, fmt.Errorf("queue: no handler for %q", task.Name))
			if markErr != nil {
				w.logger.Error("mark unroutable task failed", "task", task.ID, "error", markErr)
			}
			continue
		}
		if err := handler(ctx, task); err != nil {
			w.logger.Error("task handler failed", "task", task.ID, "name", task.Name, "error", err)
			if markErr := w.queue.MarkFailed(ctx, task.ID, err); markErr != nil {
				w.logger.Error("mark task failed", "task", task.ID, "error", markErr)
			}
			continue
		}
		if err := w.queue.MarkDone(ctx, task.ID); err != nil {
			w.logger.Error("mark task done", "task", task.ID, "error", err)
		}
	}
	return nil
}

// Run processes batches on the given interval until the context is canceled.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Process(ctx); err != nil {
				w.logger.Error("queue pass failed", "error", err)
			}
		}
	}
}
