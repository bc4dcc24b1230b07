package queue

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 30 * time.Second
)

// NewInMemory creates a deterministic queue implementation. Failed tasks are
// rescheduled after a fixed delay until their attempt budget runs out.
func NewInMemory(opts ...Option) interfaces.Queue {
	mem := &inMemoryQueue{
		now:         time.Now,
		id:          func() string { return uuid.NewString() },
		tasks:       make(map[string]*interfaces.Task),
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(mem)
	}
	return mem
}

// Option allows customizing the behaviour of the in-memory queue.
type Option func(*inMemoryQueue)

// WithClock overrides the internal clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(q *inMemoryQueue) {
		if clock != nil {
			q.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used when enqueuing tasks.
func WithIDGenerator(generator func() string) Option {
	return func(q *inMemoryQueue) {
		if generator != nil {
			q.id = generator
		}
	}
}

// WithDefaultMaxAttempts overrides the attempt budget applied when the task
// spec leaves it unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(q *inMemoryQueue) {
		if limit > 0 {
			q.maxAttempts = limit
		}
	}
}

// WithRetryDelay overrides the fixed delay applied before a failed task
// becomes due again.
func WithRetryDelay(delay time.Duration) Option {
	return func(q *inMemoryQueue) {
		if delay > 0 {
			q.retryDelay = delay
		}
	}
}

type inMemoryQueue struct {
	mu          sync.Mutex
	now         func() time.Time
	id          func() string
	tasks       map[string]*interfaces.Task
	maxAttempts int
	retryDelay  time.Duration
}

func (q *inMemoryQueue) Enqueue(_ context.Context, spec interfaces.TaskSpec) (*interfaces.Task, error) {
	task := &interfaces.Task{
		TaskSpec: interfaces.TaskSpec{
			Name:        spec.Name,
			RunAt:       spec.RunAt,
			Args:        cloneArgs(spec.Args),
			MaxAttempts: spec.MaxAttempts,
		},
	}
	if task.MaxAttempts == 0 {
		task.MaxAttempts = q.maxAttempts
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	task.ID = q.id()
	now := q.now()
	if task.RunAt.IsZero() {
		task.RunAt = now
	}
	task.Status = interfaces.TaskStatusPending
	task.CreatedAt = now
	task.UpdatedAt = now

	q.tasks[task.ID] = task
	return cloneTask(task), nil
}

func (q *inMemoryQueue) Get(_ context.Context, id string) (*interfaces.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[id]
	if !ok {
		return nil, interfaces.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (q *inMemoryQueue) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if limit <= 0 {
		limit = len(q.tasks)
	}
	candidates := make([]*interfaces.Task, 0, len(q.tasks))
	for _, task := range q.tasks {
		if task.Status != interfaces.TaskStatusPending {
			continue
		}
		if task.RunAt.After(until) {
			continue
		}
		candidates = append(candidates, cloneTask(task))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RunAt.Equal(candidates[j].RunAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].RunAt.Before(candidates[j].RunAt)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (q *inMemoryQueue) MarkDone(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[id]
	if !ok {
		return interfaces.ErrTaskNotFound
	}
	task.Status = interfaces.TaskStatusCompleted
	task.UpdatedAt = q.now()
	return nil
}

func (q *inMemoryQueue) MarkFailed(_ context.Context, id string, failure error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[id]
	if !ok {
		return interfaces.ErrTaskNotFound
	}
	task.Attempt++
	task.UpdatedAt = q.now()
	task.LastError = ""
	if failure != nil {
		task.LastError = failure.Error()
	}
	if task.MaxAttempts > 0 && task.Attempt >= task.MaxAttempts {
		task.Status = interfaces.TaskStatusFailed
	} else {
		task.Status = interfaces.TaskStatusPending
		task.RunAt = q.now().Add(q.retryDelay)
	}
	return nil
}

func cloneTask(task *interfaces.Task) *interfaces.Task {
	if task == nil {
		return nil
	}
	clone := *task
	if task.Args != nil {
		clone.Args = maps.Clone(task.Args)
	}
	return &clone
}

func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	return maps.Clone(args)
}
