package interfaces

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTaskNotFound reports missing tasks when looking them up by ID.
	ErrTaskNotFound = errors.New("queue: task not found")
)

// Queue accepts named tasks for asynchronous execution with at-least-once
// delivery. Implementations retry failed tasks with a fixed delay until the
// attempt budget is exhausted.
type Queue interface {
	// Enqueue registers a task for execution. RunAt in the past (or zero)
	// makes the task due immediately.
	Enqueue(ctx context.Context, spec TaskSpec) (*Task, error)
	// Get returns the stored task by identifier.
	Get(ctx context.Context, id string) (*Task, error)
	// ListDue returns pending tasks due at or before the supplied instant.
	ListDue(ctx context.Context, until time.Time, limit int) ([]*Task, error)
	// MarkDone marks the task as successfully processed.
	MarkDone(ctx context.Context, id string) error
	// MarkFailed records a failed attempt. Tasks with attempts remaining are
	// rescheduled after the queue's retry delay; exhausted tasks stay failed.
	MarkFailed(ctx context.Context, id string, err error) error
}

// TaskStatus describes the lifecycle of a queued task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskSpec captures the information required to enqueue a task.
type TaskSpec struct {
	// Name routes the task to a registered handler (e.g. webhooks.deliver).
	Name string
	// RunAt specifies when the task becomes due.
	RunAt time.Time
	// Args carries the handler payload.
	Args map[string]any
	// MaxAttempts bounds retries. Zero applies the queue default.
	MaxAttempts int
}

// Task is a stored queue entry with delivery metadata.
type Task struct {
	TaskSpec
	ID        string
	Attempt   int
	LastError string
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskHandler processes a dequeued task. Returning an error counts as a
// failed attempt.
type TaskHandler func(ctx context.Context, task *Task) error
