package queue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/queue"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

func newClock(start time.Time) (*time.Time, func() time.Time) {
	current := start
	return &current, func() time.Time { return current }
}

func TestEnqueueDefaults(t *testing.T) {
	start := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	_, clock := newClock(start)
	q := queue.NewInMemory(queue.WithClock(clock))

	task, err := q.Enqueue(context.Background(), interfaces.TaskSpec{Name: "demo.task"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if task.Status != interfaces.TaskStatusPending {
		t.Fatalf("expected pending, got %q", task.Status)
	}
	if !task.RunAt.Equal(start) {
		t.Fatalf("expected zero RunAt to default to now, got %v", task.RunAt)
	}
	if task.MaxAttempts != 3 {
		t.Fatalf("expected default attempt budget 3, got %d", task.MaxAttempts)
	}
}

func TestListDueOrdersByRunAt(t *testing.T) {
	start := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	current, clock := newClock(start)
	q := queue.NewInMemory(queue.WithClock(clock))
	ctx := context.Background()

	later, _ := q.Enqueue(ctx, interfaces.TaskSpec{Name: "later", RunAt: start.Add(2 * time.Minute)})
	sooner, _ := q.Enqueue(ctx, interfaces.TaskSpec{Name: "sooner", RunAt: start.Add(time.Minute)})
	q.Enqueue(ctx, interfaces.TaskSpec{Name: "future", RunAt: start.Add(time.Hour)})

	*current = start.Add(5 * time.Minute)
	due, err := q.ListDue(ctx, *current, 0)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due tasks, got %d", len(due))
	}
	if due[0].ID != sooner.ID || due[1].ID != later.ID {
		t.Fatal("due tasks out of RunAt order")
	}
}

func TestMarkFailedReschedulesWithDelay(t *testing.T) {
	start := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	current, clock := newClock(start)
	q := queue.NewInMemory(
		queue.WithClock(clock),
		queue.WithRetryDelay(time.Minute),
		queue.WithDefaultMaxAttempts(2),
	)
	ctx := context.Background()

	task, _ := q.Enqueue(ctx, interfaces.TaskSpec{Name: "flaky"})

	if err := q.MarkFailed(ctx, task.ID, errors.New("boom")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	stored, err := q.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != interfaces.TaskStatusPending {
		t.Fatalf("expected reschedule, got %q", stored.Status)
	}
	if stored.Attempt != 1 || stored.LastError != "boom" {
		t.Fatalf("attempt metadata wrong: %d %q", stored.Attempt, stored.LastError)
	}
	if !stored.RunAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("expected retry at +1m, got %v", stored.RunAt)
	}

	// not yet due
	due, _ := q.ListDue(ctx, start, 0)
	if len(due) != 0 {
		t.Fatalf("rescheduled task should not be due, got %d", len(due))
	}

	// second failure exhausts the budget
	*current = start.Add(2 * time.Minute)
	if err := q.MarkFailed(ctx, task.ID, errors.New("boom again")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	stored, _ = q.Get(ctx, task.ID)
	if stored.Status != interfaces.TaskStatusFailed {
		t.Fatalf("expected terminal failure, got %q", stored.Status)
	}
}

func TestWorkerRoutesAndRetries(t *testing.T) {
	start := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	current, clock := newClock(start)
	q := queue.NewInMemory(queue.WithClock(clock), queue.WithRetryDelay(time.Minute))
	ctx := context.Background()

	worker := queue.NewWorker(q, queue.WithWorkerClock(clock))

	attempts := 0
	worker.Register("flaky", func(ctx context.Context, task *interfaces.Task) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	task, _ := q.Enqueue(ctx, interfaces.TaskSpec{Name: "flaky"})

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	stored, _ := q.Get(ctx, task.ID)
	if stored.Status != interfaces.TaskStatusPending || stored.Attempt != 1 {
		t.Fatalf("expected one failed attempt, got %q attempt %d", stored.Status, stored.Attempt)
	}

	// advance past the retry delay; the second pass succeeds
	*current = start.Add(2 * time.Minute)
	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	stored, _ = q.Get(ctx, task.ID)
	if stored.Status != interfaces.TaskStatusCompleted {
		t.Fatalf("expected completion, got %q", stored.Status)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 handler invocations, got %d", attempts)
	}
}

func TestWorkerFailsUnroutableTasks(t *testing.T) {
	start := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	_, clock := newClock(start)
	q := queue.NewInMemory(queue.WithClock(clock), queue.WithDefaultMaxAttempts(1))
	ctx := context.Background()

	worker := queue.NewWorker(q, queue.WithWorkerClock(clock))
	task, _ := q.Enqueue(ctx, interfaces.TaskSpec{Name: "nobody.home"})

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	stored, _ := q.Get(ctx, task.ID)
	if stored.Status != interfaces.TaskStatusFailed {
		t.Fatalf("expected failure for unroutable task, got %q", stored.Status)
	}
}
