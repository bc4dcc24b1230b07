package webhooks

import (
	"context"
	"time"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// TaskDeliver routes webhook delivery tasks to the delivery handler.
const TaskDeliver = "webhooks.deliver"

// deliveryAttempts bounds retries for a single emitted event per endpoint.
const deliveryAttempts = 3

// Dispatcher fans emitted events out to subscribed endpoints by enqueuing one
// delivery task per endpoint. It is the canonical interfaces.EventSink:
// emission never fails the triggering write.
type Dispatcher struct {
	store    Repository
	queue    interfaces.Queue
	attempts int
	now      func() time.Time
	logger   interfaces.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherClock overrides the timestamp source for emitted events.
func WithDispatcherClock(clock func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if clock != nil {
			d.now = clock
		}
	}
}

// WithDispatcherLogger attaches a module logger.
func WithDispatcherLogger(logger interfaces.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logging.EnsureLogger(logger)
	}
}

// WithDispatcherRetryBudget overrides the per-endpoint delivery attempt budget.
func WithDispatcherRetryBudget(attempts int) DispatcherOption {
	return func(d *Dispatcher) {
		if attempts > 0 {
			d.attempts = attempts
		}
	}
}

// NewDispatcher constructs a dispatcher over the endpoint store and queue.
func NewDispatcher(store Repository, queue interfaces.Queue, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		queue:    queue,
		attempts: deliveryAttempts,
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit selects active endpoints subscribed to the event (or to the wildcard)
// and enqueues a delivery task per endpoint.
func (d *Dispatcher) Emit(ctx context.Context, event string, data map[string]any) {
	if d.store == nil || d.queue == nil {
		return
	}

	endpoints, err := d.store.ListSubscribed(ctx, event)
	if err != nil {
		d.logger.Error("list subscribed endpoints", "event", event, "error", err)
		return
	}

	timestamp := d.now().UTC()
	for _, endpoint := range endpoints {
		_, err := d.queue.Enqueue(ctx, interfaces.TaskSpec{
			Name:        TaskDeliver,
			RunAt:       timestamp,
			MaxAttempts: d.attempts,
			Args: map[string]any{
				"endpoint_id": endpoint.ID.String(),
				"event":       event,
				"timestamp":   timestamp.Format(time.RFC3339),
				"data":        data,
			},
		})
		if err != nil {
			d.logger.Error("enqueue webhook delivery",
				"event", event,
				"endpoint", endpoint.ID.String(),
				"error", err,
			)
		}
	}
}
