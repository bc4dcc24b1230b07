package interfaces

import "context"

// EventSink receives domain events emitted by content, comment, and media
// services. The webhook dispatcher is the canonical implementation; emission
// is fire-and-forget and must never fail the triggering write.
type EventSink interface {
	Emit(ctx context.Context, event string, data map[string]any)
}
