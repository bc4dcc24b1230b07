package webhookcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-headless/internal/commands"
	"github.com/goliatone/go-headless/internal/webhooks"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

const redeliverWebhookMessageType = "headless.webhooks.redeliver"

// RedeliverWebhookCommand requests a fresh delivery of a logged webhook attempt.
type RedeliverWebhookCommand struct {
	LogID uuid.UUID `json:"log_id"`
}

// Type implements command.Message.
func (RedeliverWebhookCommand) Type() string { return redeliverWebhookMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m RedeliverWebhookCommand) Validate() error {
	errs := validation.Errors{}
	if m.LogID == uuid.Nil {
		errs["log_id"] = validation.NewError("headless.webhooks.redeliver.log_id_required", "log_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RedeliverWebhookHandler re-sends a logged payload through the deliverer.
type RedeliverWebhookHandler struct {
	inner *commands.Handler[RedeliverWebhookCommand]
}

// NewRedeliverWebhookHandler constructs a handler wired to the provided deliverer.
func NewRedeliverWebhookHandler(deliverer *webhooks.Deliverer, logger interfaces.Logger, opts ...commands.HandlerOption[RedeliverWebhookCommand]) *RedeliverWebhookHandler {
	exec := func(ctx context.Context, msg RedeliverWebhookCommand) error {
		return deliverer.Redeliver(ctx, msg.LogID)
	}

	handlerOpts := []commands.HandlerOption[RedeliverWebhookCommand]{
		commands.WithLogger[RedeliverWebhookCommand](logger),
		commands.WithOperation[RedeliverWebhookCommand]("webhooks.redeliver"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RedeliverWebhookHandler{
		inner: commands.NewHandler[RedeliverWebhookCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RedeliverWebhookCommand].Execute.
func (h *RedeliverWebhookHandler) Execute(ctx context.Context, msg RedeliverWebhookCommand) error {
	return h.inner.Execute(ctx, msg)
}
