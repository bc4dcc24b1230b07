package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-headless/internal/commands"
	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

const publishContentMessageType = "headless.content.publish"

// PublishContentCommand requests publication of a content instance.
type PublishContentCommand struct {
	InstanceID       uuid.UUID  `json:"instance_id"`
	ExpectedRevision int        `json:"expected_revision,omitempty"`
	PublishedBy      *uuid.UUID `json:"published_by,omitempty"`
}

// Type implements command.Message.
func (PublishContentCommand) Type() string { return publishContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.InstanceID == uuid.Nil {
		errs["instance_id"] = validation.NewError("headless.content.publish.instance_id_required", "instance_id is required")
	}
	if m.ExpectedRevision < 0 {
		errs["expected_revision"] = validation.NewError("headless.content.publish.revision_invalid", "expected_revision cannot be negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishContentHandler transitions instances to published via the content service.
type PublishContentHandler struct {
	inner *commands.Handler[PublishContentCommand]
}

// NewPublishContentHandler constructs a handler wired to the provided content service.
func NewPublishContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishContentCommand]) *PublishContentHandler {
	exec := func(ctx context.Context, msg PublishContentCommand) error {
		_, err := service.ChangeStatus(ctx, content.ChangeStatusRequest{
			InstanceID:       msg.InstanceID,
			Status:           string(domain.StatusPublished),
			ExpectedRevision: msg.ExpectedRevision,
			Actor:            msg.PublishedBy,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishContentCommand]{
		commands.WithLogger[PublishContentCommand](logger),
		commands.WithOperation[PublishContentCommand]("content.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishContentHandler{
		inner: commands.NewHandler[PublishContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishContentCommand].Execute.
func (h *PublishContentHandler) Execute(ctx context.Context, msg PublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
