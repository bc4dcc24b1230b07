package mediacmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-headless/internal/commands"
	"github.com/goliatone/go-headless/internal/media"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

const reprocessMediaMessageType = "headless.media.asset.reprocess"

// ReprocessMediaCommand requests a re-run of image processing for an asset,
// refreshing dimensions and renditions against the current profile set.
type ReprocessMediaCommand struct {
	AssetID uuid.UUID `json:"asset_id"`
}

// Type implements command.Message.
func (ReprocessMediaCommand) Type() string { return reprocessMediaMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ReprocessMediaCommand) Validate() error {
	errs := validation.Errors{}
	if m.AssetID == uuid.Nil {
		errs["asset_id"] = validation.NewError("headless.media.asset.reprocess.asset_id_required", "asset_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReprocessMediaHandler re-runs asset processing via the media service.
type ReprocessMediaHandler struct {
	inner *commands.Handler[ReprocessMediaCommand]
}

// NewReprocessMediaHandler constructs a handler wired to the provided media service.
func NewReprocessMediaHandler(service media.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReprocessMediaCommand]) *ReprocessMediaHandler {
	exec := func(ctx context.Context, msg ReprocessMediaCommand) error {
		_, err := service.ProcessAsset(ctx, msg.AssetID)
		return err
	}

	handlerOpts := []commands.HandlerOption[ReprocessMediaCommand]{
		commands.WithLogger[ReprocessMediaCommand](logger),
		commands.WithOperation[ReprocessMediaCommand]("media.reprocess"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReprocessMediaHandler{
		inner: commands.NewHandler[ReprocessMediaCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReprocessMediaCommand].Execute.
func (h *ReprocessMediaHandler) Execute(ctx context.Context, msg ReprocessMediaCommand) error {
	return h.inner.Execute(ctx, msg)
}
