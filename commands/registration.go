package commands

import (
	"errors"

	cmdcore "github.com/goliatone/go-headless/internal/commands"
	contentcmd "github.com/goliatone/go-headless/internal/commands/content"
	mediacmd "github.com/goliatone/go-headless/internal/commands/media"
	webhookcmd "github.com/goliatone/go-headless/internal/commands/webhooks"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	loggerFor := func(module string) interfaces.Logger {
		return cmdcore.CommandLogger(provider, module)
	}

	// Content commands.
	if service := container.ContentService(); service != nil {
		register(contentcmd.NewPublishContentHandler(service, loggerFor("content")))
	}

	// Webhook commands.
	if deliverer := container.WebhookDeliverer(); deliverer != nil && cfg.Features.Webhooks {
		register(webhookcmd.NewRedeliverWebhookHandler(deliverer, loggerFor("webhooks")))
	}

	// Media commands.
	if service := container.MediaService(); service != nil && cfg.Features.MediaLibrary {
		register(mediacmd.NewReprocessMediaHandler(service, loggerFor("media")))
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure services are configured and required features enabled")
	}

	return result, errs
}
