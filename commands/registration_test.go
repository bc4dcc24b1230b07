package commands

import (
	"testing"

	contentcmd "github.com/goliatone/go-headless/internal/commands/content"
	mediacmd "github.com/goliatone/go-headless/internal/commands/media"
	webhookcmd "github.com/goliatone/go-headless/internal/commands/webhooks"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
)

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}

	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Registry:   registry,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 3 {
		t.Fatalf("expected publish, redeliver, and reprocess handlers, got %d", len(result.Handlers))
	}
	if len(result.Handlers) != len(registry.handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != len(result.Handlers) {
		t.Fatalf("expected dispatcher subscriptions for every handler, got %d", len(dispatcher.subscriptions))
	}

	var hasPublish, hasRedeliver, hasReprocess bool
	for _, handler := range result.Handlers {
		switch handler.(type) {
		case *contentcmd.PublishContentHandler:
			hasPublish = true
		case *webhookcmd.RedeliverWebhookHandler:
			hasRedeliver = true
		case *mediacmd.ReprocessMediaHandler:
			hasReprocess = true
		}
	}
	if !hasPublish || !hasRedeliver || !hasReprocess {
		t.Fatalf("missing handlers: publish=%v redeliver=%v reprocess=%v", hasPublish, hasRedeliver, hasReprocess)
	}
}

func TestRegisterContainerCommandsWithoutRegistrars(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) == 0 {
		t.Fatal("expected handlers to be built even without registrars")
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}
}

func TestRegisterContainerCommandsHonorsFeatureToggles(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Webhooks = false
	cfg.Features.MediaLibrary = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	for _, handler := range result.Handlers {
		switch handler.(type) {
		case *webhookcmd.RedeliverWebhookHandler:
			t.Fatal("expected no redeliver handler when webhooks are disabled")
		case *mediacmd.ReprocessMediaHandler:
			t.Fatal("expected no reprocess handler when the media library is disabled")
		}
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil {
		t.Fatalf("nil container must not error: %v", err)
	}
	if len(result.Handlers) != 0 {
		t.Fatalf("expected no handlers for nil container, got %d", len(result.Handlers))
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type recordingDispatcher struct {
	handlers      []any
	subscriptions []*recordingSubscription
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{handler: handler}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type recordingSubscription struct {
	handler      any
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() {
	s.unsubscribed = true
}
