package headless

import (
	"context"

	"github.com/goliatone/go-headless/internal/comments"
	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/internal/i18n"
	"github.com/goliatone/go-headless/internal/media"
	"github.com/goliatone/go-headless/internal/queue"
	"github.com/goliatone/go-headless/internal/schema"
	"github.com/goliatone/go-headless/internal/settings"
	"github.com/goliatone/go-headless/internal/taxonomy"
	"github.com/goliatone/go-headless/internal/webhooks"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// LanguageService exports the language registry contract for consumers of the
// headless package.
type LanguageService = i18n.Service

// SchemaService exports the content type registry contract.
type SchemaService = schema.Service

// ContentService exports the content entry contract.
type ContentService = content.Service

// TaxonomyService exports the taxonomy and term contract.
type TaxonomyService = taxonomy.Service

// CommentService exports the threaded comment contract.
type CommentService = comments.Service

// MediaService exports the media library contract.
type MediaService = media.Service

// WebhookService exports the webhook endpoint contract.
type WebhookService = webhooks.Service

// SettingsService exports the system settings contract.
type SettingsService = settings.Service

// Module represents the top level headless CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Bootstrap seeds the configured languages and initializes the settings
// record. Call it once at startup; it is safe to call again.
func (m *Module) Bootstrap(ctx context.Context) error {
	return m.container.Bootstrap(ctx)
}

// Languages returns the configured language service.
func (m *Module) Languages() LanguageService {
	return m.container.LanguageService()
}

// Schemas returns the configured schema service.
func (m *Module) Schemas() SchemaService {
	return m.container.SchemaService()
}

// Content returns the configured content service.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Taxonomies returns the configured taxonomy service.
func (m *Module) Taxonomies() TaxonomyService {
	return m.container.TaxonomyService()
}

// Comments returns the configured comment service, nil when the feature is disabled.
func (m *Module) Comments() CommentService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.CommentService()
}

// Media returns the configured media service, nil when the feature is disabled.
func (m *Module) Media() MediaService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MediaService()
}

// Webhooks returns the configured webhook endpoint service, nil when the
// feature is disabled.
func (m *Module) Webhooks() WebhookService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.WebhookService()
}

// Settings returns the configured settings service.
func (m *Module) Settings() SettingsService {
	return m.container.SettingsService()
}

// Queue exposes the task queue feeding webhook deliveries and media processing.
func (m *Module) Queue() interfaces.Queue {
	return m.container.Queue()
}

// Worker exposes the task worker. Hosts run it with Worker().Run(ctx, interval)
// or drain it manually with Worker().Process(ctx).
func (m *Module) Worker() *queue.Worker {
	return m.container.Worker()
}
