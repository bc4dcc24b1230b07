package di

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/comments"
	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/i18n"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/logging/gologger"
	"github.com/goliatone/go-headless/internal/media"
	"github.com/goliatone/go-headless/internal/queue"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/internal/schema"
	"github.com/goliatone/go-headless/internal/settings"
	"github.com/goliatone/go-headless/internal/taxonomy"
	"github.com/goliatone/go-headless/internal/webhooks"
	"github.com/goliatone/go-headless/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Repositories default to the in-memory
// implementations; supplying a bun.DB swaps them for the persistent ones.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	httpClient     interfaces.HTTPClient
	fileStore      interfaces.FileStore
	taskQueue      interfaces.Queue
	worker         *queue.Worker

	languageRepo    i18n.Repository
	contentTypeRepo schema.ContentTypeRepository
	componentRepo   schema.ComponentRepository
	contentRepo     content.Repository
	taxonomyRepo    taxonomy.Repository
	commentRepo     comments.Repository
	mediaRepo       media.Repository
	webhookRepo     webhooks.Repository
	settingsRepo    settings.Repository

	i18nSvc     i18n.Service
	schemaSvc   schema.Service
	contentSvc  content.Service
	taxonomySvc taxonomy.Service
	commentSvc  comments.Service
	mediaSvc    media.Service
	webhookSvc  webhooks.Service
	settingsSvc settings.Service

	dispatcher *webhooks.Dispatcher
	deliverer  *webhooks.Deliverer

	usage *deferredUsageChecker
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB routes repositories through the supplied database connection.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider that hands out module loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient overrides the client used for webhook deliveries.
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithFileStore overrides the blob store backing the media library.
func WithFileStore(store interfaces.FileStore) Option {
	return func(c *Container) {
		c.fileStore = store
	}
}

// WithQueue overrides the task queue used for webhook delivery and media processing.
func WithQueue(q interfaces.Queue) Option {
	return func(c *Container) {
		c.taskQueue = q
	}
}

// WithLanguageService overrides the default language service binding.
func WithLanguageService(svc i18n.Service) Option {
	return func(c *Container) {
		c.i18nSvc = svc
	}
}

// WithSchemaService overrides the default schema service binding.
func WithSchemaService(svc schema.Service) Option {
	return func(c *Container) {
		c.schemaSvc = svc
	}
}

// WithContentService overrides the default content service binding.
func WithContentService(svc content.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithTaxonomyService overrides the default taxonomy service binding.
func WithTaxonomyService(svc taxonomy.Service) Option {
	return func(c *Container) {
		c.taxonomySvc = svc
	}
}

// WithCommentService overrides the default comment service binding.
func WithCommentService(svc comments.Service) Option {
	return func(c *Container) {
		c.commentSvc = svc
	}
}

// WithMediaService overrides the default media service binding.
func WithMediaService(svc media.Service) Option {
	return func(c *Container) {
		c.mediaSvc = svc
	}
}

// WithWebhookService overrides the default webhook service binding.
func WithWebhookService(svc webhooks.Service) Option {
	return func(c *Container) {
		c.webhookSvc = svc
	}
}

// WithSettingsService overrides the default settings service binding.
func WithSettingsService(svc settings.Service) Option {
	return func(c *Container) {
		c.settingsSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:          cfg,
		cacheTTL:        cacheTTL,
		languageRepo:    i18n.NewMemoryLanguageRepository(),
		contentTypeRepo: schema.NewMemoryContentTypeRepository(),
		componentRepo:   schema.NewMemoryComponentRepository(),
		contentRepo:     content.NewMemoryRepository(),
		taxonomyRepo:    taxonomy.NewMemoryRepository(),
		commentRepo:     comments.NewMemoryRepository(),
		mediaRepo:       media.NewMemoryRepository(),
		webhookRepo:     webhooks.NewMemoryRepository(),
		settingsRepo:    settings.NewMemoryRepository(),
		usage:           &deferredUsageChecker{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureInfrastructure()
	c.configureServices()
	c.configureWorker()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}

	if !c.Config.Features.Logger || strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "noop") {
		c.loggerProvider = logging.NoOpProvider()
		return nil
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.cacheTTL
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.languageRepo = i18n.NewBunLanguageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.contentTypeRepo = schema.NewBunContentTypeRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.componentRepo = schema.NewBunComponentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.contentRepo = content.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.taxonomyRepo = taxonomy.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.commentRepo = comments.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.mediaRepo = media.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.webhookRepo = webhooks.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.settingsRepo = settings.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
}

func (c *Container) configureInfrastructure() {
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.fileStore == nil {
		c.fileStore = media.NewMemoryFileStore()
	}
	if c.taskQueue == nil {
		queueOpts := []queue.Option{}
		if c.Config.Webhooks.RetryLimit > 0 {
			queueOpts = append(queueOpts, queue.WithDefaultMaxAttempts(c.Config.Webhooks.RetryLimit))
		}
		if c.Config.Webhooks.RetryDelay > 0 {
			queueOpts = append(queueOpts, queue.WithRetryDelay(c.Config.Webhooks.RetryDelay))
		}
		c.taskQueue = queue.NewInMemory(queueOpts...)
	}
}

func (c *Container) configureServices() {
	sink := c.configureWebhooks()

	if c.i18nSvc == nil {
		c.i18nSvc = i18n.NewService(c.languageRepo,
			i18n.WithLogger(logging.I18NLogger(c.loggerProvider)),
		)
	}

	if c.schemaSvc == nil {
		c.schemaSvc = schema.NewService(c.contentTypeRepo, c.componentRepo,
			schema.WithLogger(logging.SchemaLogger(c.loggerProvider)),
			schema.WithUsageChecker(c.usage),
		)
	}

	if c.taxonomySvc == nil {
		c.taxonomySvc = taxonomy.NewService(c.taxonomyRepo,
			taxonomy.WithLogger(logging.TaxonomyLogger(c.loggerProvider)),
		)
	}

	if c.contentSvc == nil {
		contentOpts := []content.ServiceOption{
			content.WithLogger(logging.ContentLogger(c.loggerProvider)),
			content.WithTermValidator(c.taxonomySvc),
		}
		if sink != nil {
			contentOpts = append(contentOpts, content.WithEventSink(sink))
		}
		c.contentSvc = content.NewService(c.contentRepo, c.schemaSvc, c.i18nSvc, contentOpts...)
	}
	c.usage.bind(c.contentSvc)

	if c.commentSvc == nil && c.Config.Features.Comments {
		commentOpts := []comments.ServiceOption{
			comments.WithLogger(logging.CommentsLogger(c.loggerProvider)),
		}
		if sink != nil {
			commentOpts = append(commentOpts, comments.WithEventSink(sink))
		}
		c.commentSvc = comments.NewService(c.commentRepo, commentOpts...)
	}

	if c.mediaSvc == nil && c.Config.Features.MediaLibrary {
		mediaOpts := []media.ServiceOption{
			media.WithLogger(logging.MediaLogger(c.loggerProvider)),
			media.WithQueue(c.taskQueue),
		}
		if sink != nil {
			mediaOpts = append(mediaOpts, media.WithEventSink(sink))
		}
		c.mediaSvc = media.NewService(c.mediaRepo, c.fileStore, mediaOpts...)
	}

	if c.settingsSvc == nil {
		c.settingsSvc = settings.NewService(c.settingsRepo,
			settings.WithLogger(logging.ModuleLogger(c.loggerProvider, "settings")),
		)
	}
}

// configureWebhooks builds the endpoint service, the dispatcher, and the
// deliverer. The dispatcher doubles as the event sink handed to the services
// that emit lifecycle events; it is nil when the feature is disabled.
func (c *Container) configureWebhooks() interfaces.EventSink {
	if !c.Config.Features.Webhooks {
		return nil
	}

	logger := logging.WebhooksLogger(c.loggerProvider)

	if c.webhookSvc == nil {
		c.webhookSvc = webhooks.NewService(c.webhookRepo, webhooks.WithLogger(logger))
	}

	dispatcherOpts := []webhooks.DispatcherOption{
		webhooks.WithDispatcherLogger(logger),
	}
	if c.Config.Webhooks.RetryLimit > 0 {
		dispatcherOpts = append(dispatcherOpts, webhooks.WithDispatcherRetryBudget(c.Config.Webhooks.RetryLimit))
	}
	c.dispatcher = webhooks.NewDispatcher(c.webhookRepo, c.taskQueue, dispatcherOpts...)

	delivererOpts := []webhooks.DelivererOption{
		webhooks.WithDelivererLogger(logger),
	}
	if c.Config.Webhooks.Timeout > 0 {
		delivererOpts = append(delivererOpts, webhooks.WithDeliveryTimeout(c.Config.Webhooks.Timeout))
	}
	c.deliverer = webhooks.NewDeliverer(c.webhookRepo, c.httpClient, delivererOpts...)

	return c.dispatcher
}

func (c *Container) configureWorker() {
	c.worker = queue.NewWorker(c.taskQueue,
		queue.WithWorkerLogger(logging.QueueLogger(c.loggerProvider)),
	)
	if c.deliverer != nil {
		c.worker.Register(webhooks.TaskDeliver, webhooks.DeliverTaskHandler(c.deliverer))
	}
	if c.mediaSvc != nil {
		c.worker.Register(media.TaskProcessAsset, media.ProcessTaskHandler(c.mediaSvc))
	}
}

// Bootstrap seeds the configured languages and initializes the settings
// record. It is idempotent: languages that already exist are left alone, and
// settings defaults only apply on first use.
func (c *Container) Bootstrap(ctx context.Context) error {
	if err := c.seedLanguages(ctx); err != nil {
		return err
	}

	_, err := c.settingsSvc.LoadOrInit(ctx, settings.Defaults{
		SiteName:             c.Config.Site.Name,
		DefaultLanguage:      c.Config.I18N.DefaultLanguage,
		Timezone:             c.Config.Site.Timezone,
		DefaultContentStatus: c.Config.Site.DefaultContentStatus,
	})
	return err
}

func (c *Container) seedLanguages(ctx context.Context) error {
	codes := c.Config.I18N.Languages
	if len(codes) == 0 {
		codes = []string{c.Config.I18N.DefaultLanguage}
	}

	seen := map[string]struct{}{}
	for _, code := range codes {
		normalized := strings.ToLower(strings.TrimSpace(code))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}

		if _, err := c.i18nSvc.Get(ctx, normalized); err == nil {
			continue
		} else if !i18n.IsNotFound(err) {
			return err
		}

		_, err := c.i18nSvc.Register(ctx, i18n.RegisterLanguageRequest{
			Code:      normalized,
			Name:      normalized,
			IsDefault: strings.EqualFold(normalized, c.Config.I18N.DefaultLanguage),
		})
		if err != nil && !errors.Is(err, i18n.ErrLanguageExists) {
			return err
		}
	}
	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Queue exposes the configured task queue.
func (c *Container) Queue() interfaces.Queue {
	return c.taskQueue
}

// Worker exposes the task worker with the delivery and media handlers registered.
func (c *Container) Worker() *queue.Worker {
	return c.worker
}

// FileStore exposes the blob store backing the media library.
func (c *Container) FileStore() interfaces.FileStore {
	return c.fileStore
}

// LanguageService returns the configured language service.
func (c *Container) LanguageService() i18n.Service {
	return c.i18nSvc
}

// SchemaService returns the configured schema service.
func (c *Container) SchemaService() schema.Service {
	return c.schemaSvc
}

// ContentService returns the configured content service.
func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

// TaxonomyService returns the configured taxonomy service.
func (c *Container) TaxonomyService() taxonomy.Service {
	return c.taxonomySvc
}

// CommentService returns the configured comment service. It is nil when the
// comments feature is disabled.
func (c *Container) CommentService() comments.Service {
	return c.commentSvc
}

// MediaService returns the configured media service. It is nil when the media
// library feature is disabled.
func (c *Container) MediaService() media.Service {
	return c.mediaSvc
}

// WebhookService returns the configured webhook endpoint service. It is nil
// when the webhooks feature is disabled.
func (c *Container) WebhookService() webhooks.Service {
	return c.webhookSvc
}

// WebhookDeliverer returns the delivery executor, nil when webhooks are disabled.
func (c *Container) WebhookDeliverer() *webhooks.Deliverer {
	return c.deliverer
}

// SettingsService returns the configured settings service.
func (c *Container) SettingsService() settings.Service {
	return c.settingsSvc
}

// deferredUsageChecker breaks the schema/content construction cycle: the
// schema service needs the instance existence check before the content
// service exists, so the binding lands after both are built.
type deferredUsageChecker struct {
	svc content.Service
}

func (d *deferredUsageChecker) bind(svc content.Service) {
	d.svc = svc
}

func (d *deferredUsageChecker) ContentTypeInUse(ctx context.Context, contentTypeID uuid.UUID) (bool, error) {
	if d.svc == nil {
		return false, nil
	}
	return d.svc.ContentTypeInUse(ctx, contentTypeID)
}
