package webhooks

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// Repository abstracts webhook storage. Event logs are append-only.
type Repository interface {
	CreateEndpoint(ctx context.Context, record *Endpoint) (*Endpoint, error)
	UpdateEndpoint(ctx context.Context, record *Endpoint) (*Endpoint, error)
	DeleteEndpoint(ctx context.Context, id uuid.UUID) error
	GetEndpoint(ctx context.Context, id uuid.UUID) (*Endpoint, error)
	ListEndpoints(ctx context.Context) ([]*Endpoint, error)
	ListSubscribed(ctx context.Context, event string) ([]*Endpoint, error)

	AppendLog(ctx context.Context, record *EventLog) (*EventLog, error)
	GetLog(ctx context.Context, id uuid.UUID) (*EventLog, error)
	ListLogs(ctx context.Context, endpointID uuid.UUID, limit, offset int) ([]*EventLog, int, error)
}

// Service manages webhook endpoints and exposes the delivery log.
type Service interface {
	CreateEndpoint(ctx context.Context, req CreateEndpointRequest) (*Endpoint, error)
	UpdateEndpoint(ctx context.Context, req UpdateEndpointRequest) (*Endpoint, error)
	DeleteEndpoint(ctx context.Context, id uuid.UUID) error
	GetEndpoint(ctx context.Context, id uuid.UUID) (*Endpoint, error)
	ListEndpoints(ctx context.Context) ([]*Endpoint, error)

	GetLog(ctx context.Context, id uuid.UUID) (*EventLog, error)
	ListLogs(ctx context.Context, endpointID uuid.UUID, limit, offset int) ([]*EventLog, int, error)
}

// CreateEndpointRequest registers a new webhook subscriber.
type CreateEndpointRequest struct {
	TargetURL        string
	SubscribedEvents []string
	Secret           string
	IsActive         bool
	CreatedBy        *uuid.UUID
}

// Validate checks the request shape before any storage work happens.
func (r CreateEndpointRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TargetURL, validation.Required.Error(ErrTargetURLRequired.Error()), is.URL),
		validation.Field(&r.Secret, validation.Required.Error(ErrSecretRequired.Error())),
		validation.Field(&r.SubscribedEvents, validation.Required.Error(ErrEventsRequired.Error())),
	)
}

// UpdateEndpointRequest mutates an endpoint. Nil fields are untouched.
type UpdateEndpointRequest struct {
	EndpointID       uuid.UUID
	TargetURL        *string
	SubscribedEvents []string
	Secret           *string
	IsActive         *bool
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.EnsureLogger(logger)
	}
}

type service struct {
	store  Repository
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a webhook endpoint service.
func NewService(store Repository, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateEndpoint(ctx context.Context, req CreateEndpointRequest) (*Endpoint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	events, err := normalizeEvents(req.SubscribedEvents)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Endpoint{
		ID:               s.id(),
		TargetURL:        strings.TrimSpace(req.TargetURL),
		SubscribedEvents: events,
		Secret:           req.Secret,
		IsActive:         req.IsActive,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return s.store.CreateEndpoint(ctx, record)
}

func (s *service) UpdateEndpoint(ctx context.Context, req UpdateEndpointRequest) (*Endpoint, error) {
	record, err := s.store.GetEndpoint(ctx, req.EndpointID)
	if err != nil {
		return nil, err
	}

	if req.TargetURL != nil {
		target := strings.TrimSpace(*req.TargetURL)
		if target == "" {
			return nil, ErrTargetURLRequired
		}
		if err := validation.Validate(target, is.URL); err != nil {
			return nil, err
		}
		record.TargetURL = target
	}
	if req.SubscribedEvents != nil {
		events, err := normalizeEvents(req.SubscribedEvents)
		if err != nil {
			return nil, err
		}
		record.SubscribedEvents = events
	}
	if req.Secret != nil {
		if *req.Secret == "" {
			return nil, ErrSecretRequired
		}
		record.Secret = *req.Secret
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}

	record.UpdatedAt = s.now()
	return s.store.UpdateEndpoint(ctx, record)
}

func (s *service) DeleteEndpoint(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteEndpoint(ctx, id)
}

func (s *service) GetEndpoint(ctx context.Context, id uuid.UUID) (*Endpoint, error) {
	return s.store.GetEndpoint(ctx, id)
}

func (s *service) ListEndpoints(ctx context.Context) ([]*Endpoint, error) {
	return s.store.ListEndpoints(ctx)
}

func (s *service) GetLog(ctx context.Context, id uuid.UUID) (*EventLog, error) {
	return s.store.GetLog(ctx, id)
}

func (s *service) ListLogs(ctx context.Context, endpointID uuid.UUID, limit, offset int) ([]*EventLog, int, error) {
	return s.store.ListLogs(ctx, endpointID, limit, offset)
}

func normalizeEvents(events []string) ([]string, error) {
	normalized := make([]string, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, event := range events {
		event = strings.TrimSpace(event)
		if event == "" {
			continue
		}
		if event != domain.EventWildcard && !domain.KnownEvent(event) {
			return nil, ErrUnknownEvent
		}
		if _, dup := seen[event]; dup {
			continue
		}
		seen[event] = struct{}{}
		normalized = append(normalized, event)
	}
	if len(normalized) == 0 {
		return nil, ErrEventsRequired
	}
	return normalized, nil
}
