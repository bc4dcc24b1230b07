package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/identity"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrSiteNameRequired = errors.New("settings: site name is required")
	ErrLanguageRequired = errors.New("settings: default language is required")
	ErrStatusInvalid    = errors.New("settings: default content status is invalid")
)

// NotFoundError represents a missing settings record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("settings %q not found", e.Key)
}

// IsNotFound reports whether err wraps a repository NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// Repository abstracts settings storage.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Settings, error)
	Create(ctx context.Context, record *Settings) (*Settings, error)
	Update(ctx context.Context, record *Settings) (*Settings, error)
}

// Service exposes the site-wide settings record.
type Service interface {
	// LoadOrInit returns the settings record, creating it from the supplied
	// defaults on first use.
	LoadOrInit(ctx context.Context, defaults Defaults) (*Settings, error)
	// Get returns the current settings without initializing.
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req UpdateRequest) (*Settings, error)
}

// Defaults seed the settings record on first load.
type Defaults struct {
	SiteName             string
	DefaultLanguage      string
	Timezone             string
	DefaultContentStatus string
}

// UpdateRequest mutates settings. Nil fields are untouched.
type UpdateRequest struct {
	SiteName             *string
	DefaultLanguage      *string
	Timezone             *string
	DefaultContentStatus *string
	ExternalIntegrations map[string]any
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

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.EnsureLogger(logger)
	}
}

type service struct {
	store  Repository
	now    func() time.Time
	logger interfaces.Logger
}

// NewService constructs a settings service.
func NewService(store Repository, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) LoadOrInit(ctx context.Context, defaults Defaults) (*Settings, error) {
	id := identity.SettingsUUID()

	record, err := s.store.Get(ctx, id)
	if err == nil {
		return record, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	siteName := strings.TrimSpace(defaults.SiteName)
	if siteName == "" {
		siteName = "Headless"
	}
	language := strings.ToLower(strings.TrimSpace(defaults.DefaultLanguage))
	if language == "" {
		return nil, ErrLanguageRequired
	}
	timezone := strings.TrimSpace(defaults.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	status := domain.NormalizeStatus(defaults.DefaultContentStatus)
	if !domain.ValidStatus(string(status)) {
		return nil, ErrStatusInvalid
	}

	now := s.now()
	created, err := s.store.Create(ctx, &Settings{
		ID:                   id,
		SiteName:             siteName,
		DefaultLanguage:      language,
		Timezone:             timezone,
		DefaultContentStatus: string(status),
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		// a concurrent initializer may have won the race
		if existing, getErr := s.store.Get(ctx, id); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	return s.store.Get(ctx, identity.SettingsUUID())
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Settings, error) {
	record, err := s.store.Get(ctx, identity.SettingsUUID())
	if err != nil {
		return nil, err
	}

	if req.SiteName != nil {
		name := strings.TrimSpace(*req.SiteName)
		if name == "" {
			return nil, ErrSiteNameRequired
		}
		record.SiteName = name
	}
	if req.DefaultLanguage != nil {
		language := strings.ToLower(strings.TrimSpace(*req.DefaultLanguage))
		if language == "" {
			return nil, ErrLanguageRequired
		}
		record.DefaultLanguage = language
	}
	if req.Timezone != nil {
		timezone := strings.TrimSpace(*req.Timezone)
		if timezone != "" {
			record.Timezone = timezone
		}
	}
	if req.DefaultContentStatus != nil {
		status := domain.NormalizeStatus(*req.DefaultContentStatus)
		if !domain.ValidStatus(string(status)) {
			return nil, ErrStatusInvalid
		}
		record.DefaultContentStatus = string(status)
	}
	if req.ExternalIntegrations != nil {
		record.ExternalIntegrations = req.ExternalIntegrations
	}

	record.UpdatedAt = s.now()
	return s.store.Update(ctx, record)
}
