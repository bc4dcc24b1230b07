package i18n

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// Repository abstracts storage operations for languages.
type Repository interface {
	Create(ctx context.Context, record *Language) (*Language, error)
	Update(ctx context.Context, record *Language) (*Language, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByCode(ctx context.Context, code string) (*Language, error)
	List(ctx context.Context) ([]*Language, error)
	// SetDefault atomically marks the supplied code as the only default.
	SetDefault(ctx context.Context, code string) (*Language, error)
}

// Service manages the language registry. Mutations preserve the invariant
// that at most one language is the site default, and that losing the default
// (delete, deactivate) promotes exactly one remaining active language.
type Service interface {
	Register(ctx context.Context, req RegisterLanguageRequest) (*Language, error)
	Update(ctx context.Context, req UpdateLanguageRequest) (*Language, error)
	Remove(ctx context.Context, code string) error
	SetDefault(ctx context.Context, code string) (*Language, error)
	Get(ctx context.Context, code string) (*Language, error)
	List(ctx context.Context) ([]*Language, error)
	Default(ctx context.Context) (*Language, error)
}

// RegisterLanguageRequest captures the information required to add a language.
type RegisterLanguageRequest struct {
	Code      string
	Name      string
	IsActive  *bool
	IsDefault bool
}

// UpdateLanguageRequest captures mutable language fields.
type UpdateLanguageRequest struct {
	Code     string
	Name     *string
	IsActive *bool
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
	languages Repository
	now       func() time.Time
	id        func() uuid.UUID
	logger    interfaces.Logger
}

// NewService constructs a language service.
func NewService(languages Repository, opts ...ServiceOption) Service {
	s := &service{
		languages: languages,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(ctx context.Context, req RegisterLanguageRequest) (*Language, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, ErrLanguageCodeRequired
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrLanguageNameRequired
	}

	if existing, err := s.languages.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, ErrLanguageExists
	} else if err != nil && !IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	record := &Language{
		ID:        s.id(),
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.languages.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if req.IsDefault && created.IsActive {
		return s.languages.SetDefault(ctx, created.Code)
	}

	// First registered active language becomes the default.
	if promoted, err := s.ensureDefault(ctx); err != nil {
		return nil, err
	} else if promoted != nil && promoted.Code == created.Code {
		return promoted, nil
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateLanguageRequest) (*Language, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, ErrLanguageCodeRequired
	}

	record, err := s.languages.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrLanguageNameRequired
		}
		record.Name = name
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
		if !record.IsActive {
			record.IsDefault = false
		}
	}
	record.UpdatedAt = s.now()

	updated, err := s.languages.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if _, err := s.ensureDefault(ctx); err != nil {
		return nil, err
	}

	// The update may have re-promoted this record; re-read for callers.
	return s.languages.GetByCode(ctx, updated.Code)
}

func (s *service) Remove(ctx context.Context, code string) error {
	normalized := normalizeCode(code)
	if normalized == "" {
		return ErrLanguageCodeRequired
	}

	record, err := s.languages.GetByCode(ctx, normalized)
	if err != nil {
		return err
	}

	if err := s.languages.Delete(ctx, record.ID); err != nil {
		return err
	}

	_, err = s.ensureDefault(ctx)
	return err
}

func (s *service) SetDefault(ctx context.Context, code string) (*Language, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, ErrLanguageCodeRequired
	}

	record, err := s.languages.GetByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, ErrLanguageInactive
	}

	return s.languages.SetDefault(ctx, record.Code)
}

func (s *service) Get(ctx context.Context, code string) (*Language, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, ErrLanguageCodeRequired
	}
	return s.languages.GetByCode(ctx, normalized)
}

func (s *service) List(ctx context.Context) ([]*Language, error) {
	records, err := s.languages.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Code < records[j].Code })
	return records, nil
}

func (s *service) Default(ctx context.Context) (*Language, error) {
	records, err := s.languages.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.IsDefault && record.IsActive {
			return record, nil
		}
	}
	return nil, &NotFoundError{Resource: "default language"}
}

// ensureDefault promotes the first active language (sorted by code) when no
// active default remains. Returns the promoted language, or nil when the
// invariant already holds.
func (s *service) ensureDefault(ctx context.Context) (*Language, error) {
	records, err := s.languages.List(ctx)
	if err != nil {
		return nil, err
	}

	var candidate *Language
	for _, record := range records {
		if record.IsDefault && record.IsActive {
			return nil, nil
		}
		if record.IsActive && (candidate == nil || record.Code < candidate.Code) {
			candidate = record
		}
	}

	if candidate == nil {
		return nil, nil
	}

	s.logger.Info("promoting default language", "code", candidate.Code)
	return s.languages.SetDefault(ctx, candidate.Code)
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
