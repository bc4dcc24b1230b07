package schema

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// ContentTypeRepository abstracts storage for content types and their fields.
// Create returns a ConflictError when the api_id is already taken so the
// service can retry with a suffixed candidate.
type ContentTypeRepository interface {
	Create(ctx context.Context, record *ContentType) (*ContentType, error)
	Update(ctx context.Context, record *ContentType) (*ContentType, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContentType, error)
	GetByAPIID(ctx context.Context, apiID string) (*ContentType, error)
	List(ctx context.Context) ([]*ContentType, error)

	CreateField(ctx context.Context, record *FieldDefinition) (*FieldDefinition, error)
	UpdateField(ctx context.Context, record *FieldDefinition) (*FieldDefinition, error)
	DeleteField(ctx context.Context, id uuid.UUID) error
	GetField(ctx context.Context, id uuid.UUID) (*FieldDefinition, error)
	ListFields(ctx context.Context, contentTypeID uuid.UUID) ([]*FieldDefinition, error)
}

// ComponentRepository abstracts storage for component definitions.
type ComponentRepository interface {
	Create(ctx context.Context, record *ComponentDefinition) (*ComponentDefinition, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByAPIID(ctx context.Context, apiID string) (*ComponentDefinition, error)
	List(ctx context.Context) ([]*ComponentDefinition, error)

	CreateField(ctx context.Context, record *ComponentFieldDefinition) (*ComponentFieldDefinition, error)
	ListFields(ctx context.Context, componentID uuid.UUID) ([]*ComponentFieldDefinition, error)
}

// UsageChecker reports whether instances exist for a content type. The
// content store supplies the implementation at wiring time.
type UsageChecker interface {
	ContentTypeInUse(ctx context.Context, contentTypeID uuid.UUID) (bool, error)
}

// Service manages the schema registry.
type Service interface {
	CreateContentType(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error)
	UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error)
	DeleteContentType(ctx context.Context, id uuid.UUID) error
	GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error)
	GetContentTypeByAPIID(ctx context.Context, apiID string) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)

	AddField(ctx context.Context, contentTypeID uuid.UUID, input FieldInput) (*FieldDefinition, error)
	UpdateField(ctx context.Context, req UpdateFieldRequest) (*FieldDefinition, error)
	RemoveField(ctx context.Context, fieldID uuid.UUID) error

	CreateComponent(ctx context.Context, req CreateComponentRequest) (*ComponentDefinition, error)
	GetComponentByAPIID(ctx context.Context, apiID string) (*ComponentDefinition, error)
	ListComponents(ctx context.Context) ([]*ComponentDefinition, error)
	DeleteComponent(ctx context.Context, id uuid.UUID) error
}

// CreateContentTypeRequest captures a new content type with optional initial fields.
type CreateContentTypeRequest struct {
	Name        string
	APIID       string
	Description *string
	Fields      []FieldInput
}

// UpdateContentTypeRequest captures mutable content type metadata.
type UpdateContentTypeRequest struct {
	ID          uuid.UUID
	Name        *string
	Description *string
}

// FieldInput captures a new field definition.
type FieldInput struct {
	Name      string
	APIID     string
	FieldType FieldType
	Order     *int
	Config    FieldConfig
}

// UpdateFieldRequest captures mutable field definition attributes. The field
// type and api_id are immutable once instances may reference them.
type UpdateFieldRequest struct {
	FieldID uuid.UUID
	Name    *string
	Order   *int
	Config  *FieldConfig
}

// CreateComponentRequest captures a new component definition.
type CreateComponentRequest struct {
	Name        string
	APIID       string
	Description *string
	Fields      []FieldInput
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

// WithUsageChecker wires the instance existence check used to protect content
// types from deletion.
func WithUsageChecker(checker UsageChecker) ServiceOption {
	return func(s *service) {
		s.usage = checker
	}
}

type service struct {
	types      ContentTypeRepository
	components ComponentRepository
	usage      UsageChecker
	now        func() time.Time
	id         func() uuid.UUID
	logger     interfaces.Logger
}

// NewService constructs a schema registry service.
func NewService(types ContentTypeRepository, components ComponentRepository, opts ...ServiceOption) Service {
	s := &service{
		types:      types,
		components: components,
		now:        time.Now,
		id:         uuid.New,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateContentType(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrContentTypeNameRequired
	}

	for _, input := range req.Fields {
		if err := validateFieldInput(input); err != nil {
			return nil, err
		}
	}

	base := strings.TrimSpace(req.APIID)
	if base == "" {
		derived, err := DeriveAPIID(name)
		if err != nil {
			return nil, err
		}
		base = derived
	}

	now := s.now()
	record := &ContentType{
		ID:          s.id(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.createTypeWithUniqueAPIID(ctx, record, base)
	if err != nil {
		return nil, err
	}

	taken := map[string]struct{}{}
	for i, input := range req.Fields {
		field, err := s.buildField(created.ID, input, i, taken, now)
		if err != nil {
			return nil, err
		}
		stored, err := s.types.CreateField(ctx, field)
		if err != nil {
			return nil, err
		}
		created.Fields = append(created.Fields, stored)
	}

	s.logger.Info("content type created", "api_id", created.APIID)
	return created, nil
}

// createTypeWithUniqueAPIID relies on the storage unique constraint: it
// attempts the insert and, on conflict, retries with a numeric suffix.
func (s *service) createTypeWithUniqueAPIID(ctx context.Context, record *ContentType, base string) (*ContentType, error) {
	for attempt := 0; attempt < maxAPIIDAttempts; attempt++ {
		record.APIID = apiIDCandidate(base, attempt)
		created, err := s.types.Create(ctx, record)
		if err == nil {
			return created, nil
		}
		if !IsConflict(err) {
			return nil, err
		}
	}
	return nil, ErrAPIIDExhausted
}

func (s *service) UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error) {
	record, err := s.types.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrContentTypeNameRequired
		}
		record.Name = name
	}
	if req.Description != nil {
		record.Description = req.Description
	}
	record.UpdatedAt = s.now()

	return s.types.Update(ctx, record)
}

func (s *service) DeleteContentType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.types.GetByID(ctx, id); err != nil {
		return err
	}

	if s.usage != nil {
		inUse, err := s.usage.ContentTypeInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrContentTypeInUse
		}
	}

	return s.types.Delete(ctx, id)
}

func (s *service) GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error) {
	record, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sortFields(record.Fields)
	return record, nil
}

func (s *service) GetContentTypeByAPIID(ctx context.Context, apiID string) (*ContentType, error) {
	record, err := s.types.GetByAPIID(ctx, strings.TrimSpace(apiID))
	if err != nil {
		return nil, err
	}
	sortFields(record.Fields)
	return record, nil
}

func (s *service) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	records, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].APIID < records[j].APIID })
	return records, nil
}

func (s *service) AddField(ctx context.Context, contentTypeID uuid.UUID, input FieldInput) (*FieldDefinition, error) {
	if err := validateFieldInput(input); err != nil {
		return nil, err
	}

	if _, err := s.types.GetByID(ctx, contentTypeID); err != nil {
		return nil, err
	}

	existing, err := s.types.ListFields(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	taken := map[string]struct{}{}
	order := 0
	for _, field := range existing {
		taken[field.APIID] = struct{}{}
		if field.Order >= order {
			order = field.Order + 1
		}
	}

	field, err := s.buildField(contentTypeID, input, order, taken, s.now())
	if err != nil {
		return nil, err
	}
	return s.types.CreateField(ctx, field)
}

func (s *service) UpdateField(ctx context.Context, req UpdateFieldRequest) (*FieldDefinition, error) {
	record, err := s.types.GetField(ctx, req.FieldID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrFieldNameRequired
		}
		record.Name = name
	}
	if req.Order != nil {
		record.Order = *req.Order
	}
	if req.Config != nil {
		if record.FieldType == FieldTypeSelect && len(req.Config.SelectOptions) == 0 {
			return nil, ErrSelectOptionsRequired
		}
		record.Config = *req.Config
	}
	record.UpdatedAt = s.now()

	return s.types.UpdateField(ctx, record)
}

func (s *service) RemoveField(ctx context.Context, fieldID uuid.UUID) error {
	return s.types.DeleteField(ctx, fieldID)
}

func (s *service) CreateComponent(ctx context.Context, req CreateComponentRequest) (*ComponentDefinition, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrComponentNameRequired
	}

	for _, input := range req.Fields {
		if err := validateFieldInput(input); err != nil {
			return nil, err
		}
	}

	base := strings.TrimSpace(req.APIID)
	if base == "" {
		derived, err := DeriveAPIID(name)
		if err != nil {
			return nil, err
		}
		base = derived
	}

	now := s.now()
	record := &ComponentDefinition{
		ID:          s.id(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created *ComponentDefinition
	for attempt := 0; attempt < maxAPIIDAttempts; attempt++ {
		record.APIID = apiIDCandidate(base, attempt)
		stored, err := s.components.Create(ctx, record)
		if err == nil {
			created = stored
			break
		}
		if !IsConflict(err) {
			return nil, err
		}
	}
	if created == nil {
		return nil, ErrAPIIDExhausted
	}

	taken := map[string]struct{}{}
	for i, input := range req.Fields {
		apiID, err := resolveFieldAPIID(input, taken)
		if err != nil {
			return nil, err
		}
		order := i
		if input.Order != nil {
			order = *input.Order
		}
		field := &ComponentFieldDefinition{
			ID:          s.id(),
			ComponentID: created.ID,
			Name:        strings.TrimSpace(input.Name),
			APIID:       apiID,
			FieldType:   input.FieldType,
			Order:       order,
			Config:      input.Config,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		stored, err := s.components.CreateField(ctx, field)
		if err != nil {
			return nil, err
		}
		created.Fields = append(created.Fields, stored)
	}

	return created, nil
}

func (s *service) GetComponentByAPIID(ctx context.Context, apiID string) (*ComponentDefinition, error) {
	return s.components.GetByAPIID(ctx, strings.TrimSpace(apiID))
}

func (s *service) ListComponents(ctx context.Context) ([]*ComponentDefinition, error) {
	records, err := s.components.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].APIID < records[j].APIID })
	return records, nil
}

func (s *service) DeleteComponent(ctx context.Context, id uuid.UUID) error {
	return s.components.Delete(ctx, id)
}

func (s *service) buildField(contentTypeID uuid.UUID, input FieldInput, defaultOrder int, taken map[string]struct{}, now time.Time) (*FieldDefinition, error) {
	apiID, err := resolveFieldAPIID(input, taken)
	if err != nil {
		return nil, err
	}

	order := defaultOrder
	if input.Order != nil {
		order = *input.Order
	}

	return &FieldDefinition{
		ID:            s.id(),
		ContentTypeID: contentTypeID,
		Name:          strings.TrimSpace(input.Name),
		APIID:         apiID,
		FieldType:     input.FieldType,
		Order:         order,
		Config:        input.Config,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// resolveFieldAPIID derives or validates a field api_id and reserves it in
// the taken set. Derived ids get numeric suffixes on collision; explicit ids
// fail instead.
func resolveFieldAPIID(input FieldInput, taken map[string]struct{}) (string, error) {
	explicit := strings.TrimSpace(input.APIID)
	if explicit != "" {
		if _, ok := taken[explicit]; ok {
			return "", ErrFieldAPIIDTaken
		}
		taken[explicit] = struct{}{}
		return explicit, nil
	}

	base, err := DeriveAPIID(input.Name)
	if err != nil {
		return "", err
	}
	for attempt := 0; attempt < maxAPIIDAttempts; attempt++ {
		candidate := apiIDCandidate(base, attempt)
		if _, ok := taken[candidate]; !ok {
			taken[candidate] = struct{}{}
			return candidate, nil
		}
	}
	return "", ErrAPIIDExhausted
}

func validateFieldInput(input FieldInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrFieldNameRequired
	}
	if !ValidFieldType(input.FieldType) {
		return ErrFieldTypeInvalid
	}
	if input.FieldType == FieldTypeSelect && len(input.Config.SelectOptions) == 0 {
		return ErrSelectOptionsRequired
	}
	return nil
}

func sortFields(fields []*FieldDefinition) {
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].APIID < fields[j].APIID
	})
}
