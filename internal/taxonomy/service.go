package taxonomy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

const maxAPIIDAttempts = 50

// Repository abstracts storage for taxonomies and terms.
type Repository interface {
	CreateTaxonomy(ctx context.Context, record *Taxonomy) (*Taxonomy, error)
	UpdateTaxonomy(ctx context.Context, record *Taxonomy) (*Taxonomy, error)
	DeleteTaxonomy(ctx context.Context, id uuid.UUID) error
	GetTaxonomy(ctx context.Context, id uuid.UUID) (*Taxonomy, error)
	GetTaxonomyByAPIID(ctx context.Context, apiID string) (*Taxonomy, error)
	ListTaxonomies(ctx context.Context) ([]*Taxonomy, error)

	CreateTerm(ctx context.Context, record *Term) (*Term, error)
	UpdateTerm(ctx context.Context, record *Term) (*Term, error)
	DeleteTerm(ctx context.Context, id uuid.UUID) error
	GetTerm(ctx context.Context, id uuid.UUID) (*Term, error)
	ListTerms(ctx context.Context, taxonomyID uuid.UUID) ([]*Term, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Term, error)
}

// Service manages taxonomies and their term trees.
type Service interface {
	CreateTaxonomy(ctx context.Context, req CreateTaxonomyRequest) (*Taxonomy, error)
	UpdateTaxonomy(ctx context.Context, req UpdateTaxonomyRequest) (*Taxonomy, error)
	DeleteTaxonomy(ctx context.Context, id uuid.UUID) error
	GetTaxonomy(ctx context.Context, id uuid.UUID) (*Taxonomy, error)
	GetTaxonomyByAPIID(ctx context.Context, apiID string) (*Taxonomy, error)
	ListTaxonomies(ctx context.Context) ([]*Taxonomy, error)

	CreateTerm(ctx context.Context, req CreateTermRequest) (*Term, error)
	UpdateTerm(ctx context.Context, req UpdateTermRequest) (*Term, error)
	DeleteTerm(ctx context.Context, id uuid.UUID) error
	GetTerm(ctx context.Context, id uuid.UUID) (*Term, error)
	ListTerms(ctx context.Context, taxonomyID uuid.UUID) ([]*Term, error)

	// ValidateAttachment checks that every term's taxonomy applies to the
	// content type before terms are linked to an instance.
	ValidateAttachment(ctx context.Context, contentTypeID uuid.UUID, termIDs []uuid.UUID) error
}

// CreateTaxonomyRequest captures a new taxonomy.
type CreateTaxonomyRequest struct {
	Name           string
	APIID          string
	Hierarchical   bool
	ContentTypeIDs []uuid.UUID
}

// UpdateTaxonomyRequest captures mutable taxonomy attributes.
type UpdateTaxonomyRequest struct {
	ID             uuid.UUID
	Name           *string
	ContentTypeIDs []uuid.UUID
}

// CreateTermRequest captures a new term. Slugs derive from the names.
type CreateTermRequest struct {
	TaxonomyID uuid.UUID
	Names      map[string]string
	ParentID   *uuid.UUID
}

// UpdateTermRequest captures term mutations. ClearParent moves the term to
// the root; otherwise a non-nil ParentID re-parents it.
type UpdateTermRequest struct {
	TermID      uuid.UUID
	Names       map[string]string
	ParentID    *uuid.UUID
	ClearParent bool
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

// NewService constructs a taxonomy service.
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

func (s *service) CreateTaxonomy(ctx context.Context, req CreateTaxonomyRequest) (*Taxonomy, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrTaxonomyNameRequired
	}

	base := strings.TrimSpace(req.APIID)
	if base == "" {
		normalized, err := slug.Normalize(name)
		if err != nil || normalized == "" {
			return nil, fmt.Errorf("taxonomy: cannot derive api_id from %q", name)
		}
		base = normalized
	}

	now := s.now()
	record := &Taxonomy{
		ID:             s.id(),
		Name:           name,
		Hierarchical:   req.Hierarchical,
		ContentTypeIDs: req.ContentTypeIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for attempt := 0; attempt < maxAPIIDAttempts; attempt++ {
		record.APIID = base
		if attempt > 0 {
			record.APIID = fmt.Sprintf("%s-%d", base, attempt+1)
		}
		created, err := s.store.CreateTaxonomy(ctx, record)
		if err == nil {
			return created, nil
		}
		if !IsConflict(err) {
			return nil, err
		}
	}
	return nil, ErrAPIIDExhausted
}

func (s *service) UpdateTaxonomy(ctx context.Context, req UpdateTaxonomyRequest) (*Taxonomy, error) {
	record, err := s.store.GetTaxonomy(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrTaxonomyNameRequired
		}
		record.Name = name
	}
	if req.ContentTypeIDs != nil {
		record.ContentTypeIDs = req.ContentTypeIDs
	}
	record.UpdatedAt = s.now()

	return s.store.UpdateTaxonomy(ctx, record)
}

func (s *service) DeleteTaxonomy(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetTaxonomy(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteTaxonomy(ctx, id)
}

func (s *service) GetTaxonomy(ctx context.Context, id uuid.UUID) (*Taxonomy, error) {
	return s.store.GetTaxonomy(ctx, id)
}

func (s *service) GetTaxonomyByAPIID(ctx context.Context, apiID string) (*Taxonomy, error) {
	return s.store.GetTaxonomyByAPIID(ctx, strings.TrimSpace(apiID))
}

func (s *service) ListTaxonomies(ctx context.Context) ([]*Taxonomy, error) {
	records, err := s.store.ListTaxonomies(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].APIID < records[j].APIID })
	return records, nil
}

func (s *service) CreateTerm(ctx context.Context, req CreateTermRequest) (*Term, error) {
	names := trimNames(req.Names)
	if len(names) == 0 {
		return nil, ErrTermNamesRequired
	}

	tax, err := s.store.GetTaxonomy(ctx, req.TaxonomyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Term{
		ID:              s.id(),
		TaxonomyID:      tax.ID,
		TranslatedNames: names,
		TranslatedSlugs: deriveSlugs(names),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.ParentID != nil {
		if err := s.checkParent(ctx, tax, record.ID, *req.ParentID); err != nil {
			return nil, err
		}
		record.ParentID = req.ParentID
	}

	return s.store.CreateTerm(ctx, record)
}

func (s *service) UpdateTerm(ctx context.Context, req UpdateTermRequest) (*Term, error) {
	record, err := s.store.GetTerm(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	if req.Names != nil {
		names := trimNames(req.Names)
		if len(names) == 0 {
			return nil, ErrTermNamesRequired
		}
		record.TranslatedNames = names
		record.TranslatedSlugs = deriveSlugs(names)
	}

	switch {
	case req.ClearParent:
		record.ParentID = nil
	case req.ParentID != nil:
		tax, err := s.store.GetTaxonomy(ctx, record.TaxonomyID)
		if err != nil {
			return nil, err
		}
		if err := s.checkParent(ctx, tax, record.ID, *req.ParentID); err != nil {
			return nil, err
		}
		record.ParentID = req.ParentID
	}
	record.UpdatedAt = s.now()

	return s.store.UpdateTerm(ctx, record)
}

func (s *service) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetTerm(ctx, id); err != nil {
		return err
	}
	children, err := s.store.ListChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return ErrTermHasChildren
	}
	return s.store.DeleteTerm(ctx, id)
}

func (s *service) GetTerm(ctx context.Context, id uuid.UUID) (*Term, error) {
	return s.store.GetTerm(ctx, id)
}

func (s *service) ListTerms(ctx context.Context, taxonomyID uuid.UUID) ([]*Term, error) {
	return s.store.ListTerms(ctx, taxonomyID)
}

func (s *service) ValidateAttachment(ctx context.Context, contentTypeID uuid.UUID, termIDs []uuid.UUID) error {
	for _, termID := range termIDs {
		term, err := s.store.GetTerm(ctx, termID)
		if err != nil {
			return err
		}
		tax, err := s.store.GetTaxonomy(ctx, term.TaxonomyID)
		if err != nil {
			return err
		}
		if len(tax.ContentTypeIDs) == 0 {
			continue
		}
		applicable := false
		for _, id := range tax.ContentTypeIDs {
			if id == contentTypeID {
				applicable = true
				break
			}
		}
		if !applicable {
			return ErrTermNotApplicable
		}
	}
	return nil
}

// checkParent enforces the parent rules: hierarchical taxonomy only, same
// taxonomy, no self-parenting, and no cycles anywhere up the ancestor chain.
func (s *service) checkParent(ctx context.Context, tax *Taxonomy, termID, parentID uuid.UUID) error {
	if !tax.Hierarchical {
		return ErrNotHierarchical
	}
	if parentID == termID {
		return ErrTermSelfParent
	}

	parent, err := s.store.GetTerm(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.TaxonomyID != tax.ID {
		return ErrParentWrongTaxonomy
	}

	// walk the full ancestor chain; the visited set guards against
	// pre-existing corrupt loops
	visited := map[uuid.UUID]struct{}{termID: {}}
	current := parent
	for {
		if _, ok := visited[current.ID]; ok {
			return ErrTermCycle
		}
		visited[current.ID] = struct{}{}
		if current.ParentID == nil {
			return nil
		}
		next, err := s.store.GetTerm(ctx, *current.ParentID)
		if err != nil {
			return err
		}
		current = next
	}
}

func trimNames(names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for code, name := range names {
		code = strings.ToLower(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if code == "" || name == "" {
			continue
		}
		out[code] = name
	}
	return out
}

func deriveSlugs(names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for code, name := range names {
		if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
			out[code] = normalized
		}
	}
	return out
}
