package comments

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// Repository abstracts comment storage.
type Repository interface {
	Create(ctx context.Context, record *Comment) (*Comment, error)
	Update(ctx context.Context, record *Comment) (*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByInstance(ctx context.Context, instanceID uuid.UUID, statuses []domain.CommentStatus) ([]*Comment, error)
}

// Service manages comment submission, moderation, and threaded reads.
type Service interface {
	Submit(ctx context.Context, req SubmitCommentRequest) (*Comment, error)
	Moderate(ctx context.Context, req ModerateCommentRequest) (*Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*Comment, error)
	// List returns comments for an instance. Public reads keep approved
	// comments only; moderation reads include every status. Threaded
	// assembly nests replies under their parents.
	List(ctx context.Context, req ListCommentsRequest) ([]*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmitCommentRequest captures a new comment. Status is always pending.
type SubmitCommentRequest struct {
	ContentInstanceID uuid.UUID
	UserID            uuid.UUID
	ParentID          *uuid.UUID
	Body              string
}

// ModerateCommentRequest captures a moderation decision.
type ModerateCommentRequest struct {
	CommentID uuid.UUID
	Status    string
}

// ListCommentsRequest filters comment listings.
type ListCommentsRequest struct {
	ContentInstanceID uuid.UUID
	IncludeAll        bool
	Threaded          bool
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

// WithEventSink wires the sink that receives comment lifecycle events.
func WithEventSink(sink interfaces.EventSink) ServiceOption {
	return func(s *service) {
		if sink != nil {
			s.events = sink
		}
	}
}

type service struct {
	store  Repository
	events interfaces.EventSink
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a comment service.
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

func (s *service) Submit(ctx context.Context, req SubmitCommentRequest) (*Comment, error) {
	if (req.ContentInstanceID == uuid.UUID{}) {
		return nil, ErrInstanceRequired
	}
	if (req.UserID == uuid.UUID{}) {
		return nil, ErrUserRequired
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, ErrBodyRequired
	}

	if req.ParentID != nil {
		parent, err := s.store.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ContentInstanceID != req.ContentInstanceID {
			return nil, ErrParentWrongInstance
		}
	}

	now := s.now()
	record := &Comment{
		ID:                s.id(),
		ContentInstanceID: req.ContentInstanceID,
		UserID:            req.UserID,
		ParentID:          req.ParentID,
		Body:              body,
		Status:            domain.CommentStatusPending,
		SubmittedAt:       now,
		UpdatedAt:         now,
	}

	created, err := s.store.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.EventCommentSubmitted, created)
	return created, nil
}

func (s *service) Moderate(ctx context.Context, req ModerateCommentRequest) (*Comment, error) {
	if !domain.ValidCommentStatus(req.Status) {
		return nil, ErrStatusInvalid
	}
	status := domain.CommentStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	record, err := s.store.GetByID(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}
	if record.Status == status {
		return record, nil
	}

	record.Status = status
	record.UpdatedAt = s.now()

	updated, err := s.store.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if status == domain.CommentStatusApproved {
		s.emit(ctx, domain.EventCommentApproved, updated)
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return s.store.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, req ListCommentsRequest) ([]*Comment, error) {
	var statuses []domain.CommentStatus
	if !req.IncludeAll {
		statuses = []domain.CommentStatus{domain.CommentStatusApproved}
	}

	records, err := s.store.ListByInstance(ctx, req.ContentInstanceID, statuses)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].SubmittedAt.Before(records[j].SubmittedAt) })

	if !req.Threaded {
		return records, nil
	}
	return assembleThreads(records), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// assembleThreads nests replies under their parents. Replies whose parent is
// filtered out (e.g. still pending on a public read) surface at the root so
// they are not silently lost.
func assembleThreads(records []*Comment) []*Comment {
	byID := make(map[uuid.UUID]*Comment, len(records))
	for _, record := range records {
		record.Replies = nil
		byID[record.ID] = record
	}

	roots := make([]*Comment, 0, len(records))
	for _, record := range records {
		if record.ParentID != nil {
			if parent, ok := byID[*record.ParentID]; ok {
				parent.Replies = append(parent.Replies, record)
				continue
			}
		}
		roots = append(roots, record)
	}
	return roots
}

func (s *service) emit(ctx context.Context, event string, record *Comment) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, event, map[string]any{
		"id":                  record.ID.String(),
		"content_instance_id": record.ContentInstanceID.String(),
		"user_id":             record.UserID.String(),
		"status":              string(record.Status),
	})
}
