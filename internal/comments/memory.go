package comments

import (
	"context"
	"sync"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository keeps comments in process memory. Useful for tests and
// ephemeral setups.
type MemoryRepository struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]*Comment
}

// NewMemoryRepository builds an empty in-memory comment store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		comments: make(map[uuid.UUID]*Comment),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, record *Comment) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneComment(record)
	r.comments[clone.ID] = clone
	return cloneComment(clone), nil
}

func (r *MemoryRepository) Update(ctx context.Context, record *Comment) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.comments[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "comment", Key: record.ID.String()}
	}

	clone := cloneComment(record)
	clone.ContentInstanceID = current.ContentInstanceID
	clone.UserID = current.UserID
	clone.SubmittedAt = current.SubmittedAt
	r.comments[clone.ID] = clone
	return cloneComment(clone), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return &NotFoundError{Resource: "comment", Key: id.String()}
	}
	delete(r.comments, id)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.comments[id]
	if !ok {
		return nil, &NotFoundError{Resource: "comment", Key: id.String()}
	}
	return cloneComment(record), nil
}

func (r *MemoryRepository) ListByInstance(ctx context.Context, instanceID uuid.UUID, statuses []domain.CommentStatus) ([]*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := make(map[domain.CommentStatus]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}

	results := make([]*Comment, 0)
	for _, record := range r.comments {
		if record.ContentInstanceID != instanceID {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[record.Status]; !ok {
				continue
			}
		}
		results = append(results, cloneComment(record))
	}
	return results, nil
}

func cloneComment(record *Comment) *Comment {
	if record == nil {
		return nil
	}
	clone := *record
	if record.ParentID != nil {
		parentID := *record.ParentID
		clone.ParentID = &parentID
	}
	clone.Replies = nil
	return &clone
}
