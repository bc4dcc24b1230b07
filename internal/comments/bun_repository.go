package comments

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-headless/internal/domain"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db       *bun.DB
	comments repository.Repository[*Comment]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a comment repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewCommentRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{db: db, comments: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Comment) (*Comment, error) {
	created, err := r.comments.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "comment", record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Comment) (*Comment, error) {
	updated, err := r.comments.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"body",
			"status",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "comment", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("comment repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*Comment)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("comment delete rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "comment", Key: id.String()}
	}
	return nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	result, err := r.comments.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "comment", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListByInstance(ctx context.Context, instanceID uuid.UUID, statuses []domain.CommentStatus) ([]*Comment, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.content_instance_id = ?", instanceID)
			if len(statuses) > 0 {
				q = q.Where("?TableAlias.status IN (?)", bun.In(statuses))
			}
			return q.Order("cmt.submitted_at ASC")
		}),
	}

	records, _, err := r.comments.List(ctx, criteria...)
	if err != nil {
		return nil, mapRepositoryError(err, "comment", instanceID.String())
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}
