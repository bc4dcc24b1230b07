package content

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db        *bun.DB
	instances repository.Repository[*ContentInstance]
	fields    repository.Repository[*ContentFieldInstance]
	versions  repository.Repository[*ContentVersion]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a content repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:        db,
		instances: wrapWithCache(NewInstanceRepository(db), cacheService, keySerializer),
		fields:    wrapWithCache(NewFieldInstanceRepository(db), cacheService, keySerializer),
		versions:  wrapWithCache(NewVersionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) CreateInstance(ctx context.Context, record *ContentInstance, fields []*ContentFieldInstance, version *ContentVersion) (*ContentInstance, error) {
	if r.db == nil {
		return nil, fmt.Errorf("content repository: database not configured")
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert content instance: %w", err)
		}
		if len(fields) > 0 {
			if _, err := tx.NewInsert().Model(&fields).Exec(ctx); err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateFieldCell
				}
				return fmt.Errorf("insert field rows: %w", err)
			}
		}
		if version != nil {
			if _, err := tx.NewInsert().Model(version).Exec(ctx); err != nil {
				return fmt.Errorf("insert content version: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateInstance commits the instance mutation, field upserts/deletes, and
// the version append in one transaction. The revision predicate turns stale
// writes into ErrRevisionConflict.
func (r *BunRepository) UpdateInstance(ctx context.Context, record *ContentInstance, expectedRevision int, upserts []*ContentFieldInstance, deleteIDs []uuid.UUID, version *ContentVersion) (*ContentInstance, error) {
	if r.db == nil {
		return nil, fmt.Errorf("content repository: database not configured")
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(record).
			Column("status", "author_id", "revision", "term_ids", "published_at", "updated_at").
			Where("?TableAlias.id = ?", record.ID).
			Where("?TableAlias.revision = ?", expectedRevision).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update content instance: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("content instance rows affected: %w", err)
		}
		if affected == 0 {
			count, getErr := tx.NewSelect().
				Model((*ContentInstance)(nil)).
				Where("?TableAlias.id = ?", record.ID).
				Count(ctx)
			if getErr != nil {
				return fmt.Errorf("content instance revision check: %w", getErr)
			}
			if count == 0 {
				return &NotFoundError{Resource: "content instance", Key: record.ID.String()}
			}
			return ErrRevisionConflict
		}

		for _, row := range upserts {
			if _, err := tx.NewInsert().
				Model(row).
				On("CONFLICT (id) DO UPDATE").
				Set("value = EXCLUDED.value").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateFieldCell
				}
				return fmt.Errorf("upsert field row: %w", err)
			}
		}

		if len(deleteIDs) > 0 {
			if _, err := tx.NewDelete().
				Model((*ContentFieldInstance)(nil)).
				Where("?TableAlias.id IN (?)", bun.In(deleteIDs)).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete field rows: %w", err)
			}
		}

		if version != nil {
			if _, err := tx.NewInsert().Model(version).Exec(ctx); err != nil {
				return fmt.Errorf("insert content version: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentInstance, error) {
	result, err := r.instances.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content instance", id.String())
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*ContentInstance, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	}
	if opts.ContentTypeID != nil {
		typeID := *opts.ContentTypeID
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type_id = ?", typeID)
		}))
	}
	if opts.Status != nil {
		status := *opts.Status
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", string(status))
		}))
	}
	if opts.Limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, opts.Offset))
	}

	records, _, err := r.instances.List(ctx, criteria...)
	if err != nil {
		return nil, mapRepositoryError(err, "content instance", "")
	}
	return records, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("content repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ContentFieldInstance)(nil)).
			Where("?TableAlias.content_instance_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete field rows: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*ContentVersion)(nil)).
			Where("?TableAlias.content_instance_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete content versions: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*ContentInstance)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete content instance: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("content instance delete rows affected: %w", err)
		}
		if affected == 0 {
			return &NotFoundError{Resource: "content instance", Key: id.String()}
		}
		return nil
	})
}

func (r *BunRepository) ListFields(ctx context.Context, instanceID uuid.UUID) ([]*ContentFieldInstance, error) {
	records, _, err := r.fields.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_instance_id = ?", instanceID)
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "field row", instanceID.String())
	}
	return records, nil
}

func (r *BunRepository) CountByContentType(ctx context.Context, contentTypeID uuid.UUID) (int, error) {
	if r.db == nil {
		return 0, fmt.Errorf("content repository: database not configured")
	}
	count, err := r.db.NewSelect().
		Model((*ContentInstance)(nil)).
		Where("?TableAlias.content_type_id = ?", contentTypeID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count content instances: %w", err)
	}
	return count, nil
}

func (r *BunRepository) ListVersions(ctx context.Context, instanceID uuid.UUID, limit, offset int) ([]*ContentVersion, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_instance_id = ?", instanceID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	}
	if limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(limit, offset))
	}

	records, total, err := r.versions.List(ctx, criteria...)
	if err != nil {
		return nil, 0, mapRepositoryError(err, "content version", instanceID.String())
	}
	return records, total, nil
}

func (r *BunRepository) GetVersion(ctx context.Context, versionID uuid.UUID) (*ContentVersion, error) {
	result, err := r.versions.GetByID(ctx, versionID.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content version", versionID.String())
	}
	return result, nil
}

// isUniqueViolation inspects driver errors for unique-constraint failures
// (sqlite and postgres phrasing).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
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

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
