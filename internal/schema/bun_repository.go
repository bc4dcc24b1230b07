package schema

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

type BunContentTypeRepository struct {
	db     *bun.DB
	types  repository.Repository[*ContentType]
	fields repository.Repository[*FieldDefinition]
}

func NewBunContentTypeRepository(db *bun.DB) *BunContentTypeRepository {
	return NewBunContentTypeRepositoryWithCache(db, nil, nil)
}

// NewBunContentTypeRepositoryWithCache constructs a schema repository backed by bun with optional caching.
func NewBunContentTypeRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunContentTypeRepository {
	return &BunContentTypeRepository{
		db:     db,
		types:  wrapWithCache(NewContentTypeRecordRepository(db), cacheService, keySerializer),
		fields: wrapWithCache(NewFieldDefinitionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunContentTypeRepository) Create(ctx context.Context, record *ContentType) (*ContentType, error) {
	created, err := r.types.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "content type", Key: record.APIID}
		}
		return nil, mapRepositoryError(err, "content type", record.APIID)
	}
	return created, nil
}

func (r *BunContentTypeRepository) Update(ctx context.Context, record *ContentType) (*ContentType, error) {
	updated, err := r.types.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"description",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content type", record.ID.String())
	}
	return updated, nil
}

func (r *BunContentTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("schema repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*FieldDefinition)(nil)).
			Where("?TableAlias.content_type_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete field definitions: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*ContentType)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete content type: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("content type delete rows affected: %w", err)
		}
		if affected == 0 {
			return &NotFoundError{Resource: "content type", Key: id.String()}
		}
		return nil
	})
}

func (r *BunContentTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentType, error) {
	result, err := r.types.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content type", id.String())
	}
	fields, err := r.ListFields(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Fields = fields
	return result, nil
}

func (r *BunContentTypeRepository) GetByAPIID(ctx context.Context, apiID string) (*ContentType, error) {
	records, _, err := r.types.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.api_id = ?", apiID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content type", apiID)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content type", Key: apiID}
	}
	record := records[0]
	fields, err := r.ListFields(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Fields = fields
	return record, nil
}

func (r *BunContentTypeRepository) List(ctx context.Context) ([]*ContentType, error) {
	records, _, err := r.types.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "content type", "")
	}
	return records, nil
}

func (r *BunContentTypeRepository) CreateField(ctx context.Context, record *FieldDefinition) (*FieldDefinition, error) {
	created, err := r.fields.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "field", Key: record.APIID}
		}
		return nil, mapRepositoryError(err, "field", record.APIID)
	}
	return created, nil
}

func (r *BunContentTypeRepository) UpdateField(ctx context.Context, record *FieldDefinition) (*FieldDefinition, error) {
	updated, err := r.fields.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"field_order",
			"config",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "field", record.ID.String())
	}
	return updated, nil
}

func (r *BunContentTypeRepository) DeleteField(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("schema repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*FieldDefinition)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete field definition: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("field delete rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "field", Key: id.String()}
	}
	return nil
}

func (r *BunContentTypeRepository) GetField(ctx context.Context, id uuid.UUID) (*FieldDefinition, error) {
	result, err := r.fields.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "field", id.String())
	}
	return result, nil
}

func (r *BunContentTypeRepository) ListFields(ctx context.Context, contentTypeID uuid.UUID) ([]*FieldDefinition, error) {
	records, _, err := r.fields.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type_id = ?", contentTypeID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.field_order ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "field", contentTypeID.String())
	}
	return records, nil
}

type BunComponentRepository struct {
	db         *bun.DB
	components repository.Repository[*ComponentDefinition]
	fields     repository.Repository[*ComponentFieldDefinition]
}

func NewBunComponentRepository(db *bun.DB) *BunComponentRepository {
	return NewBunComponentRepositoryWithCache(db, nil, nil)
}

// NewBunComponentRepositoryWithCache constructs a component repository backed by bun with optional caching.
func NewBunComponentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunComponentRepository {
	return &BunComponentRepository{
		db:         db,
		components: wrapWithCache(NewComponentDefinitionRepository(db), cacheService, keySerializer),
		fields:     wrapWithCache(NewComponentFieldDefinitionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunComponentRepository) Create(ctx context.Context, record *ComponentDefinition) (*ComponentDefinition, error) {
	created, err := r.components.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "component", Key: record.APIID}
		}
		return nil, mapRepositoryError(err, "component", record.APIID)
	}
	return created, nil
}

func (r *BunComponentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("schema repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ComponentFieldDefinition)(nil)).
			Where("?TableAlias.component_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete component fields: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*ComponentDefinition)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete component: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("component delete rows affected: %w", err)
		}
		if affected == 0 {
			return &NotFoundError{Resource: "component", Key: id.String()}
		}
		return nil
	})
}

func (r *BunComponentRepository) GetByAPIID(ctx context.Context, apiID string) (*ComponentDefinition, error) {
	records, _, err := r.components.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.api_id = ?", apiID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "component", apiID)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "component", Key: apiID}
	}
	record := records[0]
	fields, err := r.ListFields(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Fields = fields
	return record, nil
}

func (r *BunComponentRepository) List(ctx context.Context) ([]*ComponentDefinition, error) {
	records, _, err := r.components.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "component", "")
	}
	return records, nil
}

func (r *BunComponentRepository) CreateField(ctx context.Context, record *ComponentFieldDefinition) (*ComponentFieldDefinition, error) {
	created, err := r.fields.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "component field", Key: record.APIID}
		}
		return nil, mapRepositoryError(err, "component field", record.APIID)
	}
	return created, nil
}

func (r *BunComponentRepository) ListFields(ctx context.Context, componentID uuid.UUID) ([]*ComponentFieldDefinition, error) {
	records, _, err := r.fields.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.component_id = ?", componentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.field_order ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "component field", componentID.String())
	}
	return records, nil
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
