package taxonomy

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
	db         *bun.DB
	taxonomies repository.Repository[*Taxonomy]
	terms      repository.Repository[*Term]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a taxonomy repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:         db,
		taxonomies: wrapWithCache(NewTaxonomyRepository(db), cacheService, keySerializer),
		terms:      wrapWithCache(NewTermRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) CreateTaxonomy(ctx context.Context, record *Taxonomy) (*Taxonomy, error) {
	created, err := r.taxonomies.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "taxonomy", Key: record.APIID}
		}
		return nil, mapRepositoryError(err, "taxonomy", record.APIID)
	}
	return created, nil
}

func (r *BunRepository) UpdateTaxonomy(ctx context.Context, record *Taxonomy) (*Taxonomy, error) {
	updated, err := r.taxonomies.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"content_type_ids",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "taxonomy", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteTaxonomy(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("taxonomy repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Term)(nil)).
			Where("?TableAlias.taxonomy_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete terms: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*Taxonomy)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete taxonomy: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("taxonomy delete rows affected: %w", err)
		}
		if affected == 0 {
			return &NotFoundError{Resource: "taxonomy", Key: id.String()}
		}
		return nil
	})
}

func (r *BunRepository) GetTaxonomy(ctx context.Context, id uuid.UUID) (*Taxonomy, error) {
	result, err := r.taxonomies.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "taxonomy", id.String())
	}
	return result, nil
}

func (r *BunRepository) GetTaxonomyByAPIID(ctx context.Context, apiID string) (*Taxonomy, error) {
	records, _, err := r.taxonomies.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.api_id = ?", apiID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "taxonomy", apiID)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "taxonomy", Key: apiID}
	}
	return records[0], nil
}

func (r *BunRepository) ListTaxonomies(ctx context.Context) ([]*Taxonomy, error) {
	records, _, err := r.taxonomies.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "taxonomy", "")
	}
	return records, nil
}

func (r *BunRepository) CreateTerm(ctx context.Context, record *Term) (*Term, error) {
	created, err := r.terms.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "term", record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) UpdateTerm(ctx context.Context, record *Term) (*Term, error) {
	updated, err := r.terms.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"parent_id",
			"translated_names",
			"translated_slugs",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "term", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("taxonomy repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*Term)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete term: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("term delete rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "term", Key: id.String()}
	}
	return nil
}

func (r *BunRepository) GetTerm(ctx context.Context, id uuid.UUID) (*Term, error) {
	result, err := r.terms.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "term", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListTerms(ctx context.Context, taxonomyID uuid.UUID) ([]*Term, error) {
	records, _, err := r.terms.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.taxonomy_id = ?", taxonomyID)
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "term", taxonomyID.String())
	}
	return records, nil
}

func (r *BunRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Term, error) {
	records, _, err := r.terms.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.parent_id = ?", parentID)
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "term", parentID.String())
	}
	return records, nil
}

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
