package i18n

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

type BunLanguageRepository struct {
	db   *bun.DB
	repo repository.Repository[*Language]
}

func NewBunLanguageRepository(db *bun.DB) *BunLanguageRepository {
	return NewBunLanguageRepositoryWithCache(db, nil, nil)
}

// NewBunLanguageRepositoryWithCache constructs a language repository backed by bun with optional caching.
func NewBunLanguageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLanguageRepository {
	base := NewLanguageRepository(db)
	return &BunLanguageRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunLanguageRepository) Create(ctx context.Context, record *Language) (*Language, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "language", record.Code)
	}
	return created, nil
}

func (r *BunLanguageRepository) Update(ctx context.Context, record *Language) (*Language, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"is_active",
			"is_default",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "language", record.ID.String())
	}
	return updated, nil
}

func (r *BunLanguageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("language repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*Language)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete language: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("language delete rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "language", Key: id.String()}
	}
	return nil
}

func (r *BunLanguageRepository) GetByCode(ctx context.Context, code string) (*Language, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.code = ?", normalized)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "language", normalized)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "language", Key: normalized}
	}
	return records[0], nil
}

func (r *BunLanguageRepository) List(ctx context.Context) ([]*Language, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "language", "")
	}
	return records, nil
}

// SetDefault clears the default flag on every language and sets it on the
// supplied code inside one transaction.
func (r *BunLanguageRepository) SetDefault(ctx context.Context, code string) (*Language, error) {
	if r.db == nil {
		return nil, fmt.Errorf("language repository: database not configured")
	}

	normalized := strings.ToLower(strings.TrimSpace(code))
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*Language)(nil)).
			Set("is_default = ?", false).
			Where("?TableAlias.is_default = ?", true).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear default language: %w", err)
		}

		result, err := tx.NewUpdate().
			Model((*Language)(nil)).
			Set("is_default = ?", true).
			Where("?TableAlias.code = ?", normalized).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("set default language: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("default language rows affected: %w", err)
		}
		if affected == 0 {
			return &NotFoundError{Resource: "language", Key: normalized}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByCode(ctx, normalized)
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
