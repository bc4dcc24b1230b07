package media

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
	db       *bun.DB
	folders  repository.Repository[*Folder]
	tags     repository.Repository[*MediaTag]
	profiles repository.Repository[*ImageOptimizationProfile]
	assets   repository.Repository[*MediaAsset]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a media repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:       db,
		folders:  wrapWithCache(NewFolderRepository(db), cacheService, keySerializer),
		tags:     wrapWithCache(NewTagRepository(db), cacheService, keySerializer),
		profiles: wrapWithCache(NewProfileRepository(db), cacheService, keySerializer),
		assets:   wrapWithCache(NewAssetRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) CreateFolder(ctx context.Context, record *Folder) (*Folder, error) {
	created, err := r.folders.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "folder", Key: record.Name}
		}
		return nil, mapRepositoryError(err, "folder", record.Name)
	}
	return created, nil
}

func (r *BunRepository) UpdateFolder(ctx context.Context, record *Folder) (*Folder, error) {
	updated, err := r.folders.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("name", "parent_id", "updated_at"),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "folder", Key: record.Name}
		}
		return nil, mapRepositoryError(err, "folder", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*Folder)(nil), "folder", id)
}

func (r *BunRepository) GetFolder(ctx context.Context, id uuid.UUID) (*Folder, error) {
	result, err := r.folders.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "folder", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListFolders(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error) {
	records, _, err := r.folders.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if parentID == nil {
				q = q.Where("?TableAlias.parent_id IS NULL")
			} else {
				q = q.Where("?TableAlias.parent_id = ?", *parentID)
			}
			return q.Order("fld.name ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "folder", "")
	}
	return records, nil
}

func (r *BunRepository) CreateTag(ctx context.Context, record *MediaTag) (*MediaTag, error) {
	created, err := r.tags.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "media tag", Key: record.Slug}
		}
		return nil, mapRepositoryError(err, "media tag", record.Slug)
	}
	return created, nil
}

func (r *BunRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*MediaTag)(nil), "media tag", id)
}

func (r *BunRepository) ListTags(ctx context.Context) ([]*MediaTag, error) {
	records, _, err := r.tags.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("mtg.slug ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "media tag", "")
	}
	return records, nil
}

func (r *BunRepository) CreateProfile(ctx context.Context, record *ImageOptimizationProfile) (*ImageOptimizationProfile, error) {
	created, err := r.profiles.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "optimization profile", Key: record.Slug}
		}
		return nil, mapRepositoryError(err, "optimization profile", record.Slug)
	}
	return created, nil
}

func (r *BunRepository) UpdateProfile(ctx context.Context, record *ImageOptimizationProfile) (*ImageOptimizationProfile, error) {
	updated, err := r.profiles.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"max_width",
			"max_height",
			"format",
			"quality",
			"is_active",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "optimization profile", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*ImageOptimizationProfile)(nil), "optimization profile", id)
}

func (r *BunRepository) GetProfile(ctx context.Context, id uuid.UUID) (*ImageOptimizationProfile, error) {
	result, err := r.profiles.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "optimization profile", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListProfiles(ctx context.Context, activeOnly bool) ([]*ImageOptimizationProfile, error) {
	records, _, err := r.profiles.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if activeOnly {
				q = q.Where("?TableAlias.is_active = ?", true)
			}
			return q.Order("iop.slug ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "optimization profile", "")
	}
	return records, nil
}

func (r *BunRepository) CreateAsset(ctx context.Context, record *MediaAsset) (*MediaAsset, error) {
	created, err := r.assets.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "media asset", record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) UpdateAsset(ctx context.Context, record *MediaAsset) (*MediaAsset, error) {
	updated, err := r.assets.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"translated_title",
			"translated_alt_text",
			"translated_caption",
			"width",
			"height",
			"folder_id",
			"tag_ids",
			"custom_metadata",
			"optimized_versions",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "media asset", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*MediaAsset)(nil), "media asset", id)
}

func (r *BunRepository) GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error) {
	result, err := r.assets.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "media asset", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListAssets(ctx context.Context, filter AssetFilter) ([]*MediaAsset, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.FolderID != nil {
				q = q.Where("?TableAlias.folder_id = ?", *filter.FolderID)
			}
			return q.Order("mda.created_at DESC")
		}),
	}
	if filter.Limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(filter.Limit, filter.Offset))
	}

	records, total, err := r.assets.List(ctx, criteria...)
	if err != nil {
		return nil, 0, mapRepositoryError(err, "media asset", "")
	}

	// tag membership lives in a jsonb array; filter after the fetch
	if filter.TagID != nil {
		filtered := records[:0]
		for _, record := range records {
			if containsID(record.TagIDs, *filter.TagID) {
				filtered = append(filtered, record)
			}
		}
		records = filtered
		total = len(records)
	}
	return records, total, nil
}

func (r *BunRepository) CountAssetsInFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	if r.db == nil {
		return 0, fmt.Errorf("media repository: database not configured")
	}
	count, err := r.db.NewSelect().
		Model((*MediaAsset)(nil)).
		Where("?TableAlias.folder_id = ?", folderID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count folder assets: %w", err)
	}
	return count, nil
}

func (r *BunRepository) deleteByID(ctx context.Context, model any, resource string, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("media repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model(model).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s delete rows affected: %w", resource, err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: resource, Key: id.String()}
	}
	return nil
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
