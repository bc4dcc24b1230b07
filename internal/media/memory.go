package media

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps media metadata in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	folders  map[uuid.UUID]*Folder
	tags     map[uuid.UUID]*MediaTag
	tagSlugs map[string]uuid.UUID
	profiles map[uuid.UUID]*ImageOptimizationProfile
	slugs    map[string]uuid.UUID
	assets   map[uuid.UUID]*MediaAsset
}

// NewMemoryRepository builds an empty in-memory media store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		folders:  make(map[uuid.UUID]*Folder),
		tags:     make(map[uuid.UUID]*MediaTag),
		tagSlugs: make(map[string]uuid.UUID),
		profiles: make(map[uuid.UUID]*ImageOptimizationProfile),
		slugs:    make(map[string]uuid.UUID),
		assets:   make(map[uuid.UUID]*MediaAsset),
	}
}

func (r *MemoryRepository) CreateFolder(ctx context.Context, record *Folder) (*Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneFolder(record)
	r.folders[clone.ID] = clone
	return cloneFolder(clone), nil
}

func (r *MemoryRepository) UpdateFolder(ctx context.Context, record *Folder) (*Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.folders[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "folder", Key: record.ID.String()}
	}
	clone := cloneFolder(record)
	r.folders[clone.ID] = clone
	return cloneFolder(clone), nil
}

func (r *MemoryRepository) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.folders[id]; !ok {
		return &NotFoundError{Resource: "folder", Key: id.String()}
	}
	delete(r.folders, id)
	return nil
}

func (r *MemoryRepository) GetFolder(ctx context.Context, id uuid.UUID) (*Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.folders[id]
	if !ok {
		return nil, &NotFoundError{Resource: "folder", Key: id.String()}
	}
	return cloneFolder(record), nil
}

func (r *MemoryRepository) ListFolders(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Folder, 0)
	for _, record := range r.folders {
		if !sameParent(record.ParentID, parentID) {
			continue
		}
		results = append(results, cloneFolder(record))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (r *MemoryRepository) CreateTag(ctx context.Context, record *MediaTag) (*MediaTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.tagSlugs[record.Slug]; taken {
		return nil, &ConflictError{Resource: "media tag", Key: record.Slug}
	}
	clone := cloneTag(record)
	r.tags[clone.ID] = clone
	r.tagSlugs[clone.Slug] = clone.ID
	return cloneTag(clone), nil
}

func (r *MemoryRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.tags[id]
	if !ok {
		return &NotFoundError{Resource: "media tag", Key: id.String()}
	}
	delete(r.tagSlugs, record.Slug)
	delete(r.tags, id)
	return nil
}

func (r *MemoryRepository) ListTags(ctx context.Context) ([]*MediaTag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*MediaTag, 0, len(r.tags))
	for _, record := range r.tags {
		results = append(results, cloneTag(record))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Slug < results[j].Slug })
	return results, nil
}

func (r *MemoryRepository) CreateProfile(ctx context.Context, record *ImageOptimizationProfile) (*ImageOptimizationProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.slugs[record.Slug]; taken {
		return nil, &ConflictError{Resource: "optimization profile", Key: record.Slug}
	}
	clone := cloneProfile(record)
	r.profiles[clone.ID] = clone
	r.slugs[clone.Slug] = clone.ID
	return cloneProfile(clone), nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, record *ImageOptimizationProfile) (*ImageOptimizationProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.profiles[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "optimization profile", Key: record.ID.String()}
	}
	clone := cloneProfile(record)
	clone.Slug = current.Slug
	r.profiles[clone.ID] = clone
	return cloneProfile(clone), nil
}

func (r *MemoryRepository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.profiles[id]
	if !ok {
		return &NotFoundError{Resource: "optimization profile", Key: id.String()}
	}
	delete(r.slugs, record.Slug)
	delete(r.profiles, id)
	return nil
}

func (r *MemoryRepository) GetProfile(ctx context.Context, id uuid.UUID) (*ImageOptimizationProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.profiles[id]
	if !ok {
		return nil, &NotFoundError{Resource: "optimization profile", Key: id.String()}
	}
	return cloneProfile(record), nil
}

func (r *MemoryRepository) ListProfiles(ctx context.Context, activeOnly bool) ([]*ImageOptimizationProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*ImageOptimizationProfile, 0, len(r.profiles))
	for _, record := range r.profiles {
		if activeOnly && !record.IsActive {
			continue
		}
		results = append(results, cloneProfile(record))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Slug < results[j].Slug })
	return results, nil
}

func (r *MemoryRepository) CreateAsset(ctx context.Context, record *MediaAsset) (*MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneAsset(record)
	r.assets[clone.ID] = clone
	return cloneAsset(clone), nil
}

func (r *MemoryRepository) UpdateAsset(ctx context.Context, record *MediaAsset) (*MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.assets[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "media asset", Key: record.ID.String()}
	}
	clone := cloneAsset(record)
	clone.FileKey = current.FileKey
	clone.Filename = current.Filename
	clone.CreatedAt = current.CreatedAt
	r.assets[clone.ID] = clone
	return cloneAsset(clone), nil
}

func (r *MemoryRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[id]; !ok {
		return &NotFoundError{Resource: "media asset", Key: id.String()}
	}
	delete(r.assets, id)
	return nil
}

func (r *MemoryRepository) GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.assets[id]
	if !ok {
		return nil, &NotFoundError{Resource: "media asset", Key: id.String()}
	}
	return cloneAsset(record), nil
}

func (r *MemoryRepository) ListAssets(ctx context.Context, filter AssetFilter) ([]*MediaAsset, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*MediaAsset, 0)
	for _, record := range r.assets {
		if filter.FolderID != nil && !sameParent(record.FolderID, filter.FolderID) {
			continue
		}
		if filter.TagID != nil && !containsID(record.TagIDs, *filter.TagID) {
			continue
		}
		matches = append(matches, record)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	total := len(matches)
	if filter.Offset > 0 {
		if filter.Offset >= len(matches) {
			matches = nil
		} else {
			matches = matches[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}

	results := make([]*MediaAsset, 0, len(matches))
	for _, record := range matches {
		results = append(results, cloneAsset(record))
	}
	return results, total, nil
}

func (r *MemoryRepository) CountAssetsInFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, record := range r.assets {
		if record.FolderID != nil && *record.FolderID == folderID {
			count++
		}
	}
	return count, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func cloneFolder(record *Folder) *Folder {
	if record == nil {
		return nil
	}
	clone := *record
	if record.ParentID != nil {
		parentID := *record.ParentID
		clone.ParentID = &parentID
	}
	return &clone
}

func cloneTag(record *MediaTag) *MediaTag {
	if record == nil {
		return nil
	}
	clone := *record
	return &clone
}

func cloneProfile(record *ImageOptimizationProfile) *ImageOptimizationProfile {
	if record == nil {
		return nil
	}
	clone := *record
	return &clone
}

func cloneAsset(record *MediaAsset) *MediaAsset {
	if record == nil {
		return nil
	}
	clone := *record
	clone.TranslatedTitle = cloneStringMap(record.TranslatedTitle)
	clone.TranslatedAltText = cloneStringMap(record.TranslatedAltText)
	clone.TranslatedCaption = cloneStringMap(record.TranslatedCaption)
	clone.OptimizedVersions = cloneStringMap(record.OptimizedVersions)
	if record.FolderID != nil {
		folderID := *record.FolderID
		clone.FolderID = &folderID
	}
	if record.UploaderID != nil {
		uploaderID := *record.UploaderID
		clone.UploaderID = &uploaderID
	}
	if record.Width != nil {
		width := *record.Width
		clone.Width = &width
	}
	if record.Height != nil {
		height := *record.Height
		clone.Height = &height
	}
	clone.TagIDs = append([]uuid.UUID(nil), record.TagIDs...)
	if record.CustomMetadata != nil {
		clone.CustomMetadata = make(map[string]any, len(record.CustomMetadata))
		for key, value := range record.CustomMetadata {
			clone.CustomMetadata[key] = value
		}
	}
	return &clone
}

func cloneStringMap(source map[string]string) map[string]string {
	if source == nil {
		return nil
	}
	clone := make(map[string]string, len(source))
	for key, value := range source {
		clone[key] = value
	}
	return clone
}
