package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// TaskProcessAsset routes asset processing tasks to the media handler.
const TaskProcessAsset = "media.process_asset"

const maxSlugAttempts = 50

// Repository abstracts media metadata storage.
type Repository interface {
	CreateFolder(ctx context.Context, record *Folder) (*Folder, error)
	UpdateFolder(ctx context.Context, record *Folder) (*Folder, error)
	DeleteFolder(ctx context.Context, id uuid.UUID) error
	GetFolder(ctx context.Context, id uuid.UUID) (*Folder, error)
	ListFolders(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error)

	CreateTag(ctx context.Context, record *MediaTag) (*MediaTag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	ListTags(ctx context.Context) ([]*MediaTag, error)

	CreateProfile(ctx context.Context, record *ImageOptimizationProfile) (*ImageOptimizationProfile, error)
	UpdateProfile(ctx context.Context, record *ImageOptimizationProfile) (*ImageOptimizationProfile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	GetProfile(ctx context.Context, id uuid.UUID) (*ImageOptimizationProfile, error)
	ListProfiles(ctx context.Context, activeOnly bool) ([]*ImageOptimizationProfile, error)

	CreateAsset(ctx context.Context, record *MediaAsset) (*MediaAsset, error)
	UpdateAsset(ctx context.Context, record *MediaAsset) (*MediaAsset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error)
	ListAssets(ctx context.Context, filter AssetFilter) ([]*MediaAsset, int, error)
	CountAssetsInFolder(ctx context.Context, folderID uuid.UUID) (int, error)
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	FolderID *uuid.UUID
	TagID    *uuid.UUID
	Limit    int
	Offset   int
}

// Service manages the media library: folders, tags, optimization profiles,
// and asset metadata. Binary payloads live behind interfaces.FileStore.
type Service interface {
	CreateFolder(ctx context.Context, name string, parentID *uuid.UUID) (*Folder, error)
	RenameFolder(ctx context.Context, id uuid.UUID, name string) (*Folder, error)
	DeleteFolder(ctx context.Context, id uuid.UUID) error
	ListFolders(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error)

	CreateTag(ctx context.Context, name string) (*MediaTag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	ListTags(ctx context.Context) ([]*MediaTag, error)

	CreateProfile(ctx context.Context, req CreateProfileRequest) (*ImageOptimizationProfile, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ImageOptimizationProfile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	ListProfiles(ctx context.Context, activeOnly bool) ([]*ImageOptimizationProfile, error)

	CreateAsset(ctx context.Context, req CreateAssetRequest) (*MediaAsset, error)
	UpdateAsset(ctx context.Context, req UpdateAssetRequest) (*MediaAsset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error)
	ListAssets(ctx context.Context, filter AssetFilter) ([]*MediaAsset, int, error)

	// ProcessAsset decodes the stored image, records its dimensions, and
	// renders every active optimization profile. Non-image assets are left
	// untouched. Normally invoked through the task queue.
	ProcessAsset(ctx context.Context, assetID uuid.UUID) (*MediaAsset, error)
}

// CreateProfileRequest describes a new optimization profile.
type CreateProfileRequest struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Format    string
	Quality   int
	IsActive  bool
}

// UpdateProfileRequest mutates an existing profile. Nil fields are untouched.
type UpdateProfileRequest struct {
	ProfileID uuid.UUID
	Name      *string
	MaxWidth  *int
	MaxHeight *int
	Format    *string
	Quality   *int
	IsActive  *bool
}

// CreateAssetRequest uploads a new asset. File is consumed and stored behind
// the configured FileStore.
type CreateAssetRequest struct {
	Filename          string
	MimeType          string
	File              io.Reader
	FolderID          *uuid.UUID
	TagIDs            []uuid.UUID
	UploaderID        *uuid.UUID
	TranslatedTitle   map[string]string
	TranslatedAltText map[string]string
	TranslatedCaption map[string]string
	CustomMetadata    map[string]any
}

// UpdateAssetRequest mutates asset metadata. Nil fields are untouched; the
// stored binary never changes through this path.
type UpdateAssetRequest struct {
	AssetID           uuid.UUID
	FolderID          *uuid.UUID
	ClearFolder       bool
	TagIDs            []uuid.UUID
	TranslatedTitle   map[string]string
	TranslatedAltText map[string]string
	TranslatedCaption map[string]string
	CustomMetadata    map[string]any
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

// WithEventSink wires the sink receiving media lifecycle events.
func WithEventSink(sink interfaces.EventSink) ServiceOption {
	return func(s *service) {
		if sink != nil {
			s.events = sink
		}
	}
}

// WithQueue offloads asset processing to the task queue. Without a queue,
// uploads are processed inline.
func WithQueue(queue interfaces.Queue) ServiceOption {
	return func(s *service) {
		s.queue = queue
	}
}

type service struct {
	store  Repository
	files  interfaces.FileStore
	queue  interfaces.Queue
	events interfaces.EventSink
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a media service over the given metadata store and
// file store.
func NewService(store Repository, files interfaces.FileStore, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		files:  files,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateFolder(ctx context.Context, name string, parentID *uuid.UUID) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}
	if err := s.checkSiblingName(ctx, name, parentID, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Folder{
		ID:        s.id(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.store.CreateFolder(ctx, record)
	if err != nil {
		if IsConflict(err) {
			return nil, ErrFolderNameTaken
		}
		return nil, err
	}
	return created, nil
}

func (s *service) RenameFolder(ctx context.Context, id uuid.UUID, name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}

	record, err := s.store.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Name == name {
		return record, nil
	}
	if err := s.checkSiblingName(ctx, name, record.ParentID, record.ID); err != nil {
		return nil, err
	}

	record.Name = name
	record.UpdatedAt = s.now()
	return s.store.UpdateFolder(ctx, record)
}

func (s *service) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetFolder(ctx, id); err != nil {
		return err
	}

	children, err := s.store.ListFolders(ctx, &id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return ErrFolderNotEmpty
	}
	count, err := s.store.CountAssetsInFolder(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFolderNotEmpty
	}
	return s.store.DeleteFolder(ctx, id)
}

func (s *service) ListFolders(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error) {
	return s.store.ListFolders(ctx, parentID)
}

func (s *service) checkSiblingName(ctx context.Context, name string, parentID *uuid.UUID, exclude uuid.UUID) error {
	siblings, err := s.store.ListFolders(ctx, parentID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.ID == exclude {
			continue
		}
		if strings.EqualFold(sibling.Name, name) {
			return ErrFolderNameTaken
		}
	}
	return nil
}

func (s *service) CreateTag(ctx context.Context, name string) (*MediaTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	base, err := slug.Normalize(name)
	if err != nil || base == "" {
		return nil, ErrTagNameRequired
	}

	now := s.now()
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		record := &MediaTag{
			ID:        s.id(),
			Name:      name,
			Slug:      slugCandidate(base, attempt),
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := s.store.CreateTag(ctx, record)
		if err != nil {
			if IsConflict(err) {
				continue
			}
			return nil, err
		}
		return created, nil
	}
	return nil, ErrSlugExhausted
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTag(ctx, id)
}

func (s *service) ListTags(ctx context.Context) ([]*MediaTag, error) {
	return s.store.ListTags(ctx)
}

func (s *service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ImageOptimizationProfile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrProfileNameRequired
	}
	if req.MaxWidth <= 0 || req.MaxHeight <= 0 {
		return nil, ErrProfileBoundsNeeded
	}
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return nil, err
	}
	quality := req.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	base, err := slug.Normalize(name)
	if err != nil || base == "" {
		return nil, ErrProfileNameRequired
	}

	now := s.now()
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		record := &ImageOptimizationProfile{
			ID:        s.id(),
			Name:      name,
			Slug:      slugCandidate(base, attempt),
			MaxWidth:  req.MaxWidth,
			MaxHeight: req.MaxHeight,
			Format:    format,
			Quality:   quality,
			IsActive:  req.IsActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := s.store.CreateProfile(ctx, record)
		if err != nil {
			if IsConflict(err) {
				continue
			}
			return nil, err
		}
		return created, nil
	}
	return nil, ErrSlugExhausted
}

func (s *service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ImageOptimizationProfile, error) {
	record, err := s.store.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrProfileNameRequired
		}
		record.Name = name
	}
	if req.MaxWidth != nil {
		if *req.MaxWidth <= 0 {
			return nil, ErrProfileBoundsNeeded
		}
		record.MaxWidth = *req.MaxWidth
	}
	if req.MaxHeight != nil {
		if *req.MaxHeight <= 0 {
			return nil, ErrProfileBoundsNeeded
		}
		record.MaxHeight = *req.MaxHeight
	}
	if req.Format != nil {
		format, err := normalizeFormat(*req.Format)
		if err != nil {
			return nil, err
		}
		record.Format = format
	}
	if req.Quality != nil {
		quality := *req.Quality
		if quality <= 0 || quality > 100 {
			quality = defaultQuality
		}
		record.Quality = quality
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}

	record.UpdatedAt = s.now()
	return s.store.UpdateProfile(ctx, record)
}

func (s *service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteProfile(ctx, id)
}

func (s *service) ListProfiles(ctx context.Context, activeOnly bool) ([]*ImageOptimizationProfile, error) {
	return s.store.ListProfiles(ctx, activeOnly)
}

func (s *service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*MediaAsset, error) {
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if req.File == nil {
		return nil, ErrFileRequired
	}
	if req.FolderID != nil {
		if _, err := s.store.GetFolder(ctx, *req.FolderID); err != nil {
			return nil, err
		}
	}

	id := s.id()
	fileKey := fmt.Sprintf("media/%s/%s", id, filename)
	size, err := s.files.Put(ctx, fileKey, req.File)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	now := s.now()
	record := &MediaAsset{
		ID:                id,
		TranslatedTitle:   req.TranslatedTitle,
		TranslatedAltText: req.TranslatedAltText,
		TranslatedCaption: req.TranslatedCaption,
		FileKey:           fileKey,
		Filename:          filename,
		MimeType:          strings.TrimSpace(req.MimeType),
		Size:              size,
		FolderID:          req.FolderID,
		TagIDs:            req.TagIDs,
		CustomMetadata:    req.CustomMetadata,
		UploaderID:        req.UploaderID,
		OptimizedVersions: map[string]string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.store.CreateAsset(ctx, record)
	if err != nil {
		// metadata write failed; the binary must not leak
		if cleanupErr := s.files.Delete(ctx, fileKey); cleanupErr != nil {
			s.logger.Error("orphaned upload cleanup failed", "key", fileKey, "error", cleanupErr)
		}
		return nil, err
	}

	s.emit(ctx, domain.EventMediaUploaded, created)
	s.scheduleProcessing(ctx, created)
	return created, nil
}

func (s *service) scheduleProcessing(ctx context.Context, asset *MediaAsset) {
	if !isImageMime(asset.MimeType) {
		return
	}
	if s.queue != nil {
		_, err := s.queue.Enqueue(ctx, interfaces.TaskSpec{
			Name:  TaskProcessAsset,
			RunAt: s.now(),
			Args:  map[string]any{"asset_id": asset.ID.String()},
		})
		if err != nil {
			s.logger.Error("enqueue asset processing", "asset_id", asset.ID.String(), "error", err)
		}
		return
	}
	if _, err := s.ProcessAsset(ctx, asset.ID); err != nil {
		s.logger.Error("inline asset processing", "asset_id", asset.ID.String(), "error", err)
	}
}

func (s *service) UpdateAsset(ctx context.Context, req UpdateAssetRequest) (*MediaAsset, error) {
	record, err := s.store.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	if req.ClearFolder {
		record.FolderID = nil
	} else if req.FolderID != nil {
		if _, err := s.store.GetFolder(ctx, *req.FolderID); err != nil {
			return nil, err
		}
		record.FolderID = req.FolderID
	}
	if req.TagIDs != nil {
		record.TagIDs = req.TagIDs
	}
	if req.TranslatedTitle != nil {
		record.TranslatedTitle = req.TranslatedTitle
	}
	if req.TranslatedAltText != nil {
		record.TranslatedAltText = req.TranslatedAltText
	}
	if req.TranslatedCaption != nil {
		record.TranslatedCaption = req.TranslatedCaption
	}
	if req.CustomMetadata != nil {
		record.CustomMetadata = req.CustomMetadata
	}

	record.UpdatedAt = s.now()
	return s.store.UpdateAsset(ctx, record)
}

func (s *service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	record, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteAsset(ctx, id); err != nil {
		return err
	}

	if err := s.files.Delete(ctx, record.FileKey); err != nil {
		s.logger.Error("delete original binary", "key", record.FileKey, "error", err)
	}
	for _, key := range record.OptimizedVersions {
		if err := s.files.Delete(ctx, key); err != nil {
			s.logger.Error("delete rendition binary", "key", key, "error", err)
		}
	}

	s.emit(ctx, domain.EventMediaDeleted, record)
	return nil
}

func (s *service) GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error) {
	return s.store.GetAsset(ctx, id)
}

func (s *service) ListAssets(ctx context.Context, filter AssetFilter) ([]*MediaAsset, int, error) {
	return s.store.ListAssets(ctx, filter)
}

func (s *service) ProcessAsset(ctx context.Context, assetID uuid.UUID) (*MediaAsset, error) {
	record, err := s.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !isImageMime(record.MimeType) {
		return record, nil
	}

	original, err := s.files.Get(ctx, record.FileKey)
	if err != nil {
		return nil, fmt.Errorf("open original: %w", err)
	}
	defer original.Close()

	img, width, height, err := decodeImage(original)
	if err != nil {
		return nil, err
	}
	record.Width = &width
	record.Height = &height

	profiles, err := s.store.ListProfiles(ctx, true)
	if err != nil {
		return nil, err
	}

	versions := make(map[string]string, len(profiles))
	for _, profile := range profiles {
		rendition, err := renderProfile(img, profile)
		if err != nil {
			return nil, err
		}
		key := derivedKey(record.FileKey, profile.Slug, profile.Format)
		if _, err := s.files.Put(ctx, key, bytes.NewReader(rendition)); err != nil {
			return nil, fmt.Errorf("store %s rendition: %w", profile.Slug, err)
		}
		versions[profile.Slug] = key
	}

	record.OptimizedVersions = versions
	record.UpdatedAt = s.now()
	return s.store.UpdateAsset(ctx, record)
}

// ProcessTaskHandler adapts the service's ProcessAsset for the task queue.
func ProcessTaskHandler(svc Service) interfaces.TaskHandler {
	return func(ctx context.Context, task *interfaces.Task) error {
		raw, _ := task.Args["asset_id"].(string)
		assetID, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("media task: bad asset_id %q: %w", raw, err)
		}
		_, err = svc.ProcessAsset(ctx, assetID)
		return err
	}
}

func (s *service) emit(ctx context.Context, event string, record *MediaAsset) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, event, map[string]any{
		"id":        record.ID.String(),
		"file_key":  record.FileKey,
		"filename":  record.Filename,
		"mime_type": record.MimeType,
	})
}

func slugCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
