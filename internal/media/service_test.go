package media_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/media"
	"github.com/google/uuid"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Emit(ctx context.Context, event string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

type mediaEnv struct {
	svc   media.Service
	files *media.MemoryFileStore
	sink  *recordingSink
}

func newMediaEnv(t *testing.T) *mediaEnv {
	t.Helper()

	clock := time.Date(2025, time.May, 2, 8, 0, 0, 0, time.UTC)
	files := media.NewMemoryFileStore()
	sink := &recordingSink{}
	svc := media.NewService(
		media.NewMemoryRepository(),
		files,
		media.WithClock(func() time.Time { return clock }),
		media.WithEventSink(sink),
	)
	return &mediaEnv{svc: svc, files: files, sink: sink}
}

// pngFixture renders a solid image of the given size and encodes it as PNG.
func pngFixture(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func (e *mediaEnv) upload(t *testing.T, filename string, data []byte) *media.MediaAsset {
	t.Helper()
	created, err := e.svc.CreateAsset(context.Background(), media.CreateAssetRequest{
		Filename: filename,
		MimeType: "image/png",
		File:     bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("upload %s: %v", filename, err)
	}
	return created
}

func TestFolderNamesUniquePerParent(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	root, err := env.svc.CreateFolder(ctx, "Launch Assets", nil)
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if _, err := env.svc.CreateFolder(ctx, "launch assets", nil); !errors.Is(err, media.ErrFolderNameTaken) {
		t.Fatalf("expected ErrFolderNameTaken, got %v", err)
	}

	// the same name under a different parent is fine
	if _, err := env.svc.CreateFolder(ctx, "Launch Assets", &root.ID); err != nil {
		t.Fatalf("nested folder with same name: %v", err)
	}
}

func TestDeleteFolderRequiresEmpty(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	parent, err := env.svc.CreateFolder(ctx, "Parent", nil)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := env.svc.CreateFolder(ctx, "Child", &parent.ID); err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := env.svc.DeleteFolder(ctx, parent.ID); !errors.Is(err, media.ErrFolderNotEmpty) {
		t.Fatalf("expected ErrFolderNotEmpty, got %v", err)
	}
}

func TestCreateTagDerivesSlugWithSuffix(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	first, err := env.svc.CreateTag(ctx, "Press Kit")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if first.Slug != "press-kit" {
		t.Fatalf("expected slug press-kit, got %q", first.Slug)
	}

	second, err := env.svc.CreateTag(ctx, "Press Kit")
	if err != nil {
		t.Fatalf("create duplicate tag: %v", err)
	}
	if second.Slug != "press-kit-2" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestCreateProfileValidation(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Thumb", MaxWidth: 0, MaxHeight: 100, Format: "jpeg",
	})
	if !errors.Is(err, media.ErrProfileBoundsNeeded) {
		t.Fatalf("expected ErrProfileBoundsNeeded, got %v", err)
	}

	_, err = env.svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Thumb", MaxWidth: 100, MaxHeight: 100, Format: "webp",
	})
	if !errors.Is(err, media.ErrProfileFormat) {
		t.Fatalf("expected ErrProfileFormat, got %v", err)
	}

	created, err := env.svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Thumbnail", MaxWidth: 100, MaxHeight: 100, Format: "jpg", Quality: 70, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if created.Slug != "thumbnail" || created.Format != "jpeg" {
		t.Fatalf("unexpected profile %q/%q", created.Slug, created.Format)
	}
}

func TestUploadStoresBinaryAndEmitsEvent(t *testing.T) {
	env := newMediaEnv(t)

	asset := env.upload(t, "banner.png", pngFixture(t, 40, 20))
	if asset.Size == 0 {
		t.Fatal("expected stored size to be recorded")
	}
	if !strings.HasPrefix(asset.FileKey, "media/") || !strings.HasSuffix(asset.FileKey, "/banner.png") {
		t.Fatalf("unexpected file key %q", asset.FileKey)
	}

	events := env.sink.names()
	if len(events) == 0 || events[0] != domain.EventMediaUploaded {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestProcessAssetRecordsDimensionsAndRenditions(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	if _, err := env.svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Thumbnail", MaxWidth: 16, MaxHeight: 16, Format: "jpeg", Quality: 70, IsActive: true,
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := env.svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Disabled", MaxWidth: 8, MaxHeight: 8, Format: "png", IsActive: false,
	}); err != nil {
		t.Fatalf("create inactive profile: %v", err)
	}

	// no queue configured, so the upload processes inline
	asset := env.upload(t, "hero.png", pngFixture(t, 64, 32))

	processed, err := env.svc.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if processed.Width == nil || *processed.Width != 64 {
		t.Fatalf("expected width 64, got %v", processed.Width)
	}
	if processed.Height == nil || *processed.Height != 32 {
		t.Fatalf("expected height 32, got %v", processed.Height)
	}
	if len(processed.OptimizedVersions) != 1 {
		t.Fatalf("expected one rendition, got %d", len(processed.OptimizedVersions))
	}

	key, ok := processed.OptimizedVersions["thumbnail"]
	if !ok {
		t.Fatalf("missing thumbnail rendition in %v", processed.OptimizedVersions)
	}
	if !strings.HasSuffix(key, "__thumbnail.jpg") {
		t.Fatalf("unexpected rendition key %q", key)
	}
	rendered, err := env.files.Get(ctx, key)
	if err != nil {
		t.Fatalf("rendition missing from file store: %v", err)
	}
	rendered.Close()
}

func TestNonImageUploadSkipsProcessing(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAsset(ctx, media.CreateAssetRequest{
		Filename: "notes.pdf",
		MimeType: "application/pdf",
		File:     strings.NewReader("%PDF-1.4 not really"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	stored, err := env.svc.GetAsset(ctx, created.ID)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if stored.Width != nil || len(stored.OptimizedVersions) != 0 {
		t.Fatal("non-image asset should not be processed")
	}
}

func TestDeleteAssetRemovesBinaries(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	if _, err := env.svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Thumbnail", MaxWidth: 16, MaxHeight: 16, Format: "jpeg", IsActive: true,
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	asset := env.upload(t, "gone.png", pngFixture(t, 32, 32))
	if err := env.svc.DeleteAsset(ctx, asset.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if keys := env.files.Keys(); len(keys) != 0 {
		t.Fatalf("expected empty file store, still holds %v", keys)
	}
	if _, err := env.svc.GetAsset(ctx, asset.ID); !media.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	events := env.sink.names()
	if events[len(events)-1] != domain.EventMediaDeleted {
		t.Fatalf("expected media_deleted last, got %v", events)
	}
}

func TestListAssetsFiltersByFolderAndTag(t *testing.T) {
	env := newMediaEnv(t)
	ctx := context.Background()

	folder, err := env.svc.CreateFolder(ctx, "Blog", nil)
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	tag, err := env.svc.CreateTag(ctx, "Featured")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	inFolder, err := env.svc.CreateAsset(ctx, media.CreateAssetRequest{
		Filename: "one.png",
		MimeType: "image/png",
		File:     bytes.NewReader(pngFixture(t, 8, 8)),
		FolderID: &folder.ID,
		TagIDs:   []uuid.UUID{tag.ID},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	env.upload(t, "two.png", pngFixture(t, 8, 8))

	byFolder, total, err := env.svc.ListAssets(ctx, media.AssetFilter{FolderID: &folder.ID})
	if err != nil {
		t.Fatalf("list by folder: %v", err)
	}
	if total != 1 || len(byFolder) != 1 || byFolder[0].ID != inFolder.ID {
		t.Fatalf("expected the folder asset only, got %d", len(byFolder))
	}

	byTag, _, err := env.svc.ListAssets(ctx, media.AssetFilter{TagID: &tag.ID})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != inFolder.ID {
		t.Fatalf("expected the tagged asset only, got %d", len(byTag))
	}
}
