package mediacmd_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	mediacmd "github.com/goliatone/go-headless/internal/commands/media"
	"github.com/goliatone/go-headless/internal/media"
)

func newMediaService(t *testing.T) (media.Service, *media.MemoryFileStore) {
	t.Helper()
	files := media.NewMemoryFileStore()
	return media.NewService(media.NewMemoryRepository(), files), files
}

func pngFixture(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 10, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestReprocessMediaCommandValidation(t *testing.T) {
	svc, _ := newMediaService(t)
	handler := mediacmd.NewReprocessMediaHandler(svc, nil)

	err := handler.Execute(context.Background(), mediacmd.ReprocessMediaCommand{})
	if err == nil {
		t.Fatal("expected validation failure for missing asset_id")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestReprocessMediaCommandRefreshesRenditions(t *testing.T) {
	svc, _ := newMediaService(t)
	ctx := context.Background()

	asset, err := svc.CreateAsset(ctx, media.CreateAssetRequest{
		Filename: "photo.png",
		MimeType: "image/png",
		File:     bytes.NewReader(pngFixture(t, 48, 48)),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// a profile added after the upload only applies on reprocess
	if _, err := svc.CreateProfile(ctx, media.CreateProfileRequest{
		Name: "Small", MaxWidth: 10, MaxHeight: 10, Format: "jpeg", IsActive: true,
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	handler := mediacmd.NewReprocessMediaHandler(svc, nil)
	if err := handler.Execute(ctx, mediacmd.ReprocessMediaCommand{AssetID: asset.ID}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	refreshed, err := svc.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if _, ok := refreshed.OptimizedVersions["small"]; !ok {
		t.Fatalf("expected small rendition after reprocess, got %v", refreshed.OptimizedVersions)
	}
}
