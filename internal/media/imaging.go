package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

const defaultQuality = 82

// ProfileFormats lists the encodings optimization profiles may target.
var ProfileFormats = []string{"jpeg", "png", "gif"}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "jpeg", nil
	case "png":
		return "png", nil
	case "gif":
		return "gif", nil
	default:
		return "", ErrProfileFormat
	}
}

func imagingFormat(format string) imaging.Format {
	switch format {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}

// decodeImage reads the full stream and decodes it, returning the image and
// its pixel dimensions.
func decodeImage(r io.Reader) (image.Image, int, int, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	return img, bounds.Dx(), bounds.Dy(), nil
}

// renderProfile scales the image down to fit inside the profile bounds while
// preserving aspect ratio, then re-encodes it in the profile format. Images
// already inside the bounds are re-encoded without resizing.
func renderProfile(img image.Image, profile *ImageOptimizationProfile) ([]byte, error) {
	resized := imaging.Fit(img, profile.MaxWidth, profile.MaxHeight, imaging.Lanczos)

	quality := profile.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imagingFormat(profile.Format), imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode %s rendition: %w", profile.Slug, err)
	}
	return buf.Bytes(), nil
}

// derivedKey places a rendition next to the original, suffixed with the
// profile slug and carrying the profile's extension.
func derivedKey(fileKey, profileSlug, format string) string {
	ext := path.Ext(fileKey)
	base := strings.TrimSuffix(fileKey, ext)
	return fmt.Sprintf("%s__%s.%s", base, profileSlug, extensionFor(format))
}

func extensionFor(format string) string {
	switch format {
	case "png":
		return "png"
	case "gif":
		return "gif"
	default:
		return "jpg"
	}
}

// isImageMime reports whether the mime type is one the processor can decode.
func isImageMime(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}
