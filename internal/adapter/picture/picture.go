// Package picture normalizes uploaded product pictures.
package picture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ImageNormalizer = (*Normalizer)(nil)

const (
	DefaultWidth   = 600
	DefaultHeight  = 600
	DefaultQuality = 90

	// MaxPixels caps the decoded size of an upload, 8000x6000.
	MaxPixels = 48_000_000
)

// A Normalizer stretches a picture onto a fixed canvas and re-encodes it
// as base64 JPEG. The aspect ratio is not preserved.
type Normalizer struct {
	width   int
	height  int
	quality int
}

// New returns a Normalizer. Zero arguments fall back to the defaults.
func New(width, height, quality int) Normalizer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return Normalizer{width, height, quality}
}

func (n Normalizer) Normalize(raw []byte) (string, error) {
	const op = "Normalizer.Normalize"

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: unsupported image: %v", op, domain.ErrValidation, err,
		)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf(
			"%s: %w: image is %dx%d, at most %d pixels allowed",
			op, domain.ErrValidation, cfg.Width, cfg.Height, MaxPixels,
		)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: unsupported image: %v", op, domain.ErrValidation, err,
		)
	}

	resized := imaging.Resize(img, n.width, n.height, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(n.quality))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
