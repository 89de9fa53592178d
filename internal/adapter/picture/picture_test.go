package picture_test

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/picture"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 200, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	t.Run("StretchesToCanvas", func(t *testing.T) {
		n := picture.New(0, 0, 0)

		encoded, err := n.Normalize(pngBytes(t, 120, 40))
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)

		img, err := jpeg.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, picture.DefaultWidth, img.Bounds().Dx())
		assert.Equal(t, picture.DefaultHeight, img.Bounds().Dy())
	})

	t.Run("CustomSize", func(t *testing.T) {
		n := picture.New(32, 16, 75)

		encoded, err := n.Normalize(pngBytes(t, 10, 10))
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, 32, cfg.Width)
		assert.Equal(t, 16, cfg.Height)
	})

	t.Run("NotAnImage", func(t *testing.T) {
		n := picture.New(0, 0, 0)
		_, err := n.Normalize([]byte("definitely not a picture"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

// withClaimedSize rewrites the IHDR dimensions of a PNG, leaving the pixel
// data small.
func withClaimedSize(t *testing.T, raw []byte, w, h uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(raw[12:16]))

	b := bytes.Clone(raw)
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestNormalizeRejectsHugeDimensions(t *testing.T) {
	n := picture.New(0, 0, 0)
	raw := withClaimedSize(t, pngBytes(t, 1, 1), 100_000, 100_000)

	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 100_000, cfg.Width)

	_, err = n.Normalize(raw)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "pixels allowed")
}
