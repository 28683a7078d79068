package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/config"
)

func newTestOptimizer() *Optimizer {
	return NewOptimizer(config.ImagesConfig{
		TargetBytes:  150 * 1024,
		HardCapBytes: 1024 * 1024,
	}, logger.NewWithWriter("test", io.Discard))
}

// photoLike produces a deterministic image with enough structure to
// behave like a photo under JPEG encoding.
func photoLike(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8(128 + 127*math.Sin(float64(x)/17.0))
			g := uint8(128 + 127*math.Sin(float64(y)/23.0))
			b := uint8(128 + 127*math.Sin(float64(x+y)/31.0))
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOptimizeLargeJPEGEndToEnd(t *testing.T) {
	input := encodeJPEG(t, photoLike(3000, 2000), 95)

	result, err := newTestOptimizer().Optimize(bytes.NewReader(input))
	require.NoError(t, err)

	assert.LessOrEqual(t, result.FinalSize, 1024*1024)
	assert.Equal(t, len(input), result.OriginalSize)
	assert.Equal(t, result.FinalSize, len(result.Data))
	assert.Greater(t, result.CompressionRatio, 0.0)

	// 3000x2000 scaled into 600x427 keeps the 3:2 ratio within rounding.
	assert.Equal(t, 600, result.Width)
	assert.Equal(t, 400, result.Height)
	inputRatio := 3000.0 / 2000.0
	outputRatio := float64(result.Width) / float64(result.Height)
	assert.InDelta(t, inputRatio, outputRatio, 0.01)

	// Output decodes as JPEG with the reported dimensions.
	decoded, err := jpeg.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, 600, decoded.Bounds().Dx())
	assert.Equal(t, 400, decoded.Bounds().Dy())
}

func TestOptimizeHitsByteTarget(t *testing.T) {
	input := encodeJPEG(t, photoLike(3000, 2000), 95)

	result, err := newTestOptimizer().Optimize(bytes.NewReader(input))
	require.NoError(t, err)

	// A 600x400 re-encode of this content fits the target comfortably.
	assert.LessOrEqual(t, result.FinalSize, 150*1024)
}

func TestOptimizeAcceptsPNG(t *testing.T) {
	input := encodePNG(t, photoLike(1200, 900))

	result, err := newTestOptimizer().Optimize(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 569, result.Width) // 1200 * (427/900), rounded
	assert.Equal(t, 427, result.Height)
}

func TestOptimizeNeverUpscales(t *testing.T) {
	input := encodePNG(t, photoLike(100, 80))

	result, err := newTestOptimizer().Optimize(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 80, result.Height)
}

func TestOptimizeRejectsUnsupportedFormat(t *testing.T) {
	result, err := newTestOptimizer().Optimize(bytes.NewReader([]byte("definitely not an image")))

	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, result)
}

func TestOptimizeRejectsCorruptImage(t *testing.T) {
	// Valid JPEG magic bytes, garbage body.
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x42}, 64)...)

	result, err := newTestOptimizer().Optimize(bytes.NewReader(data))

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestOptimizeFailsWhenFloorQualityExceedsHardCap(t *testing.T) {
	o := NewOptimizer(config.ImagesConfig{
		TargetBytes:  1,
		HardCapBytes: 1,
	}, logger.NewWithWriter("test", io.Discard))

	input := encodeJPEG(t, photoLike(800, 600), 90)

	result, err := o.Optimize(bytes.NewReader(input))
	require.ErrorIs(t, err, ErrImageTooLarge)
	assert.Nil(t, result)
}
