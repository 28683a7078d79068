package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/config"
)

// Target box for menu-item photos. Images are scaled proportionally to
// fit inside it and never upscaled.
const (
	maxWidth  = 600
	maxHeight = 427
)

// Recompression schedule: the attempt sequence is deterministic for a
// fixed input, stopping at the first encode at or under the byte
// target.
const (
	startQuality = 85
	qualityStep  = 10
	floorQuality = 25
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageTooLarge     = errors.New("optimized image exceeds the size cap")
)

// Result is the optimized artifact plus the metadata the upload flow
// records alongside it.
type Result struct {
	Data             []byte
	OriginalSize     int
	FinalSize        int
	CompressionRatio float64
	Width            int
	Height           int
}

type Optimizer struct {
	targetBytes  int
	hardCapBytes int
	logger       logger.Logger
}

func NewOptimizer(cfg config.ImagesConfig, lgr logger.Logger) *Optimizer {
	return &Optimizer{
		targetBytes:  cfg.TargetBytes,
		hardCapBytes: cfg.HardCapBytes,
		logger:       lgr,
	}
}

// Optimize validates, resizes and recompresses the image. On any error
// no artifact is produced.
func (o *Optimizer) Optimize(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, mime, err := decode(data)
	if err != nil {
		return nil, err
	}

	resized := fit(img)
	bounds := resized.Bounds()

	encoded, quality, err := o.compress(resized)
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("image_optimized", "Image optimized", "", map[string]interface{}{
			"mime":          mime,
			"original_size": len(data),
			"final_size":    len(encoded),
			"quality":       quality,
			"width":         bounds.Dx(),
			"height":        bounds.Dy(),
		})
	}

	return &Result{
		Data:             encoded,
		OriginalSize:     len(data),
		FinalSize:        len(encoded),
		CompressionRatio: float64(len(data)-len(encoded)) / float64(len(data)),
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
	}, nil
}

// decode sniffs the content type and decodes only allow-listed raster
// formats.
func decode(data []byte) (image.Image, string, error) {
	mime := http.DetectContentType(data)

	var (
		img image.Image
		err error
	)
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/gif":
		img, err = gif.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, mime, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
	}
	if err != nil {
		return nil, mime, fmt.Errorf("failed to decode %s: %w", mime, err)
	}

	return img, mime, nil
}

// fit scales the image proportionally into the target box. Smaller
// images pass through untouched.
func fit(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if s := float64(maxWidth) / float64(w); s < scale {
		scale = s
	}
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	if scale >= 1.0 {
		return img
	}

	dstW := int(float64(w)*scale + 0.5)
	dstH := int(float64(h)*scale + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// compress re-encodes at decreasing JPEG quality until the result fits
// the byte target or quality reaches the floor. The floor attempt is
// still subject to the absolute hard cap.
func (o *Optimizer) compress(img image.Image) ([]byte, int, error) {
	var (
		encoded []byte
		quality int
	)

	for quality = startQuality; ; quality -= qualityStep {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, 0, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		encoded = buf.Bytes()

		if len(encoded) <= o.targetBytes || quality-qualityStep < floorQuality {
			break
		}
	}

	if len(encoded) > o.hardCapBytes {
		return nil, 0, fmt.Errorf("%w: %d bytes at quality %d", ErrImageTooLarge, len(encoded), quality)
	}

	return encoded, quality, nil
}
