// Package compositor flattens a base image and its annotations into the
// exported raster.
package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/example/shinemark/internal/annotation"
	"github.com/example/shinemark/internal/render"
)

// DefaultDPI is assumed when an image source reports no resolution.
const DefaultDPI = 96

// ErrExportFailed wraps every failure surfaced by Export.
var ErrExportFailed = errors.New("export failed")

// BaseImage is the captured raster annotations are drawn over. Canvas
// coordinates start at the origin whatever Pixels.Rect.Min is. Pixels must
// not be modified once loaded.
type BaseImage struct {
	Pixels *image.RGBA
	DPI    float64
}

// NewBaseImage copies src into a zero-origin RGBA buffer.
func NewBaseImage(src image.Image, dpi float64) *BaseImage {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	px := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(px, px.Bounds(), src, b.Min, draw.Src)
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &BaseImage{Pixels: px, DPI: dpi}
}

// Width returns the pixel width.
func (b *BaseImage) Width() int { return b.Pixels.Rect.Dx() }

// Height returns the pixel height.
func (b *BaseImage) Height() int { return b.Pixels.Rect.Dy() }

// Bounds returns the canvas rectangle.
func (b *BaseImage) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width(), b.Height()) }

// Flatten draws base then every annotation's baked contribution in order.
// Annotations still being created are not part of the picture yet and are
// skipped. Selection decoration is never drawn. A nil base yields nil.
func Flatten(ctx context.Context, base *BaseImage, anns []*annotation.Annotation) (*image.RGBA, error) {
	if base == nil || base.Pixels == nil {
		return nil, nil
	}
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Rect, base.Pixels, base.Pixels.Rect.Min, draw.Src)
	for _, a := range anns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a == nil || a.Creating {
			continue
		}
		if err := render.Bake(out, a); err != nil {
			return nil, fmt.Errorf("bake %s %s: %w", a.Kind, a.ID, err)
		}
	}
	return out, nil
}

// Encode writes img as PNG. Output depends only on the pixels.
func Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

// Result is the outcome of an export.
type Result struct {
	Image *image.RGBA
	PNG   []byte
	Err   error
}

// Export flattens and encodes. anns must not be mutated while Export runs;
// callers pass a snapshot. Any failure, including a panic inside a renderer,
// is reported wrapped in ErrExportFailed.
func Export(ctx context.Context, base *BaseImage, anns []*annotation.Annotation) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = fmt.Errorf("%w: %v", ErrExportFailed, r)
		}
	}()
	if base == nil {
		return Result{}, fmt.Errorf("%w: no image loaded", ErrExportFailed)
	}
	img, err := Flatten(ctx, base, anns)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("%w: encode: %w", ErrExportFailed, err)
	}
	return Result{Image: img, PNG: buf.Bytes()}, nil
}

// ExportAsync runs Export on its own goroutine. The channel receives exactly
// one Result and is then closed.
func ExportAsync(ctx context.Context, base *BaseImage, anns []*annotation.Annotation) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		res, err := Export(ctx, base, anns)
		res.Err = err
		ch <- res
	}()
	return ch
}
