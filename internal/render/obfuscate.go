package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/shinemark/internal/annotation"
)

const (
	// DefaultBlockSize is the pixelation cell used when a style leaves it unset.
	DefaultBlockSize = 12
	// MinBlockSize is the smallest cell honoured; smaller cells keep too much
	// of the source.
	MinBlockSize = 4
)

// pixelate destroys the detail inside r. The region is averaged down to one
// sample per block, blown back up without interpolation and finally covered
// with fill at its own alpha. The source pixels cannot be recovered from the
// result: blocks below MinBlockSize are raised to it and a fully transparent
// fill is replaced by the opaque obfuscation default.
func pixelate(dst *image.RGBA, r image.Rectangle, block int, fill color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	if block <= 0 {
		block = DefaultBlockSize
	}
	block = max(block, MinBlockSize)
	if fill.A == 0 {
		fill = annotation.DefaultStyle(annotation.Obfuscate).Fill
	}
	sw := (r.Dx() + block - 1) / block
	sh := (r.Dy() + block - 1) / block
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), dst, r, draw.Src, nil)
	xdraw.NearestNeighbor.Scale(dst, r, small, small.Bounds(), draw.Src, nil)
	fillRect(dst, r, fill)
}
