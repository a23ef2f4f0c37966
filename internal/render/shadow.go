package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow cast by an annotation stroke.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions matches the rectangle defaults: a centred blur with no
// offset.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{Radius: 10, Opacity: 0.8}
}

func shadowFor(s ShadowOptions) (ShadowOptions, bool) {
	if s.Opacity <= 0 || s.Radius < 0 {
		return s, false
	}
	if s.Opacity > 1 {
		s.Opacity = 1
	}
	return s, true
}

// castShadow blurs the coverage in m and composites it in black under
// whatever is painted next. The mask must already be padded by the radius so
// the blur has room to spread.
func castShadow(dst *image.RGBA, m *image.Alpha, opts ShadowOptions) {
	if m == nil {
		return
	}
	opts, ok := shadowFor(opts)
	if !ok {
		return
	}
	blurred := blurAlpha(m, opts.Radius)
	alpha := uint8(opts.Opacity*255 + 0.5)
	if alpha == 0 {
		return
	}
	r := blurred.Rect.Add(opts.Offset)
	draw.DrawMask(dst, r, image.NewUniform(color.RGBA{A: alpha}), image.Point{}, blurred, blurred.Rect.Min, draw.Over)
}

// blurAlpha runs a separable box blur using running prefix sums per row and
// column.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	out := image.NewAlpha(src.Rect)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w := src.Rect.Dx()
	h := src.Rect.Dy()
	tmp := image.NewAlpha(src.Rect)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return out
}
