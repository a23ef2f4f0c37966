package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/shinemark/internal/annotation"
)

// Strokes are rasterised into an alpha coverage mask first and then painted
// through it in one pass. Overlapping brush stamps therefore never blend twice
// and the same mask feeds the drop shadow.

func newMask(dst *image.RGBA, r image.Rectangle) *image.Alpha {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return nil
	}
	return image.NewAlpha(r)
}

func plot(m *image.Alpha, x, y int) {
	if !(image.Point{x, y}).In(m.Rect) {
		return
	}
	m.Pix[m.PixOffset(x, y)] = 0xff
}

func stamp(m *image.Alpha, x, y, thick int) {
	r := thick / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			plot(m, x+dx, y+dy)
		}
	}
}

func strokeLine(m *image.Alpha, p0, p1 image.Point, thick int) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		stamp(m, x0, y0, thick)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func strokePolyline(m *image.Alpha, pts []image.Point, thick int) {
	for i := 1; i < len(pts); i++ {
		strokeLine(m, pts[i-1], pts[i], thick)
	}
}

func strokeRect(m *image.Alpha, r image.Rectangle, thick int) {
	tl := r.Min
	tr := image.Pt(r.Max.X-1, r.Min.Y)
	br := image.Pt(r.Max.X-1, r.Max.Y-1)
	bl := image.Pt(r.Min.X, r.Max.Y-1)
	strokePolyline(m, []image.Point{tl, tr, br, bl, tl}, thick)
}

func strokeArrow(m *image.Alpha, start, finish image.Point, head, thick int) {
	strokeLine(m, start, finish, thick)
	left, right := annotation.ArrowHead(start, finish, head)
	strokeLine(m, finish, left, thick)
	strokeLine(m, finish, right, thick)
}

func fillEllipse(m *image.Alpha, r image.Rectangle) {
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry
	for y := r.Min.Y; y < r.Max.Y; y++ {
		fy := (float64(y) + 0.5 - cy) / ry
		span := 1 - fy*fy
		if span < 0 {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			fx := (float64(x) + 0.5 - cx) / rx
			if fx*fx <= span {
				plot(m, x, y)
			}
		}
	}
}

// paint composites c over dst wherever m has coverage.
func paint(dst *image.RGBA, m *image.Alpha, c color.RGBA) {
	if m == nil || c.A == 0 {
		return
	}
	draw.DrawMask(dst, m.Rect, image.NewUniform(c), image.Point{}, m, m.Rect.Min, draw.Over)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	if c.A == 0 {
		return
	}
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// dashedRect outlines r with alternating dash colours, drawn opaque.
func dashedRect(dst *image.RGBA, r image.Rectangle, dash int, c1, c2 color.RGBA) {
	if dash <= 0 {
		dash = 4
	}
	i := 0
	set := func(x, y int) {
		c := c1
		if (i/dash)%2 == 1 {
			c = c2
		}
		i++
		if (image.Point{x, y}).In(dst.Rect) {
			dst.SetRGBA(x, y, c)
		}
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0; x <= x1; x++ {
		set(x, y0)
	}
	for y := y0 + 1; y <= y1; y++ {
		set(x1, y)
	}
	for x := x1 - 1; x >= x0; x-- {
		set(x, y1)
	}
	for y := y1 - 1; y > y0; y-- {
		set(x0, y)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
