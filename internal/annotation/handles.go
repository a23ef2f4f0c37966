package annotation

import "image"

// HandleSize is the edge length of a resize handle in canvas pixels.
const HandleSize = 8

// Handle identifies a grip used to resize a selected annotation.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	// HandleStart and HandleFinish grip the end points of Line and Arrow.
	HandleStart
	HandleFinish
)

// HandleRect pairs a handle with its hit area.
type HandleRect struct {
	Handle Handle
	Rect   image.Rectangle
}

// Handles returns the grips of the annotation. Segment variants expose their
// end points, every other variant the corners and edge midpoints of its bounds.
func (a *Annotation) Handles() []HandleRect {
	if a.Kind.Segmented() {
		return []HandleRect{
			{HandleStart, handleAround(a.Start)},
			{HandleFinish, handleAround(a.Finish)},
		}
	}
	r := a.rect
	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	return []HandleRect{
		{HandleTopLeft, handleAround(r.Min)},
		{HandleTop, handleAround(image.Pt(cx, r.Min.Y))},
		{HandleTopRight, handleAround(image.Pt(r.Max.X, r.Min.Y))},
		{HandleRight, handleAround(image.Pt(r.Max.X, cy))},
		{HandleBottomRight, handleAround(r.Max)},
		{HandleBottom, handleAround(image.Pt(cx, r.Max.Y))},
		{HandleBottomLeft, handleAround(image.Pt(r.Min.X, r.Max.Y))},
		{HandleLeft, handleAround(image.Pt(r.Min.X, cy))},
	}
}

func handleAround(p image.Point) image.Rectangle {
	hs := HandleSize / 2
	return image.Rect(p.X-hs, p.Y-hs, p.X+hs, p.Y+hs)
}

// HandleAt returns the handle under p, or HandleNone.
func (a *Annotation) HandleAt(p image.Point) Handle {
	for _, h := range a.Handles() {
		if p.In(h.Rect) {
			return h.Handle
		}
	}
	return HandleNone
}

// Resize drags handle h by d from the current bounds. Callers replaying a
// drag restore the original bounds first so repeated calls do not accumulate.
// The result is always re-normalized, so dragging an edge past its opposite
// edge flips the shape instead of producing a negative size.
func (a *Annotation) Resize(h Handle, d image.Point) {
	if a.Kind.Segmented() {
		switch h {
		case HandleStart:
			a.SetBounds(a.Start.Add(d), a.Finish)
		case HandleFinish:
			a.SetBounds(a.Start, a.Finish.Add(d))
		}
		return
	}
	p0, p1 := a.rect.Min, a.rect.Max
	switch h {
	case HandleTopLeft:
		p0 = p0.Add(d)
	case HandleTop:
		p0.Y += d.Y
	case HandleTopRight:
		p0.Y += d.Y
		p1.X += d.X
	case HandleRight:
		p1.X += d.X
	case HandleBottomRight:
		p1 = p1.Add(d)
	case HandleBottom:
		p1.Y += d.Y
	case HandleBottomLeft:
		p0.X += d.X
		p1.Y += d.Y
	case HandleLeft:
		p0.X += d.X
	default:
		return
	}
	a.SetBounds(p0, p1)
}
