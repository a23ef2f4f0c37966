package annotation

import (
	"image"
	"math"
)

// ConstrainSquare forces width and height to min(width, height), keeping the
// start point anchored and the drag direction intact.
func (a *Annotation) ConstrainSquare() {
	side := min(a.Width(), a.Height())
	dx, dy := side, side
	if a.Finish.X < a.Start.X {
		dx = -side
	}
	if a.Finish.Y < a.Start.Y {
		dy = -side
	}
	a.SetBounds(a.Start, a.Start.Add(image.Pt(dx, dy)))
}

// Move translates both defining points by d.
func (a *Annotation) Move(d image.Point) {
	a.SetBounds(a.Start.Add(d), a.Finish.Add(d))
}

// Outline returns the defining geometry of the annotation. Box variants yield
// their four corners, Ellipse a closed polyline, Line its two end points and
// Arrow the shaft followed by the two barbs of the head.
func (a *Annotation) Outline() []image.Point {
	r := a.rect
	switch a.Kind {
	case Line:
		return []image.Point{a.Start, a.Finish}
	case Arrow:
		left, right := ArrowHead(a.Start, a.Finish, a.headSize())
		return []image.Point{a.Start, a.Finish, left, a.Finish, right}
	case Ellipse:
		return EllipsePoints(r)
	default:
		return []image.Point{r.Min, image.Pt(r.Max.X, r.Min.Y), r.Max, image.Pt(r.Min.X, r.Max.Y)}
	}
}

func (a *Annotation) headSize() int {
	if a.Style.HeadSize > 0 {
		return a.Style.HeadSize
	}
	return 6 + a.Style.Thickness*2
}

// ArrowHead returns the two barb end points of an arrow pointing from start
// to finish.
func ArrowHead(start, finish image.Point, size int) (image.Point, image.Point) {
	angle := math.Atan2(float64(finish.Y-start.Y), float64(finish.X-start.X))
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	s := float64(size)
	left := image.Pt(finish.X-int(math.Round(math.Cos(a1)*s)), finish.Y-int(math.Round(math.Sin(a1)*s)))
	right := image.Pt(finish.X-int(math.Round(math.Cos(a2)*s)), finish.Y-int(math.Round(math.Sin(a2)*s)))
	return left, right
}

// EllipsePoints approximates the ellipse inscribed in r with a closed
// polyline. The first and last points coincide.
func EllipsePoints(r image.Rectangle) []image.Point {
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(rx*rx+ry*ry) / 4))
	if steps < 8 {
		steps = 8
	}
	pts := make([]image.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		pts = append(pts, image.Pt(int(math.Round(cx+math.Cos(t)*rx)), int(math.Round(cy+math.Sin(t)*ry))))
	}
	return pts
}

// Contains reports whether p hits the annotation, allowing tol pixels of
// slack around thin geometry.
func (a *Annotation) Contains(p image.Point, tol int) bool {
	switch a.Kind {
	case Line, Arrow:
		reach := float64(a.Style.Thickness)/2 + float64(tol)
		if segmentDistance(p, a.Start, a.Finish) <= reach {
			return true
		}
		if a.Kind == Arrow {
			left, right := ArrowHead(a.Start, a.Finish, a.headSize())
			return segmentDistance(p, a.Finish, left) <= reach || segmentDistance(p, a.Finish, right) <= reach
		}
		return false
	case Ellipse:
		rx := float64(a.rect.Dx())/2 + float64(tol)
		ry := float64(a.rect.Dy())/2 + float64(tol)
		if rx <= 0 || ry <= 0 {
			return false
		}
		cx := float64(a.rect.Min.X) + float64(a.rect.Dx())/2
		cy := float64(a.rect.Min.Y) + float64(a.rect.Dy())/2
		dx := (float64(p.X) - cx) / rx
		dy := (float64(p.Y) - cy) / ry
		return dx*dx+dy*dy <= 1
	default:
		r := a.rect.Inset(-tol)
		return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
	}
}

func segmentDistance(p, a, b image.Point) float64 {
	px, py := float64(p.X), float64(p.Y)
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
