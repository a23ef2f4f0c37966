// Package annotation defines the vector markup placed on top of a captured
// image. Annotations are plain data: a variant tag, two canvas-space points, a
// style record and the selection/creation flags driven by the canvas
// controller. Rendering lives in the render package.
package annotation

import (
	"fmt"
	"image"

	"github.com/oklog/ulid/v2"
)

// Annotation is one markup object on the canvas.
type Annotation struct {
	ID   string
	Kind Kind

	// Start is the first pointer-down position and Finish the latest drag or
	// release position. Both are in canvas (base image) coordinates.
	Start  image.Point
	Finish image.Point

	Style Style

	// Text is the content of a Text annotation.
	Text string
	// Overlay is the image drawn by an ImageOverlay annotation. It is treated
	// as immutable and shared between clones.
	Overlay image.Image

	Selected bool
	Creating bool

	rect image.Rectangle
}

// New creates an annotation of the given variant with its default style and a
// fresh identity.
func New(k Kind) (*Annotation, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}
	return &Annotation{
		ID:    ulid.Make().String(),
		Kind:  k,
		Style: DefaultStyle(k),
	}, nil
}

// BeginCreate anchors the annotation at p and marks it as being created.
func (a *Annotation) BeginCreate(p image.Point) {
	a.Selected = false
	a.Creating = true
	a.SetBounds(p, p)
}

// Commit ends creation and leaves the annotation selected. It has no effect on
// annotations that are not being created.
func (a *Annotation) Commit() {
	if !a.Creating {
		return
	}
	a.Creating = false
	a.Selected = true
}

// SetSelected updates the selection flag. Annotations still being created
// cannot be selected.
func (a *Annotation) SetSelected(v bool) {
	if a.Creating {
		return
	}
	a.Selected = v
}

// SetBounds replaces both defining points and recomputes the derived geometry.
func (a *Annotation) SetBounds(start, finish image.Point) {
	a.Start = start
	a.Finish = finish
	a.rect = normalize(start, finish)
}

// SetFinish moves the finish point, keeping the start anchored.
func (a *Annotation) SetFinish(p image.Point) {
	a.SetBounds(a.Start, p)
}

// Rect returns the normalized bounds: origin is the component-wise minimum of
// the two points and the size their absolute difference.
func (a *Annotation) Rect() image.Rectangle { return a.rect }

// Origin returns the top-left corner of the normalized bounds.
func (a *Annotation) Origin() image.Point { return a.rect.Min }

// Width returns the normalized width, never negative.
func (a *Annotation) Width() int { return a.rect.Dx() }

// Height returns the normalized height, never negative.
func (a *Annotation) Height() int { return a.rect.Dy() }

// Degenerate reports whether the annotation has nothing to draw. Segment
// variants are degenerate when both ends coincide, every other variant when
// its bounds have no area.
func (a *Annotation) Degenerate() bool {
	if a.Kind.Segmented() {
		return a.Start == a.Finish
	}
	return a.rect.Dx() == 0 || a.rect.Dy() == 0
}

// Clone returns a deep copy suitable for rendering off the UI thread.
func (a *Annotation) Clone() *Annotation {
	c := *a
	return &c
}

func normalize(p, q image.Point) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(min(p.X, q.X), min(p.Y, q.Y)),
		Max: image.Pt(max(p.X, q.X), max(p.Y, q.Y)),
	}
}
