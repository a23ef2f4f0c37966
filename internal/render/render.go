// Package render turns annotations into pixels. Preview draws the cheap live
// version used while editing, Bake draws the permanent contribution used when
// flattening and Decorate adds the interactive selection chrome. All drawing
// clips to the destination bounds.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/shinemark/internal/annotation"
)

var (
	previewVeil   = color.RGBA{0, 0, 0, 128}
	selectionDark = color.RGBA{40, 40, 40, 255}
	selectionLite = color.RGBA{255, 255, 255, 255}
)

// Bake draws the permanent contribution of a onto dst. Obfuscate replaces the
// pixels under its bounds rather than overlaying them.
func Bake(dst *image.RGBA, a *annotation.Annotation) error {
	return drawAnnotation(dst, a, false)
}

// Preview draws a for the live canvas. It skips the shadow blur and shows
// Obfuscate as a veil instead of sampling the pixels underneath.
func Preview(dst *image.RGBA, a *annotation.Annotation) error {
	return drawAnnotation(dst, a, true)
}

func drawAnnotation(dst *image.RGBA, a *annotation.Annotation, preview bool) error {
	if dst == nil || a == nil {
		return nil
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("render %v: %w", a.Kind, annotation.ErrUnknownKind)
	}
	if a.Kind == annotation.Text {
		return drawTextAnnotation(dst, a, preview)
	}
	if a.Degenerate() {
		return nil
	}
	st := a.Style
	r := a.Rect()
	switch a.Kind {
	case annotation.Highlight:
		fillRect(dst, r, st.Fill)
	case annotation.Obfuscate:
		if preview {
			fillRect(dst, r, previewVeil)
			dashedRect(dst, r, 4, st.Fill, selectionLite)
			return nil
		}
		pixelate(dst, r, st.BlockSize, st.Fill)
	case annotation.ImageOverlay:
		if a.Overlay == nil {
			return nil
		}
		xdraw.ApproxBiLinear.Scale(dst, r, a.Overlay, a.Overlay.Bounds(), draw.Over, nil)
	default:
		strokeShape(dst, a, !preview)
	}
	return nil
}

func strokeShape(dst *image.RGBA, a *annotation.Annotation, shadow bool) {
	st := a.Style
	thick := max(st.Thickness, 1)
	pad := thick + st.HeadSize + 1
	shadowOpts := ShadowOptions{Radius: st.ShadowSize, Opacity: st.ShadowOpacity}
	shadow = shadow && st.ShadowSize > 0 && st.ShadowOpacity > 0
	if shadow {
		pad += st.ShadowSize
	}
	bounds := a.Rect().Inset(-pad)

	if st.Fill.A > 0 {
		switch a.Kind {
		case annotation.Rectangle:
			fillRect(dst, a.Rect(), st.Fill)
		case annotation.Ellipse:
			if m := newMask(dst, a.Rect()); m != nil {
				fillEllipse(m, a.Rect())
				paint(dst, m, st.Fill)
			}
		}
	}

	m := newMask(dst, bounds)
	if m == nil {
		return
	}
	switch a.Kind {
	case annotation.Rectangle:
		strokeRect(m, a.Rect(), thick)
	case annotation.Ellipse:
		strokePolyline(m, annotation.EllipsePoints(a.Rect()), thick)
	case annotation.Line:
		strokeLine(m, a.Start, a.Finish, thick)
	case annotation.Arrow:
		head := st.HeadSize
		if head <= 0 {
			head = 6 + thick*2
		}
		strokeArrow(m, a.Start, a.Finish, head, thick)
	}
	if shadow {
		castShadow(dst, m, shadowOpts)
	}
	paint(dst, m, st.Stroke)
}

func drawTextAnnotation(dst *image.RGBA, a *annotation.Annotation, preview bool) error {
	st := a.Style
	if a.Text != "" {
		if err := drawText(dst, a.Origin(), a.Text, st.Stroke, st.FontSize); err != nil {
			return fmt.Errorf("render text: %w", err)
		}
	}
	if preview && (a.Creating || a.Selected) {
		_, h, _, err := MeasureText("M", st.FontSize)
		if err != nil {
			return fmt.Errorf("render text: %w", err)
		}
		w, _, _, err := MeasureText(a.Text, st.FontSize)
		if err != nil {
			return fmt.Errorf("render text: %w", err)
		}
		caret := image.Rect(0, 0, 1, h).Add(a.Origin().Add(image.Pt(w+1, 0)))
		fillRect(dst, caret, st.Stroke)
	}
	return nil
}

// Decorate draws the selection outline and resize handles of a selected
// annotation. It never contributes to an exported image.
func Decorate(dst *image.RGBA, a *annotation.Annotation) {
	if dst == nil || a == nil || !a.Selected {
		return
	}
	dashedRect(dst, a.Rect().Inset(-2), 4, selectionDark, selectionLite)
	for _, h := range a.Handles() {
		fillRect(dst, h.Rect, selectionLite)
		dashedRect(dst, h.Rect, h.Rect.Dx(), selectionDark, selectionDark)
	}
}
