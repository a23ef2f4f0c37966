package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/shinemark/internal/canvas"
)

const (
	statusHeight = 24
	buttonHeight = 24
	minZoom      = 0.1
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// toolButton selects a mode when clicked.
type toolButton struct {
	label string
	mode  canvas.Mode
	rect  image.Rectangle
	cache [3]*image.RGBA
}

func (tb *toolButton) draw(dst *image.RGBA, th *Theme, state ButtonState) {
	if tb.cache[state] == nil {
		img := image.NewRGBA(tb.rect)
		c := th.ButtonBackground
		switch state {
		case StateHover:
			c = th.ButtonBackgroundHover
		case StatePressed:
			c = th.ButtonBackgroundPress
		}
		draw.Draw(img, tb.rect, &image.Uniform{c}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: img, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
			Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
		d.DrawString(tb.label)
		tb.cache[state] = img
	}
	draw.Draw(dst, tb.rect, tb.cache[state], tb.rect.Min, draw.Src)
}

// toolbar lays out one button per mode down the left edge.
type toolbar struct {
	width   int
	buttons []*toolButton
	hover   int
}

func newToolbar() *toolbar {
	tb := &toolbar{hover: -1}
	meas := &font.Drawer{Face: basicfont.Face7x13}
	tb.width = meas.MeasureString("Shinemark").Ceil() + 8
	keyOf := map[canvas.Mode]rune{}
	for r, m := range modeKeys {
		keyOf[m] = r
	}
	y := buttonHeight
	for _, m := range canvas.Modes() {
		label := fmt.Sprintf("%c:%s", keyOf[m]-'a'+'A', m)
		if w := meas.MeasureString(label).Ceil() + 8; w > tb.width {
			tb.width = w
		}
		tb.buttons = append(tb.buttons, &toolButton{label: label, mode: m})
	}
	for _, b := range tb.buttons {
		b.rect = image.Rect(0, y, tb.width, y+buttonHeight)
		y += buttonHeight
	}
	return tb
}

// at returns the button under p, or -1.
func (tb *toolbar) at(p image.Point) int {
	for i, b := range tb.buttons {
		if p.In(b.rect) {
			return i
		}
	}
	return -1
}

func (tb *toolbar) draw(dst *image.RGBA, th *Theme, active canvas.Mode) {
	r := image.Rect(0, 0, tb.width, dst.Bounds().Dy())
	draw.Draw(dst, r, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	title.DrawString("Shinemark")
	for i, b := range tb.buttons {
		state := StateDefault
		if b.mode == active {
			state = StatePressed
		} else if i == tb.hover {
			state = StateHover
		}
		b.draw(dst, th, state)
	}
}

// view maps between window and canvas coordinates.
type view struct {
	origin image.Point
	zoom   float64
}

// fitView anchors the image right of the toolbar, shrinking it to fit the
// window but never enlarging it.
func fitView(img image.Rectangle, toolbarWidth, winW, winH int) view {
	availW := winW - toolbarWidth
	availH := winH - statusHeight
	z := 1.0
	if img.Dx() > 0 && img.Dy() > 0 && availW > 0 && availH > 0 {
		zx := float64(availW) / float64(img.Dx())
		zy := float64(availH) / float64(img.Dy())
		z = min(z, zx, zy)
	}
	return view{origin: image.Pt(toolbarWidth, 0), zoom: max(z, minZoom)}
}

func (v view) toCanvas(p image.Point) image.Point {
	d := p.Sub(v.origin)
	return image.Pt(int(float64(d.X)/v.zoom), int(float64(d.Y)/v.zoom))
}

func (v view) rect(img image.Rectangle) image.Rectangle {
	w := int(float64(img.Dx()) * v.zoom)
	h := int(float64(img.Dy()) * v.zoom)
	return image.Rect(v.origin.X, v.origin.Y, v.origin.X+w, v.origin.Y+h)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawStatus(dst *image.RGBA, th *Theme, left int, text string) {
	b := dst.Bounds()
	r := image.Rect(left, b.Max.Y-statusHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, r, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(left+4, b.Max.Y-statusHeight+16)}
	d.DrawString(text)
}

func statusLine(m canvas.Mode, st canvas.State, message string) string {
	s := fmt.Sprintf("%s | %s", m, st)
	for _, sc := range shortcuts {
		s += "  " + sc.label
	}
	if message != "" {
		s = message + " | " + s
	}
	return s
}
