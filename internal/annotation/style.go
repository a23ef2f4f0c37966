package annotation

import "image/color"

// Style holds the paint attributes of an annotation. It is owned by the
// annotation and read by the render package; nothing else mutates it.
type Style struct {
	Stroke    color.RGBA
	Fill      color.RGBA
	Thickness int

	// ShadowSize is the blur radius of the drop shadow. Zero disables it.
	ShadowSize    int
	ShadowOpacity float64

	// HeadSize is the arrow head length in pixels.
	HeadSize int
	// BlockSize is the pixelation cell size used when obfuscating.
	BlockSize int
	// FontSize is the text size in points.
	FontSize float64
}

var (
	red    = color.RGBA{255, 0, 0, 255}
	black  = color.RGBA{0, 0, 0, 255}
	// color.RGBA is alpha-premultiplied: yellow at alpha 96.
	yellow = color.RGBA{96, 96, 0, 96}
)

// DefaultStyle returns the construction defaults for a variant.
func DefaultStyle(k Kind) Style {
	switch k {
	case Highlight:
		return Style{Fill: yellow}
	case Obfuscate:
		return Style{Stroke: black, Fill: black, Thickness: 1, BlockSize: 12}
	case Rectangle:
		return Style{Stroke: red, Thickness: 1, ShadowSize: 10, ShadowOpacity: 0.8}
	case Ellipse, Line:
		return Style{Stroke: red, Thickness: 2}
	case Arrow:
		return Style{Stroke: red, Thickness: 2, HeadSize: 12}
	case Text:
		return Style{Stroke: red, FontSize: 16}
	default:
		return Style{}
	}
}
