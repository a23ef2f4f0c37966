package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shinemark/internal/annotation"
)

var white = color.RGBA{255, 255, 255, 255}

func canvasOf(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// gradient gives every pixel a distinct value so redaction is detectable.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 7), uint8(y * 5), uint8(x ^ y), 255})
		}
	}
	return img
}

func newAnn(t *testing.T, k annotation.Kind, p0, p1 image.Point) *annotation.Annotation {
	t.Helper()
	a, err := annotation.New(k)
	require.NoError(t, err)
	a.SetBounds(p0, p1)
	return a
}

func TestBakeRectangleStrokeAndShadow(t *testing.T) {
	dst := canvasOf(100, 100, white)
	a := newAnn(t, annotation.Rectangle, image.Pt(20, 20), image.Pt(80, 60))

	require.NoError(t, Bake(dst, a))

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(79, 40))
	outside := dst.RGBAAt(17, 40)
	assert.Less(t, outside.R, uint8(255), "drop shadow should darken just outside the stroke")
	assert.Equal(t, white, dst.RGBAAt(2, 2))
}

func TestPreviewRectangleSkipsShadow(t *testing.T) {
	dst := canvasOf(100, 100, white)
	a := newAnn(t, annotation.Rectangle, image.Pt(20, 20), image.Pt(80, 60))

	require.NoError(t, Preview(dst, a))

	assert.Equal(t, white, dst.RGBAAt(17, 40))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(20, 20))
}

func TestBakeObfuscateReplacesInsideOnly(t *testing.T) {
	base := gradient(64, 64)
	dst := gradient(64, 64)
	r := image.Rect(10, 10, 40, 30)
	a := newAnn(t, annotation.Obfuscate, r.Min, r.Max)
	a.Style.Fill.A = 200

	require.NoError(t, Bake(dst, a))

	changed := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if dst.RGBAAt(x, y) != base.RGBAAt(x, y) {
				changed++
			}
		}
	}
	assert.Equal(t, r.Dx()*r.Dy(), changed)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if (image.Point{x, y}).In(r) {
				continue
			}
			require.Equal(t, base.RGBAAt(x, y), dst.RGBAAt(x, y), "pixel (%d,%d) outside the region changed", x, y)
		}
	}
}

func TestBakeObfuscateIgnoresHarmlessStyle(t *testing.T) {
	base := gradient(80, 80)
	dst := gradient(80, 80)
	r := image.Rect(10, 10, 60, 60)
	a := newAnn(t, annotation.Obfuscate, r.Min, r.Max)
	a.Style.Fill = color.RGBA{}
	a.Style.BlockSize = 1

	require.NoError(t, Bake(dst, a))

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			require.NotEqual(t, base.RGBAAt(x, y), dst.RGBAAt(x, y), "pixel (%d,%d) survived redaction", x, y)
		}
	}
}

func TestPreviewObfuscateDoesNotPixelate(t *testing.T) {
	dst := canvasOf(40, 40, white)
	a := newAnn(t, annotation.Obfuscate, image.Pt(5, 5), image.Pt(35, 35))

	require.NoError(t, Preview(dst, a))

	c := dst.RGBAAt(20, 20)
	assert.NotEqual(t, uint8(0), c.R, "preview is a veil, not the solid redaction")
	assert.Less(t, c.R, uint8(255))
}

func TestZeroAreaIsNoop(t *testing.T) {
	for _, k := range annotation.Kinds() {
		if k == annotation.Text {
			continue
		}
		t.Run(k.String(), func(t *testing.T) {
			dst := canvasOf(20, 20, white)
			a := newAnn(t, k, image.Pt(5, 5), image.Pt(5, 5))
			require.NoError(t, Bake(dst, a))
			require.NoError(t, Preview(dst, a))
			assert.Equal(t, canvasOf(20, 20, white).Pix, dst.Pix)
		})
	}
}

func TestOutOfBoundsClips(t *testing.T) {
	dst := canvasOf(30, 30, white)
	for _, k := range annotation.Kinds() {
		a := newAnn(t, k, image.Pt(-50, -40), image.Pt(90, 120))
		a.Text = "clipped"
		assert.NotPanics(t, func() {
			require.NoError(t, Bake(dst, a))
			require.NoError(t, Preview(dst, a))
		}, k.String())
	}
	far := newAnn(t, annotation.Obfuscate, image.Pt(100, 100), image.Pt(200, 200))
	require.NoError(t, Bake(dst, far))
}

func TestUnknownKindErrors(t *testing.T) {
	a := &annotation.Annotation{Kind: annotation.Kind(42)}
	a.SetBounds(image.Pt(0, 0), image.Pt(5, 5))
	err := Bake(canvasOf(10, 10, white), a)
	assert.ErrorIs(t, err, annotation.ErrUnknownKind)
}

func TestHighlightBlends(t *testing.T) {
	dst := canvasOf(10, 10, color.RGBA{0, 0, 255, 255})
	a := newAnn(t, annotation.Highlight, image.Pt(0, 0), image.Pt(10, 10))

	require.NoError(t, Bake(dst, a))

	c := dst.RGBAAt(5, 5)
	assert.NotZero(t, c.R)
	assert.NotZero(t, c.B, "highlight must leave the underlying pixels visible")
}

func TestBakeImageOverlay(t *testing.T) {
	dst := canvasOf(20, 20, white)
	a := newAnn(t, annotation.ImageOverlay, image.Pt(0, 0), image.Pt(10, 10))
	a.Overlay = canvasOf(2, 2, color.RGBA{0, 255, 0, 255})

	require.NoError(t, Bake(dst, a))

	c := dst.RGBAAt(5, 5)
	assert.Greater(t, c.G, uint8(240))
	assert.Less(t, c.R, uint8(16))
	assert.Equal(t, white, dst.RGBAAt(15, 15))
}

func TestBakeTextDrawsGlyphs(t *testing.T) {
	dst := canvasOf(120, 40, white)
	a := newAnn(t, annotation.Text, image.Pt(4, 4), image.Pt(4, 4))
	a.Text = "Hello"

	require.NoError(t, Bake(dst, a))

	assert.NotEqual(t, canvasOf(120, 40, white).Pix, dst.Pix)
	w, h, base, err := MeasureText("Hello", 16)
	require.NoError(t, err)
	assert.Positive(t, w)
	assert.Greater(t, h, base)
}

func TestDecorateOnlySelected(t *testing.T) {
	dst := canvasOf(50, 50, white)
	a := newAnn(t, annotation.Rectangle, image.Pt(10, 10), image.Pt(40, 40))
	Decorate(dst, a)
	assert.Equal(t, canvasOf(50, 50, white).Pix, dst.Pix)

	a.Selected = true
	Decorate(dst, a)
	assert.NotEqual(t, canvasOf(50, 50, white).Pix, dst.Pix)
}
