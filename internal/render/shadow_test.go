package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastShadowSpreadsAroundStroke(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	m := newMask(dst, dst.Bounds())
	require.NotNil(t, m)
	plot(m, 20, 20)

	castShadow(dst, m, ShadowOptions{Radius: 3, Opacity: 1})

	assert.NotZero(t, dst.RGBAAt(20, 20).A, "expected shadow under the stroke")
	assert.NotZero(t, dst.RGBAAt(22, 20).A, "expected blur to reach a neighbour")
	assert.Zero(t, dst.RGBAAt(30, 30).A, "shadow must stay within the radius")
}

func TestCastShadowOffset(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	m := newMask(dst, dst.Bounds())
	plot(m, 5, 5)

	castShadow(dst, m, ShadowOptions{Radius: 0, Offset: image.Pt(4, 2), Opacity: 1})

	assert.Equal(t, uint8(255), dst.RGBAAt(9, 7).A)
	assert.Zero(t, dst.RGBAAt(5, 5).A)
}

func TestCastShadowNoopWhenOpacityZero(t *testing.T) {
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			dst.SetRGBA(x, y, fill)
		}
	}
	m := newMask(dst, dst.Bounds())
	plot(m, 1, 1)

	castShadow(dst, m, ShadowOptions{Radius: 12, Opacity: 0})

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, fill, dst.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestBlurAlphaKeepsBounds(t *testing.T) {
	src := image.NewAlpha(image.Rect(10, 10, 20, 14))
	src.SetAlpha(15, 12, color.Alpha{A: 255})

	out := blurAlpha(src, 2)

	assert.Equal(t, src.Rect, out.Rect)
	assert.NotZero(t, out.AlphaAt(16, 12).A)
	assert.Less(t, out.AlphaAt(15, 12).A, uint8(255))
}
