package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is used when a text style carries no size.
const DefaultFontSize = 16

var (
	fontOnce sync.Once
	fontErr  error
	regular  *opentype.Font

	// faces are not safe for concurrent use, so every glyph operation holds
	// faceMu. Export may run beside the live preview.
	faceMu sync.Mutex
	faces  = map[float64]font.Face{}
)

func faceForSize(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	size = math.Round(size*4) / 4
	if face, ok := faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %.2f: %w", size, err)
	}
	faces[size] = face
	return face, nil
}

// MeasureText returns the bounding box of text rendered at size. baseline is
// the offset from the top of the box to the text baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	faceMu.Lock()
	defer faceMu.Unlock()
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	width = font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return width, height, baseline, nil
}

// drawText renders text with its top-left corner at p.
func drawText(dst *image.RGBA, p image.Point, text string, col color.Color, size float64) error {
	faceMu.Lock()
	defer faceMu.Unlock()
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(p.X, p.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}
