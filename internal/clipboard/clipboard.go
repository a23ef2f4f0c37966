// Package clipboard moves exported images to and from the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	_ "image/png"

	"github.com/example/shinemark/internal/compositor"
)

var (
	ErrEmpty   = errors.New("nothing to copy")
	ErrNoImage = errors.New("clipboard does not contain image data")
)

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := compositor.Encode(&buf, img); err != nil {
		return err
	}
	return WritePNG(buf.Bytes())
}
