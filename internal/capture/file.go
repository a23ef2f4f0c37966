package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/shinemark/internal/compositor"
)

// FileSource reads a base image from disk. Any format registered with the
// image package is accepted.
type FileSource struct {
	Path string
	DPI  float64
}

// Load implements Source.
func (f FileSource) Load(ctx context.Context) (*compositor.BaseImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := DecodeFile(f.Path)
	if err != nil {
		return nil, err
	}
	return compositor.NewBaseImage(img, f.DPI), nil
}

// DecodeFile opens and decodes path.
func DecodeFile(path string) (image.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	img, format, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty %s image", path, format)
	}
	return img, nil
}
