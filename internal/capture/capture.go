// Package capture supplies base images to annotate: files on disk and live
// screen grabs through the desktop portal or the X server.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/example/shinemark/internal/compositor"
)

// Source produces a base image.
type Source interface {
	Load(ctx context.Context) (*compositor.BaseImage, error)
}

// Options controls a screen grab.
type Options struct {
	// Interactive lets the user pick a region through the portal dialog.
	Interactive bool
	// Display crops the grab to one monitor. See FindMonitor.
	Display       string
	IncludeCursor bool
}

var (
	portalScreenshotFn = portalScreenshot
	x11ScreenshotFn    = x11Screenshot
	listMonitorsFn     = listMonitors
)

// ScreenSource grabs the desktop.
type ScreenSource struct {
	Options Options
	DPI     float64
}

// Load implements Source.
func (s ScreenSource) Load(ctx context.Context) (*compositor.BaseImage, error) {
	img, err := Screenshot(ctx, s.Options)
	if err != nil {
		return nil, err
	}
	return compositor.NewBaseImage(img, s.DPI), nil
}

// Screenshot grabs the screen. Non-interactive grabs fall back to reading the
// X root window when the portal is missing or refuses.
func Screenshot(ctx context.Context, opts Options) (*image.RGBA, error) {
	img, err := portalScreenshotFn(ctx, opts)
	if err != nil {
		if opts.Interactive || !isPortalUnavailable(err) {
			return nil, err
		}
		var xerr error
		img, xerr = x11ScreenshotFn()
		if xerr != nil {
			return nil, fmt.Errorf("screenshot: %w; x11 fallback: %w", err, xerr)
		}
	}
	if opts.Display == "" {
		return img, nil
	}
	monitors, err := listMonitorsFn()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, mon.Rect)
}

var errOutside = errors.New("requested region outside captured image")

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, errOutside
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
