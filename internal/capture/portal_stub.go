//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"errors"
	"image"
)

var errPortalUnsupported = errors.New("portal screenshot is not supported on this platform")

func portalScreenshot(context.Context, Options) (*image.RGBA, error) {
	return nil, errPortalUnsupported
}

func isPortalUnavailable(err error) bool { return errors.Is(err, errPortalUnsupported) }
