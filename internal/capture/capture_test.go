package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCapture(t *testing.T, portal func(context.Context, Options) (*image.RGBA, error), x11 func() (*image.RGBA, error)) {
	t.Helper()
	prevPortal, prevX11, prevMonitors := portalScreenshotFn, x11ScreenshotFn, listMonitorsFn
	t.Cleanup(func() {
		portalScreenshotFn, x11ScreenshotFn, listMonitorsFn = prevPortal, prevX11, prevMonitors
	})
	portalScreenshotFn = portal
	x11ScreenshotFn = x11
}

func TestScreenshotUsesPortal(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 3, 3))
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return want, nil },
		func() (*image.RGBA, error) { t.Fatal("x11 must not be used"); return nil, nil },
	)
	got, err := Screenshot(context.Background(), Options{})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestScreenshotFallsBackToX11(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 2, 2))
	called := false
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return nil, unavailableErr() },
		func() (*image.RGBA, error) { called = true; return want, nil },
	)
	got, err := Screenshot(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Same(t, want, got)
}

func TestScreenshotFallbackFailureKeepsBothErrors(t *testing.T) {
	xerr := errors.New("no display")
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return nil, unavailableErr() },
		func() (*image.RGBA, error) { return nil, xerr },
	)
	_, err := Screenshot(context.Background(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, xerr)
	assert.Contains(t, err.Error(), "x11 fallback")
}

func TestInteractiveScreenshotDoesNotFallBack(t *testing.T) {
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return nil, unavailableErr() },
		func() (*image.RGBA, error) { t.Fatal("x11 must not be used"); return nil, nil },
	)
	_, err := Screenshot(context.Background(), Options{Interactive: true})
	assert.Error(t, err)
}

func TestScreenshotCropsToMonitor(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 200, 100))
	full.SetRGBA(150, 10, color.RGBA{9, 8, 7, 255})
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return full, nil },
		nil,
	)
	listMonitorsFn = func() ([]MonitorInfo, error) {
		return []MonitorInfo{
			{Index: 0, Name: "DP-1", Rect: image.Rect(0, 0, 100, 100)},
			{Index: 1, Name: "HDMI-1", Rect: image.Rect(100, 0, 200, 100), Primary: true},
		}, nil
	}
	got, err := Screenshot(context.Background(), Options{Display: "primary"})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), got.Bounds())
	assert.Equal(t, color.RGBA{9, 8, 7, 255}, got.RGBAAt(50, 10))
}

func TestFindMonitor(t *testing.T) {
	mons := []MonitorInfo{
		{Index: 0, Name: "eDP-1"},
		{Index: 1, Name: "HDMI-A-1", Primary: true},
	}
	tests := []struct {
		sel  string
		want int
		err  bool
	}{
		{"", 0, false},
		{"primary", 1, false},
		{"#1", 1, false},
		{"0", 0, false},
		{"hdmi", 1, false},
		{"5", 0, true},
		{"vga", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			got, err := FindMonitor(mons, tt.sel)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Index)
		})
	}
	_, err := FindMonitor(nil, "")
	assert.ErrorIs(t, err, errNoMonitors)
}

func TestCropOutside(t *testing.T) {
	_, err := cropToRect(image.NewRGBA(image.Rect(0, 0, 10, 10)), image.Rect(20, 20, 30, 30))
	assert.ErrorIs(t, err, errOutside)
}

func TestFileSource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	src.Set(1, 2, color.NRGBA{10, 20, 30, 255})
	path := filepath.Join(t.TempDir(), "shot.png")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, src))
	require.NoError(t, fh.Close())

	base, err := FileSource{Path: path, DPI: 144}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, base.Width())
	assert.Equal(t, 4, base.Height())
	assert.Equal(t, 144.0, base.DPI)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, base.Pixels.RGBAAt(1, 2))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.png")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
