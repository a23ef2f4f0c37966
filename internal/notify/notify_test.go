package notify

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shinemark/internal/config"
	"github.com/example/shinemark/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func captureSends(t *testing.T, err error) *[]sent {
	t.Helper()
	var got []sent
	old := send
	send = func(_ context.Context, title, body string, opts platform.Options) error {
		_, statErr := os.Stat(opts.IconPath)
		got = append(got, sent{title, body, opts, opts.IconPath != "" && statErr == nil})
		return err
	}
	t.Cleanup(func() { send = old })
	return &got
}

func TestDisabledByDefault(t *testing.T) {
	got := captureSends(t, nil)
	n := New(DefaultPreferences(), nil)
	n.Export("out.png")
	n.Copy("", nil)
	assert.Empty(t, *got)

	var nilNotifier *Notifier
	nilNotifier.Enable(EventCopy, true)
	nilNotifier.Copy("x", nil)
	assert.Empty(t, *got)
}

func TestExportUsesFileAsIcon(t *testing.T) {
	got := captureSends(t, nil)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	n := FromConfig(config.Notify{Export: true}, nil)
	n.Export(path)
	n.Copy("image", nil)

	require.Len(t, *got, 1)
	assert.Equal(t, "Shinemark", (*got)[0].title)
	assert.Equal(t, "Exported "+path, (*got)[0].body)
	assert.Equal(t, path, (*got)[0].opts.IconPath)
}

func TestCopyWritesPreview(t *testing.T) {
	got := captureSends(t, errors.New("no bus"))
	n := New(DefaultPreferences(), nil)
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 4, 4)))

	require.Len(t, *got, 1)
	assert.Equal(t, "Copied image to clipboard", (*got)[0].body)
	assert.True(t, (*got)[0].iconExisted, "preview exists while sending")
	_, err := os.Stat((*got)[0].opts.IconPath)
	assert.True(t, os.IsNotExist(err), "preview removed afterwards")
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("SHINEMARK_NOTIFY_TITLE", "Marks")
	t.Setenv("SHINEMARK_NOTIFY_COPY_TEXT", "Clipboard has %s")
	prefs, err := LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, "Marks", prefs.Title)
	assert.Equal(t, "Clipboard has %s", prefs.Events[EventCopy].Template)
	assert.Equal(t, "Exported %s", prefs.Events[EventExport].Template)
}
