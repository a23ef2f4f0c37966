package plugin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name string
	path string
}

func writeManifest(t *testing.T, dir, file, body string) string {
	t.Helper()
	p := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func fakeRegistry(t *testing.T, calls *atomic.Int32) *Registry[*fakeProvider] {
	t.Helper()
	reg := NewRegistry[*fakeProvider]("uploader")
	require.NoError(t, reg.Register("fake", func(m Manifest) (*fakeProvider, error) {
		if calls != nil {
			calls.Add(1)
		}
		return &fakeProvider{name: m.Name, path: m.Path}, nil
	}))
	return reg
}

func quietLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	return l, &buf
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	p := writeManifest(t, dir, "a.toml", `
id = "a"
name = "Alpha"
publisher = "Example"
capability = "uploader"
kind = "fake"
settings = "a.settings.toml"
`)
	m, err := ReadManifest(p)
	require.NoError(t, err)
	assert.Equal(t, "a", m.Identity())
	assert.Equal(t, "Alpha", m.Name)
	assert.Equal(t, filepath.Join(dir, "a.settings.toml"), m.SettingsPath())
}

func TestReadManifestInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax.toml":     `id = `,
		"nokind.toml":     "capability = \"uploader\"\n",
		"nocap.toml":      "kind = \"fake\"\n",
		"unknownkey.toml": "capability = \"uploader\"\nkind = \"fake\"\ncolour = \"red\"\n",
	}
	for file, body := range cases {
		t.Run(file, func(t *testing.T) {
			_, err := ReadManifest(writeManifest(t, dir, file, body))
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestIdentityFallsBackToPath(t *testing.T) {
	dir := t.TempDir()
	p := writeManifest(t, dir, "noid.toml", "capability = \"uploader\"\nkind = \"fake\"\n")
	m, err := ReadManifest(p)
	require.NoError(t, err)
	abs, _ := filepath.Abs(p)
	assert.Equal(t, abs, m.Identity())
}

func TestRegistry(t *testing.T) {
	reg := fakeRegistry(t, nil)
	err := reg.Register("fake", func(Manifest) (*fakeProvider, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrDuplicateKind)
	require.NoError(t, reg.Register("another", func(Manifest) (*fakeProvider, error) { return nil, nil }))
	assert.Equal(t, []string{"another", "fake"}, reg.Kinds())
	assert.Equal(t, "uploader", reg.Capability())
}

func TestDiscoverTwoProviders(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.toml", "id = \"a\"\nname = \"A\"\ncapability = \"uploader\"\nkind = \"fake\"\n")
	writeManifest(t, dir, "b.toml", "id = \"b\"\nname = \"B\"\ncapability = \"uploader\"\nkind = \"fake\"\n")
	writeManifest(t, dir, "readme.txt", "not a manifest")
	log, _ := quietLogger()

	got, err := Discover(t.Context(), dir, fakeRegistry(t, nil), log)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got["a"].name)
	assert.Equal(t, "B", got["b"].name)
}

func TestDiscoverMissingDirectory(t *testing.T) {
	got, err := Discover(t.Context(), filepath.Join(t.TempDir(), "absent"), fakeRegistry(t, nil), nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	got, err := Discover(t.Context(), t.TempDir(), fakeRegistry(t, nil), nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiscoverDuplicateIdentityFirstWins(t *testing.T) {
	dir := t.TempDir()
	first := writeManifest(t, dir, "01-first.toml", "id = \"same\"\nname = \"first\"\ncapability = \"uploader\"\nkind = \"fake\"\n")
	writeManifest(t, dir, "02-second.toml", "id = \"same\"\nname = \"second\"\ncapability = \"uploader\"\nkind = \"fake\"\n")
	log, buf := quietLogger()
	var calls atomic.Int32

	got, err := Discover(t.Context(), dir, fakeRegistry(t, &calls), log)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got["same"].name)
	abs, _ := filepath.Abs(first)
	assert.Equal(t, abs, got["same"].path)
	assert.EqualValues(t, 1, calls.Load())
	assert.Contains(t, buf.String(), "skipping duplicate plugin")
}

func TestDiscoverSkipsOtherCapabilitiesAndBadManifests(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.toml", "id = \"a\"\ncapability = \"uploader\"\nkind = \"fake\"\n")
	writeManifest(t, dir, "b.toml", "id = \"b\"\ncapability = \"exporter\"\nkind = \"fake\"\n")
	writeManifest(t, dir, "c.toml", "id = \"c\"\ncapability = \"uploader\"\nkind = \"missing\"\n")
	writeManifest(t, dir, "d.toml", "broken = ")
	log, buf := quietLogger()

	got, err := Discover(t.Context(), dir, fakeRegistry(t, nil), log)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "a")
	assert.Contains(t, buf.String(), "cannot instantiate plugin")
	assert.Contains(t, buf.String(), "skipping manifest")
}

func TestDiscoverCancelled(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.toml", "id = \"a\"\ncapability = \"uploader\"\nkind = \"fake\"\n")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := Discover(ctx, dir, fakeRegistry(t, nil), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchRediscovers(t *testing.T) {
	old := WatchDebounce
	WatchDebounce = 10 * time.Millisecond
	t.Cleanup(func() { WatchDebounce = old })

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	results := make(chan map[string]*fakeProvider, 4)
	done := make(chan error, 1)
	log, _ := quietLogger()
	go func() {
		done <- Watch(ctx, dir, fakeRegistry(t, nil), log, func(m map[string]*fakeProvider, err error) {
			if err == nil {
				results <- m
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeManifest(t, dir, "a.toml", "id = \"a\"\ncapability = \"uploader\"\nkind = \"fake\"\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case m := <-results:
			if len(m) == 1 {
				cancel()
				assert.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("watch did not report the new manifest")
		}
	}
}
