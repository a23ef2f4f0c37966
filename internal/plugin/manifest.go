// Package plugin discovers provider modules described by TOML manifests and
// instantiates them through an explicit factory registry.
package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestExt is the file extension scanned by Discover.
const ManifestExt = ".toml"

// ErrInvalidManifest wraps every manifest that cannot be read or misses a
// required field.
var ErrInvalidManifest = errors.New("invalid plugin manifest")

// Manifest declares one loadable module.
//
//	id         = "imgur-main"
//	name       = "Imgur"
//	publisher  = "ShareX Team"
//	capability = "uploader"
//	kind       = "imgur"
//	settings   = "imgur.settings.toml"
type Manifest struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Publisher  string `toml:"publisher"`
	Capability string `toml:"capability"`
	Kind       string `toml:"kind"`
	// Settings is a settings file path, relative to the manifest directory
	// unless absolute.
	Settings string `toml:"settings"`

	// Path is the absolute manifest location. It is not read from the file.
	Path string `toml:"-"`
}

// ReadManifest decodes and validates the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
	}
	var m Manifest
	meta, err := toml.DecodeFile(abs, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidManifest, path, undecoded[0].String())
	}
	m.Path = abs
	m.Capability = strings.TrimSpace(m.Capability)
	m.Kind = strings.TrimSpace(m.Kind)
	switch {
	case m.Capability == "":
		return Manifest{}, fmt.Errorf("%w: %s: capability is required", ErrInvalidManifest, path)
	case m.Kind == "":
		return Manifest{}, fmt.Errorf("%w: %s: kind is required", ErrInvalidManifest, path)
	}
	return m, nil
}

// Identity is the key a loaded instance is registered under: the declared
// id, or the manifest location when no id is given.
func (m Manifest) Identity() string {
	if id := strings.TrimSpace(m.ID); id != "" {
		return id
	}
	return m.Path
}

// SettingsPath resolves Settings against the manifest directory. It is empty
// when the manifest names no settings file.
func (m Manifest) SettingsPath() string {
	if m.Settings == "" {
		return ""
	}
	if filepath.IsAbs(m.Settings) {
		return m.Settings
	}
	return filepath.Join(filepath.Dir(m.Path), m.Settings)
}
