// Package imgur is the built-in Imgur uploader provider. It only manages its
// settings; uploading is not implemented.
package imgur

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/example/shinemark/internal/plugin"
	"github.com/example/shinemark/internal/uploader"
)

// Kind is the manifest kind served by this package.
const Kind = "imgur"

var (
	ErrMissingClientID = errors.New("imgur: client_id is required unless anonymous")
	ErrNoSettingsPath  = errors.New("imgur: no settings path")
)

// Settings is persisted as TOML next to the manifest.
type Settings struct {
	ClientID  string `toml:"client_id"`
	Album     string `toml:"album,omitempty"`
	Anonymous bool   `toml:"anonymous"`
}

func (s *Settings) Validate() error {
	if !s.Anonymous && s.ClientID == "" {
		return ErrMissingClientID
	}
	return nil
}

// Provider implements uploader.Provider.
type Provider struct {
	name      string
	publisher string
	path      string
	settings  Settings
}

var _ uploader.Provider = (*Provider)(nil)

// New builds a provider from m and loads its settings file when one is
// named.
func New(m plugin.Manifest) (*Provider, error) {
	p := &Provider{name: m.Name, publisher: m.Publisher, settings: Settings{Anonymous: true}}
	if p.name == "" {
		p.name = "Imgur"
	}
	if path := m.SettingsPath(); path != "" {
		if err := p.LoadSettings(path); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register adds the imgur factory to reg.
func Register(reg *uploader.Registry) error {
	return reg.Register(Kind, func(m plugin.Manifest) (uploader.Provider, error) {
		p, err := New(m)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

func (p *Provider) Name() string { return p.name }
func (p *Provider) Publisher() string { return p.publisher }
func (p *Provider) Config() uploader.Config { return &p.settings }
func (p *Provider) Settings() *Settings { return &p.settings }
func (p *Provider) SettingsPath() string { return p.path }

func (p *Provider) UI() uploader.Panel {
	return uploader.Panel{
		Title: p.name,
		Fields: []uploader.Field{
			{Key: "client_id", Label: "Client ID", Value: p.settings.ClientID, Secret: true},
			{Key: "album", Label: "Album", Value: p.settings.Album},
			{Key: "anonymous", Label: "Anonymous", Value: strconv.FormatBool(p.settings.Anonymous)},
		},
	}
}

// LoadSettings reads path and remembers it for SaveSettings. A missing file
// keeps the current settings.
func (p *Provider) LoadSettings(path string) error {
	p.path = path
	var s Settings
	_, err := toml.DecodeFile(path, &s)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("imgur: load settings %s: %w", path, err)
	}
	p.settings = s
	return nil
}

// SaveSettings writes the settings to the path last passed to LoadSettings.
func (p *Provider) SaveSettings() error {
	if p.path == "" {
		return ErrNoSettingsPath
	}
	if err := p.settings.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p.settings); err != nil {
		return fmt.Errorf("imgur: encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("imgur: create settings dir: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("imgur: write settings: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("imgur: replace settings: %w", err)
	}
	return nil
}
