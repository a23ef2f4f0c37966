// Package uploader defines the provider surface shared by upload plugins.
// Nothing in the annotation core calls it; providers are discovered and
// listed alongside the editor.
package uploader

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/example/shinemark/internal/plugin"
)

// Capability is the manifest capability uploader plugins declare.
const Capability = "uploader"

// Config is a provider's settings object.
type Config interface {
	Validate() error
}

// Field is one editable setting on a provider panel.
type Field struct {
	Key    string
	Label  string
	Value  string
	Secret bool
}

// Panel describes the settings surface a provider exposes.
type Panel struct {
	Title  string
	Fields []Field
}

// Provider is an upload destination.
type Provider interface {
	Name() string
	Publisher() string
	Config() Config
	UI() Panel
	LoadSettings(path string) error
	SaveSettings() error
}

// Registry holds provider factories keyed by manifest kind.
type Registry = plugin.Registry[Provider]

// NewRegistry returns an empty uploader registry.
func NewRegistry() *Registry {
	return plugin.NewRegistry[Provider](Capability)
}

// Discover loads every uploader manifest in dir.
func Discover(ctx context.Context, dir string, reg *Registry, log logrus.FieldLogger) (map[string]Provider, error) {
	return plugin.Discover(ctx, dir, reg, log)
}
