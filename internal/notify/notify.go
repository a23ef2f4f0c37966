// Package notify announces finished exports and clipboard copies.
package notify

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/example/shinemark/internal/compositor"
	"github.com/example/shinemark/internal/config"
	"github.com/example/shinemark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when a flattened image is written to disk.
	EventExport Event = "export"
	// EventCopy fires when a flattened image is copied to the clipboard.
	EventCopy Event = "copy"
)

// Timeout bounds a single notification round trip.
var Timeout = 3 * time.Second

// send is replaced in tests.
var send = platform.Notify

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.DefaultAppName,
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

type envPreferences struct {
	Title      string `envconfig:"NOTIFY_TITLE"`
	ExportText string `envconfig:"NOTIFY_EXPORT_TEXT"`
	CopyText   string `envconfig:"NOTIFY_COPY_TEXT"`
}

// LoadPreferences applies SHINEMARK_NOTIFY_* overrides to the defaults.
func LoadPreferences() (Preferences, error) {
	prefs := DefaultPreferences()
	var env envPreferences
	if err := envconfig.Process(config.EnvPrefix, &env); err != nil {
		return prefs, fmt.Errorf("notify preferences: %w", err)
	}
	if v := strings.TrimSpace(env.Title); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(env.ExportText); v != "" {
		prefs.Events[EventExport] = EventPreference{Template: v}
	}
	if v := strings.TrimSpace(env.CopyText); v != "" {
		prefs.Events[EventCopy] = EventPreference{Template: v}
	}
	return prefs, nil
}

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	log     logrus.FieldLogger
}

// New creates a new Notifier using the provided preferences. Every event
// starts disabled.
func New(prefs Preferences, log logrus.FieldLogger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), log: log.WithField("component", "notify")}
}

// FromConfig builds a notifier enabled per the [notify] section.
func FromConfig(n config.Notify, log logrus.FieldLogger) *Notifier {
	prefs, err := LoadPreferences()
	if err != nil && log != nil {
		log.WithError(err).Warn("using default notification text")
	}
	nt := New(prefs, log)
	nt.Enable(EventExport, n.Export)
	nt.Enable(EventCopy, n.Copy)
	return nt
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export announces a written file, using the file itself as the icon.
func (n *Notifier) Export(path string) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{AppName: n.prefs.Title}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy announces a clipboard copy with an optional preview icon.
func (n *Notifier) Copy(detail string, preview image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{AppName: n.prefs.Title}
	if preview != nil {
		if path, cleanup, err := createPreview(preview); err != nil {
			n.log.WithError(err).Warn("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	if err := send(ctx, n.prefs.Title, body, opts); err != nil {
		n.log.WithError(err).WithField("event", event).Warn("notification failed")
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "shinemark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := compositor.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Warn("remove preview")
		}
	}
	return path, cleanup, nil
}
