// Package canvas holds the editing session and the interaction state machine
// that turns pointer and keyboard input into annotation changes.
package canvas

import (
	"context"
	"image"
	"image/draw"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/shinemark/internal/annotation"
	"github.com/example/shinemark/internal/compositor"
	"github.com/example/shinemark/internal/render"
	"github.com/example/shinemark/internal/store"
)

// Session owns the base image, the annotation store and the armed mode.
type Session struct {
	ID string

	log       logrus.FieldLogger
	base      *compositor.BaseImage
	store     *store.Store
	mode      Mode
	styles    map[annotation.Kind]annotation.Style
	overlay   image.Image
	observers []Observer

	// layer caches the base with every committed annotation baked in.
	layer      *image.RGBA
	layerDirty bool

	// active is the annotation being created, if any.
	active *annotation.Annotation
	// floating is a committed annotation being dragged or edited. It is left
	// out of layer and drawn on top of it, so moves do not re-flatten.
	floating *annotation.Annotation
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option { return func(s *Session) { s.log = l } }

// WithObserver registers o before the first image is loaded.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithStyle overrides the construction style of a variant.
func WithStyle(k annotation.Kind, st annotation.Style) Option {
	return func(s *Session) { s.styles[k] = st }
}

// WithMode sets the initial mode. Invalid modes are ignored.
func WithMode(m Mode) Option {
	return func(s *Session) {
		if m.Valid() {
			s.mode = m
		}
	}
}

// NewSession returns an empty session with no image loaded.
func NewSession(opts ...Option) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		log:    logrus.StandardLogger(),
		store:  store.New(),
		styles: map[annotation.Kind]annotation.Style{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("session", s.ID)
	return s
}

// AddObserver registers o for future notifications.
func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Base returns the loaded image or nil.
func (s *Session) Base() *compositor.BaseImage { return s.base }

// Store returns the annotation store.
func (s *Session) Store() *store.Store { return s.store }

// Mode returns the armed tool.
func (s *Session) Mode() Mode { return s.mode }

// Active returns the annotation being created, if any.
func (s *Session) Active() *annotation.Annotation { return s.active }

// Style returns the construction style for k.
func (s *Session) Style(k annotation.Kind) annotation.Style {
	if st, ok := s.styles[k]; ok {
		return st
	}
	return annotation.DefaultStyle(k)
}

// SetStyle changes the construction style for k. Existing annotations keep
// theirs.
func (s *Session) SetStyle(k annotation.Kind, st annotation.Style) { s.styles[k] = st }

// SetOverlay sets the image placed by the next ImageOverlay annotation.
func (s *Session) SetOverlay(img image.Image) { s.overlay = img }

// load replaces the image wholesale and clears the store.
func (s *Session) load(base *compositor.BaseImage) {
	s.base = base
	s.store.Clear()
	s.active = nil
	s.floating = nil
	s.layer = nil
	s.layerDirty = true
	s.ID = uuid.NewString()
	s.log = s.log.WithField("session", s.ID)
	if base != nil {
		s.log.WithFields(logrus.Fields{"width": base.Width(), "height": base.Height(), "dpi": base.DPI}).Info("image loaded")
	}
	for _, o := range s.observers {
		o.ImageLoaded(s)
	}
}

func (s *Session) setMode(m Mode) {
	s.mode = m
	s.log.WithField("mode", m).Debug("mode changed")
	for _, o := range s.observers {
		o.ModeChanged(m)
	}
}

// changed notifies observers. dirty marks the committed layer stale.
func (s *Session) changed(dirty bool) {
	if dirty {
		s.layerDirty = true
	}
	for _, o := range s.observers {
		o.StoreChanged(s)
	}
}

// setFloating lifts a out of the cached layer, or drops the current floating
// annotation back into it when a is nil. Either way the layer is rebuilt once
// on the next preview.
func (s *Session) setFloating(a *annotation.Annotation) {
	if s.floating == a {
		return
	}
	s.floating = a
	s.layerDirty = true
}

// bakeCommitted folds a freshly committed annotation into the cached layer.
// It is only valid for the topmost annotation.
func (s *Session) bakeCommitted(a *annotation.Annotation) {
	if s.layer == nil || s.layerDirty || a == s.floating {
		return
	}
	if err := render.Bake(s.layer, a); err != nil {
		s.log.WithError(err).Warn("bake failed")
		s.layerDirty = true
	}
}

// RenderPreview paints the live canvas into dst: the committed layer, the
// annotation in progress and the selection decorations. dst should cover the
// base bounds.
func (s *Session) RenderPreview(dst *image.RGBA) {
	if s.base == nil || dst == nil {
		return
	}
	if s.layer == nil || s.layerDirty {
		layer, err := compositor.Flatten(context.Background(), s.base, s.layerAnnotations())
		if err != nil {
			s.log.WithError(err).Warn("preview flatten failed")
			layer = s.base.Pixels
		} else {
			s.layerDirty = false
		}
		s.layer = layer
	}
	draw.Draw(dst, s.base.Bounds(), s.layer, s.layer.Rect.Min, draw.Src)
	if f := s.floating; f != nil && s.store.Index(f.ID) >= 0 {
		if err := render.Bake(dst, f); err != nil {
			s.log.WithError(err).Warn("preview failed")
		}
	}
	if s.active != nil {
		if err := render.Preview(dst, s.active); err != nil {
			s.log.WithError(err).Warn("preview failed")
		}
	}
	for _, a := range s.store.Selected() {
		render.Decorate(dst, a)
	}
}

// layerAnnotations is the store minus the floating annotation.
func (s *Session) layerAnnotations() []*annotation.Annotation {
	all := s.store.All()
	if s.floating == nil {
		return all
	}
	out := all[:0]
	for _, a := range all {
		if a != s.floating {
			out = append(out, a)
		}
	}
	return out
}

// Export flattens a snapshot of the current store.
func (s *Session) Export(ctx context.Context) (compositor.Result, error) {
	res, err := compositor.Export(ctx, s.base, s.store.Snapshot())
	if err != nil {
		s.log.WithError(err).Error("export failed")
		return res, err
	}
	s.log.WithField("bytes", len(res.PNG)).Info("exported")
	return res, nil
}

// ExportAsync snapshots the store on the calling goroutine and flattens it on
// another. Edits made after the call do not affect the result.
func (s *Session) ExportAsync(ctx context.Context) <-chan compositor.Result {
	return compositor.ExportAsync(ctx, s.base, s.store.Snapshot())
}
