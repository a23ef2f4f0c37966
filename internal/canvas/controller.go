package canvas

import (
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/example/shinemark/internal/annotation"
	"github.com/example/shinemark/internal/compositor"
	"github.com/example/shinemark/internal/render"
)

// State is the interaction state of a Controller.
type State int

const (
	// Idle has nothing selected and no gesture in progress.
	Idle State = iota
	// Creating is sizing a new annotation while the pointer is held.
	Creating
	// SelectedIdle has a selection and no gesture in progress.
	SelectedIdle
	// Moving drags the selection in cursor mode.
	Moving
	// Resizing drags a handle of the selection in cursor mode.
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case SelectedIdle:
		return "selected"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonRight
	ButtonMiddle
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
)

// Square reports whether the square constraint is requested.
func (m Modifiers) Square() bool { return m&(ModShift|ModControl) != 0 }

// Key is a keyboard key the controller reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyDelete
	KeyBackspace
	KeyEscape
	KeyEnter
)

// HitTolerance is the slack in pixels used when picking thin annotations.
const HitTolerance = 3

// Controller is the interaction state machine. All methods must be called
// from one goroutine. Input arriving with no image loaded is ignored.
type Controller struct {
	s   *Session
	log logrus.FieldLogger

	state State

	// grab is the annotation being moved or resized.
	grab       *annotation.Annotation
	handle     annotation.Handle
	anchor     image.Point
	origStart  image.Point
	origFinish image.Point

	// editing receives typed text after a Text annotation is committed.
	editing *annotation.Annotation

	last image.Point
}

// NewController drives s.
func NewController(s *Session) *Controller {
	return &Controller{s: s, log: s.log}
}

// Session returns the driven session.
func (c *Controller) Session() *Session { return c.s }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Editing returns the Text annotation receiving keystrokes, if any.
func (c *Controller) Editing() *annotation.Annotation { return c.editing }

// Load replaces the base image, clears every annotation and returns to Idle.
func (c *Controller) Load(base *compositor.BaseImage) {
	c.reset()
	c.s.load(base)
	c.log = c.s.log
}

func (c *Controller) reset() {
	c.state = Idle
	c.grab = nil
	c.editing = nil
	c.handle = annotation.HandleNone
}

// SetMode arms a tool. Unknown modes are rejected and leave the current mode
// in place. Switching modes cancels a creation in progress.
func (c *Controller) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("set mode %d: %w", int(m), ErrUnknownMode)
	}
	if c.state == Creating {
		c.cancel()
	}
	c.endEditing()
	if m == c.s.mode {
		return nil
	}
	c.s.setMode(m)
	return nil
}

// PointerDown handles a button press at canvas position p.
func (c *Controller) PointerDown(p image.Point, b Button, mods Modifiers) {
	if c.s.base == nil {
		return
	}
	c.last = p
	if c.state == Creating || b != ButtonLeft {
		return
	}
	c.endEditing()
	if c.s.mode.Creates() {
		c.begin(p)
		return
	}
	c.pick(p)
}

func (c *Controller) begin(p image.Point) {
	k := c.s.mode.Kind()
	if k == annotation.ImageOverlay && c.s.overlay == nil {
		c.log.Warn("no overlay image to place; paste one first")
		return
	}
	a, err := annotation.New(k)
	if err != nil {
		c.log.WithError(err).WithField("mode", c.s.mode).Error("cannot create annotation")
		return
	}
	a.Style = c.s.Style(k)
	if k == annotation.ImageOverlay {
		a.Overlay = c.s.overlay
	}
	c.s.store.ClearSelection()
	a.BeginCreate(p)
	if err := c.s.store.Append(a); err != nil {
		c.log.WithError(err).Error("cannot add annotation")
		return
	}
	c.s.active = a
	c.state = Creating
	c.s.changed(true)
}

func (c *Controller) pick(p image.Point) {
	for _, a := range c.s.store.Selected() {
		if h := a.HandleAt(p); h != annotation.HandleNone {
			c.startDrag(a, p, Resizing)
			c.handle = h
			return
		}
	}
	hit := c.s.store.HitTest(p, HitTolerance)
	c.s.store.ClearSelection()
	if hit == nil {
		c.state = Idle
		c.s.changed(false)
		return
	}
	c.s.store.Select(hit.ID)
	c.startDrag(hit, p, Moving)
	c.s.changed(false)
}

func (c *Controller) startDrag(a *annotation.Annotation, p image.Point, st State) {
	c.grab = a
	c.anchor = p
	c.origStart, c.origFinish = a.Start, a.Finish
	c.handle = annotation.HandleNone
	c.state = st
	c.s.setFloating(a)
}

// PointerMove handles motion. Only the latest position matters, so callers
// may coalesce moves.
func (c *Controller) PointerMove(p image.Point, mods Modifiers) {
	if c.s.base == nil {
		return
	}
	c.last = p
	switch c.state {
	case Creating:
		c.s.active.SetFinish(p)
		if mods.Square() {
			c.s.active.ConstrainSquare()
		}
		c.s.changed(false)
	case Moving:
		d := p.Sub(c.anchor)
		c.grab.SetBounds(c.origStart.Add(d), c.origFinish.Add(d))
		c.s.changed(false)
	case Resizing:
		c.grab.SetBounds(c.origStart, c.origFinish)
		c.grab.Resize(c.handle, p.Sub(c.anchor))
		if mods.Square() {
			c.grab.ConstrainSquare()
		}
		c.s.changed(false)
	}
}

// PointerUp handles a button release.
func (c *Controller) PointerUp(p image.Point, b Button, mods Modifiers) {
	if c.s.base == nil {
		return
	}
	switch c.state {
	case Creating:
		switch b {
		case ButtonRight:
			c.cancel()
		case ButtonLeft:
			c.PointerMove(p, mods)
			c.commit()
		}
	case Moving, Resizing:
		if b == ButtonLeft {
			c.PointerMove(p, mods)
			c.endDrag()
		}
	}
}

// PointerLeave handles the pointer leaving the canvas. A drag that exits with
// the left button held finishes at the last known position.
func (c *Controller) PointerLeave(leftHeld bool) {
	if c.s.base == nil || !leftHeld {
		return
	}
	switch c.state {
	case Creating:
		c.commit()
	case Moving, Resizing:
		c.endDrag()
	}
}

// KeyDown handles a key press. r is the typed rune for KeyRune.
func (c *Controller) KeyDown(k Key, r rune) {
	if c.s.base == nil {
		return
	}
	if c.editing != nil && c.typeKey(k, r) {
		return
	}
	switch k {
	case KeyDelete:
		if c.state == Creating {
			return
		}
		if n := c.s.store.RemoveSelected(); n > 0 {
			c.log.WithField("count", n).Debug("deleted selection")
			c.grab = nil
			c.state = Idle
			c.s.setFloating(nil)
			c.s.changed(true)
		}
	case KeyEscape:
		switch c.state {
		case Creating:
			c.cancel()
		case SelectedIdle:
			c.s.store.ClearSelection()
			c.state = Idle
			c.s.changed(false)
		}
	}
}

// typeKey edits the text annotation and reports whether k was consumed.
func (c *Controller) typeKey(k Key, r rune) bool {
	a := c.editing
	switch k {
	case KeyRune:
		if r < ' ' {
			return true
		}
		a.Text += string(r)
	case KeyBackspace:
		if a.Text == "" {
			return true
		}
		_, size := utf8.DecodeLastRuneInString(a.Text)
		a.Text = a.Text[:len(a.Text)-size]
	case KeyEnter, KeyEscape:
		c.endEditing()
		return true
	default:
		c.endEditing()
		return false
	}
	c.fitText(a)
	c.s.changed(false)
	return true
}

func (c *Controller) commit() {
	a := c.s.active
	a.Commit()
	c.s.active = nil
	c.state = SelectedIdle
	if a.Kind == annotation.Text {
		c.editing = a
		c.fitText(a)
		c.s.setFloating(a)
	}
	c.s.bakeCommitted(a)
	c.log.WithFields(logrus.Fields{"id": a.ID, "kind": a.Kind, "rect": a.Rect()}).Debug("annotation committed")
	c.s.changed(false)
}

func (c *Controller) cancel() {
	if a := c.s.active; a != nil {
		c.s.store.Remove(a.ID)
		c.log.WithFields(logrus.Fields{"id": a.ID, "kind": a.Kind}).Debug("creation cancelled")
	}
	c.s.active = nil
	c.state = Idle
	c.s.changed(false)
}

func (c *Controller) endDrag() {
	c.grab = nil
	c.handle = annotation.HandleNone
	c.state = SelectedIdle
	c.s.setFloating(nil)
	c.s.changed(false)
}

func (c *Controller) endEditing() {
	if c.editing == nil {
		return
	}
	c.editing = nil
	c.s.setFloating(nil)
	c.s.changed(false)
}

// fitText sizes a text annotation to its content, anchored at its origin.
func (c *Controller) fitText(a *annotation.Annotation) {
	w, h, _, err := render.MeasureText(a.Text, a.Style.FontSize)
	if err != nil {
		c.log.WithError(err).Warn("measure text")
		return
	}
	o := a.Origin()
	a.SetBounds(o, o.Add(image.Pt(max(w, 1), h)))
}
