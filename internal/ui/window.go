// Package ui is the interactive editor window. It translates shiny input
// events into canvas controller calls and paints the live preview.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/shinemark/internal/canvas"
	"github.com/example/shinemark/internal/clipboard"
	"github.com/example/shinemark/internal/notify"
)

const messageDuration = 3 * time.Second

// Window hosts one canvas session.
type Window struct {
	ctrl     *canvas.Controller
	log      logrus.FieldLogger
	output   string
	theme    *Theme
	notifier *notify.Notifier
	onClose  func()
}

// Option configures a Window.
type Option func(*Window)

// WithOutput sets the file Ctrl+S writes to.
func WithOutput(path string) Option { return func(w *Window) { w.output = path } }

// WithTheme sets the chrome colours.
func WithTheme(t *Theme) Option { return func(w *Window) { w.theme = t } }

// WithNotifier announces exports and copies.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option { return func(w *Window) { w.log = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(w *Window) { w.onClose = fn } }

// New returns a window driving ctrl. The controller should already hold an
// image.
func New(ctrl *canvas.Controller, opts ...Option) *Window {
	w := &Window{ctrl: ctrl, log: logrus.StandardLogger(), theme: DefaultTheme()}
	for _, o := range opts {
		o(w)
	}
	return w
}

// exportDone is sent back to the event loop when a background export ends.
type exportDone struct {
	path   string
	copied bool
	err    error
}

// Run executes the UI loop using shiny's driver.
func (w *Window) Run() { driver.Main(w.Main) }

// Main runs the event loop on s until the window closes.
func (w *Window) Main(s screen.Screen) {
	sess := w.ctrl.Session()
	base := sess.Base()
	if base == nil {
		w.log.Error("no image loaded")
		return
	}
	tb := newToolbar()
	width := base.Width() + tb.width
	height := base.Height() + statusHeight

	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Shinemark"})
	if err != nil {
		w.log.WithError(err).Error("new window")
		return
	}
	defer win.Release()
	defer func() {
		if w.onClose != nil {
			w.onClose()
		}
	}()

	repaint := func() { win.Send(paint.Event{}) }
	sess.AddObserver(canvas.ObserverFuncs{
		OnImageLoaded:  func(*canvas.Session) { repaint() },
		OnStoreChanged: func(*canvas.Session) { repaint() },
		OnModeChanged:  func(canvas.Mode) { repaint() },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		v            = fitView(base.Bounds(), tb.width, width, height)
		preview      *image.RGBA
		leftHeld     bool
		message      string
		messageUntil time.Time
	)
	say := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(messageDuration)
		w.log.Info(msg)
	}

	actions := map[string]func() bool{
		actionExport: func() bool { w.export(ctx, win, false); return true },
		actionCopy:   func() bool { w.export(ctx, win, true); return true },
		actionPaste: func() bool {
			img, err := clipboard.ReadImage()
			if err != nil {
				say(fmt.Sprintf("paste: %v", err))
				return true
			}
			sess.SetOverlay(img)
			if err := w.ctrl.SetMode(canvas.ModeImageOverlay); err != nil {
				w.log.WithError(err).Warn("overlay mode")
			}
			say("drag to place the pasted image")
			return true
		},
		actionQuit: func() bool { return false },
	}

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}

		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			v = fitView(sess.Base().Bounds(), tb.width, width, height)
			repaint()

		case paint.Event:
			if preview == nil || preview.Bounds() != sess.Base().Bounds() {
				preview = image.NewRGBA(sess.Base().Bounds())
			}
			sess.RenderPreview(preview)
			if !time.Now().Before(messageUntil) {
				message = ""
			}
			w.paint(s, win, image.Pt(width, height), tb, v, preview, statusLine(sess.Mode(), w.ctrl.State(), message))

		case exportDone:
			switch {
			case e.err != nil:
				say(fmt.Sprintf("export failed: %v", e.err))
			case e.copied:
				say("copied to clipboard")
			default:
				say("saved " + e.path)
			}
			repaint()

		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			dragging := w.ctrl.State() == canvas.Creating || w.ctrl.State() == canvas.Moving || w.ctrl.State() == canvas.Resizing
			if !p.In(image.Rect(0, 0, width, height)) {
				if leftHeld && e.Direction == mouse.DirNone {
					w.ctrl.PointerLeave(true)
					leftHeld = false
				}
				continue
			}
			if p.X < tb.width && !dragging {
				hover := tb.at(p)
				if hover != tb.hover {
					tb.hover = hover
					repaint()
				}
				if hover >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					if err := w.ctrl.SetMode(tb.buttons[hover].mode); err != nil {
						w.log.WithError(err).Warn("select mode")
					}
				}
				continue
			}
			cp := v.toCanvas(p)
			mods := translateModifiers(e.Modifiers)
			switch e.Direction {
			case mouse.DirPress:
				if b, ok := translateButton(e.Button); ok {
					leftHeld = leftHeld || b == canvas.ButtonLeft
					w.ctrl.PointerDown(cp, b, mods)
				}
			case mouse.DirRelease:
				if b, ok := translateButton(e.Button); ok {
					if b == canvas.ButtonLeft {
						leftHeld = false
					}
					w.ctrl.PointerUp(cp, b, mods)
				}
			case mouse.DirNone:
				w.ctrl.PointerMove(cp, mods)
			}

		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if action, ok := shortcutAction(e); ok {
				if !actions[action]() {
					return
				}
				continue
			}
			if w.ctrl.Editing() == nil {
				if m, ok := modeForKey(e); ok {
					if err := w.ctrl.SetMode(m); err != nil {
						w.log.WithError(err).Warn("select mode")
					}
					continue
				}
			}
			if k, r := translateKey(e); k != canvas.KeyNone {
				w.ctrl.KeyDown(k, r)
			}

		case error:
			w.log.WithError(e).Warn("window event")
		}
	}
}

func (w *Window) paint(s screen.Screen, win screen.Window, sz image.Point, tb *toolbar, v view, preview *image.RGBA, status string) {
	b, err := s.NewBuffer(sz)
	if err != nil {
		w.log.WithError(err).Warn("new buffer")
		return
	}
	defer b.Release()
	dst := b.RGBA()

	drawCheckerboard(dst, dst.Bounds(), 8, w.theme.CheckerLight, w.theme.CheckerDark)
	r := v.rect(preview.Bounds())
	if v.zoom == 1 {
		draw.Draw(dst, r, preview, image.Point{}, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, r, preview, preview.Bounds(), draw.Src, nil)
	}
	tb.draw(dst, w.theme, w.ctrl.Session().Mode())
	drawStatus(dst, w.theme, tb.width, status)

	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}

// export flattens on another goroutine and reports back with exportDone.
func (w *Window) export(ctx context.Context, win screen.Window, toClipboard bool) {
	path := w.output
	if path == "" && !toClipboard {
		path = fmt.Sprintf("shinemark-%s.png", time.Now().Format("20060102-150405"))
	}
	ch := w.ctrl.Session().ExportAsync(ctx)
	go func() {
		res := <-ch
		done := exportDone{path: path, copied: toClipboard, err: res.Err}
		if res.Err == nil {
			if toClipboard {
				done.err = clipboard.WritePNG(res.PNG)
				if done.err == nil {
					w.notifier.Copy("image", res.Image)
				}
			} else {
				done.err = os.WriteFile(path, res.PNG, 0o644)
				if done.err == nil {
					w.notifier.Export(path)
				}
			}
		}
		win.Send(done)
	}()
}
