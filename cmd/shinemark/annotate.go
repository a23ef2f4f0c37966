package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/shinemark/internal/canvas"
	"github.com/example/shinemark/internal/capture"
	"github.com/example/shinemark/internal/ui"
)

// sourceFor and runWindow are replaced in tests.
var (
	sourceFor = func(a *annotateCmd) capture.Source {
		if a.target == "capture" {
			return capture.ScreenSource{
				Options: capture.Options{Interactive: a.interactive, Display: a.display, IncludeCursor: a.cursor},
				DPI:     a.dpi,
			}
		}
		return capture.FileSource{Path: a.target, DPI: a.dpi}
	}
	runWindow = func(w *ui.Window) { w.Run() }
)

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	target      string
	output      string
	mode        string
	display     string
	interactive bool
	cursor      bool
	dpi         float64
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.StringVar(&a.output, "output", r.config.Output, "file written by Ctrl+S")
	fs.StringVar(&a.mode, "mode", "", "initial tool (cursor, highlight, obfuscate, rectangle, ellipse, line, arrow, text)")
	fs.StringVar(&a.display, "display", "", "crop a capture to this monitor (index, name or primary)")
	fs.BoolVar(&a.interactive, "interactive", false, "let the desktop portal ask which region to capture")
	fs.BoolVar(&a.cursor, "cursor", false, "include the pointer in captures")
	fs.Float64Var(&a.dpi, "dpi", 0, "resolution recorded for the image (default 96)")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: a}
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: a}
	}
	a.target = fs.Arg(0)
	return a, nil
}

func (a *annotateCmd) Run() error {
	base, err := sourceFor(a).Load(context.Background())
	if err != nil {
		if a.target == "capture" {
			return fmt.Errorf("failed to capture screen: %w", err)
		}
		return fmt.Errorf("failed to open image: %w", err)
	}
	sess, err := a.newSession(a.mode)
	if err != nil {
		return err
	}
	ctrl := canvas.NewController(sess)
	ctrl.Load(base)
	a.log.WithFields(logrus.Fields{"width": base.Width(), "height": base.Height(), "session": sess.ID}).Info("editing")

	runWindow(ui.New(ctrl,
		ui.WithOutput(a.output),
		ui.WithTheme(ui.ThemeByName(a.themeName)),
		ui.WithNotifier(a.notifier),
		ui.WithLogger(a.log),
	))
	return nil
}
