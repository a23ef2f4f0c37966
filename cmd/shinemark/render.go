package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/shinemark/internal/canvas"
	"github.com/example/shinemark/internal/capture"
	"github.com/example/shinemark/internal/clipboard"
	"github.com/example/shinemark/internal/compositor"
	"github.com/example/shinemark/internal/script"
)

var errNoBase = errors.New("scene has no size and no -image was given")

// renderCmd replays a scene script headlessly.
type renderCmd struct {
	scene     string
	image     string
	output    string
	mode      string
	clipboard bool
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	c := &renderCmd{root: r, fs: fs}
	output := r.config.Output
	if output == "" {
		output = "rendered.png"
	}
	fs.StringVar(&c.image, "image", "", "base image file (defaults to a blank canvas sized by the scene)")
	fs.StringVar(&c.output, "output", output, "output PNG file")
	fs.StringVar(&c.mode, "mode", "", "tool armed before the first step")
	fs.BoolVar(&c.clipboard, "clipboard", false, "copy the result to the clipboard instead of writing a file")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.scene = fs.Arg(0)
	return c, nil
}

func (c *renderCmd) Run() error {
	scene, err := script.Load(c.scene)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	base, err := c.base(scene)
	if err != nil {
		return err
	}

	sess, err := c.newSession(c.mode)
	if err != nil {
		return err
	}
	ctrl := canvas.NewController(sess)
	ctrl.Load(base)
	if err := script.Run(ctrl, scene); err != nil {
		return fmt.Errorf("%s: %w", c.scene, err)
	}

	res, err := sess.Export(context.Background())
	if err != nil {
		return err
	}
	if c.clipboard {
		if err := clipboard.WritePNG(res.PNG); err != nil {
			return fmt.Errorf("failed to copy image: %w", err)
		}
		c.notifier.Copy("image", res.Image)
		return nil
	}
	if err := os.WriteFile(c.output, res.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	c.log.WithField("path", c.output).Info("rendered")
	c.notifier.Export(c.output)
	return nil
}

func (c *renderCmd) base(scene *script.Scene) (*compositor.BaseImage, error) {
	if c.image != "" {
		base, err := capture.FileSource{Path: c.image, DPI: scene.DPI}.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		return base, nil
	}
	base, err := scene.Blank()
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, errNoBase
	}
	return base, nil
}
