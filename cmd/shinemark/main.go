package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/example/shinemark/internal/annotation"
	"github.com/example/shinemark/internal/canvas"
	"github.com/example/shinemark/internal/config"
	"github.com/example/shinemark/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs        *flag.FlagSet
	program   string
	log       *logrus.Logger
	notifier  *notify.Notifier
	config    *config.Config
	logLevel  string
	themeName string

	exportAlerts bool
	copyAlerts   bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if version == "dev" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warn("read .env")
		}
	}

	cfg, err := config.NewLoader(version, configPathOverride).Load()
	if err != nil {
		log.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.New()
	}

	r := &root{
		fs:      flag.NewFlagSet("shinemark", flag.ContinueOnError),
		program: "shinemark",
		log:     log,
		config:  cfg,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	r.fs.StringVar(&r.themeName, "theme", "light", "window theme (light, dark)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	c := *r
	c.program = program
	c.fs = nil
	return &c
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	level, err := logrus.ParseLevel(r.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	r.log.SetLevel(level)
	r.notifier = notify.FromConfig(config.Notify{Export: r.exportAlerts, Copy: r.copyAlerts}, r.log)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r.subcommand(cmdName))
	case "render":
		cmd, err = parseRenderCmd(subArgs, r.subcommand(cmdName))
	case "plugins":
		cmd, err = parsePluginsCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd = &versionCmd{root: r.subcommand(cmdName)}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// newSession builds a session styled and armed from the configuration.
func (r *root) newSession(mode string) (*canvas.Session, error) {
	if mode == "" {
		mode = r.config.Mode
	}
	m, err := canvas.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	opts := []canvas.Option{canvas.WithLogger(r.log), canvas.WithMode(m)}
	for _, k := range annotation.Kinds() {
		opts = append(opts, canvas.WithStyle(k, r.config.StyleFor(k)))
	}
	return canvas.NewSession(opts...), nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
