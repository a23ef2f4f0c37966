package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/example/shinemark/internal/plugin"
	"github.com/example/shinemark/internal/uploader"
	"github.com/example/shinemark/internal/uploader/imgur"
)

var stdout io.Writer = os.Stdout

type pluginsCmd struct {
	dir   string
	watch bool
	*root
	fs *flag.FlagSet
}

func (p *pluginsCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePluginsCmd(args []string, r *root) (*pluginsCmd, error) {
	fs := flag.NewFlagSet("plugins", flag.ContinueOnError)
	p := &pluginsCmd{root: r, fs: fs}
	fs.StringVar(&p.dir, "dir", defaultPluginDir(r), "directory holding plugin manifests")
	fs.BoolVar(&p.watch, "watch", false, "keep running and print the list whenever it changes")
	fs.Usage = usageFunc(p)
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: p}
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	return p, nil
}

func defaultPluginDir(r *root) string {
	if r.config.PluginDir != "" {
		return r.config.PluginDir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "plugins"
	}
	return filepath.Join(dir, "shinemark", "plugins")
}

func (p *pluginsCmd) Run() error {
	reg := uploader.NewRegistry()
	if err := imgur.Register(reg); err != nil {
		return err
	}
	if !p.watch {
		providers, err := uploader.Discover(context.Background(), p.dir, reg, p.log)
		if err != nil {
			return fmt.Errorf("failed to discover plugins in %s: %w", p.dir, err)
		}
		return printProviders(stdout, providers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return plugin.Watch(ctx, p.dir, reg, p.log, func(providers map[string]uploader.Provider, err error) {
		if err != nil {
			p.log.WithError(err).Warn("plugin discovery")
			return
		}
		if err := printProviders(stdout, providers); err != nil {
			p.log.WithError(err).Warn("print plugins")
		}
	})
}

func printProviders(w io.Writer, providers map[string]uploader.Provider) error {
	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPUBLISHER")
	for _, id := range ids {
		pr := providers[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, pr.Name(), pr.Publisher())
	}
	return tw.Flush()
}
