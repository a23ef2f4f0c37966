package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicateIdentity is logged when two manifests resolve to the same key.
var ErrDuplicateIdentity = errors.New("duplicate plugin identity")

// Discover scans dir for manifests declaring the registry's capability and
// builds one instance per manifest, keyed by Manifest.Identity.
//
// A missing directory, or one without qualifying manifests, yields a nil map
// and no error. Manifests are parsed and instantiated concurrently but
// accepted in lexical path order, so when two share an identity the first
// path always wins and the later one is skipped with a warning.
func Discover[T any](ctx context.Context, dir string, reg *Registry[T], log logrus.FieldLogger) (map[string]T, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{"dir": dir, "capability": reg.Capability()})

	paths, err := manifestPaths(dir)
	if err != nil || len(paths) == 0 {
		return nil, err
	}

	manifests := make([]*Manifest, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := ReadManifest(p)
			if err != nil {
				log.WithError(err).Warn("skipping manifest")
				return nil
			}
			manifests[i] = &m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[string]string{}
	var accepted []Manifest
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if m.Capability != reg.Capability() {
			log.WithField("manifest", m.Path).Debug("capability mismatch")
			continue
		}
		id := m.Identity()
		if first, dup := seen[id]; dup {
			log.WithFields(logrus.Fields{"identity": id, "manifest": m.Path, "kept": first}).
				WithError(ErrDuplicateIdentity).Warn("skipping duplicate plugin")
			continue
		}
		seen[id] = m.Path
		accepted = append(accepted, *m)
	}

	instances := make([]T, len(accepted))
	ok := make([]bool, len(accepted))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range accepted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inst, err := reg.build(m)
			if err != nil {
				log.WithError(err).WithField("manifest", m.Path).Warn("cannot instantiate plugin")
				return nil
			}
			instances[i], ok[i] = inst, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out map[string]T
	for i, m := range accepted {
		if !ok[i] {
			continue
		}
		if out == nil {
			out = map[string]T{}
		}
		out[m.Identity()] = instances[i]
		log.WithFields(logrus.Fields{"identity": m.Identity(), "kind": m.Kind}).Debug("plugin loaded")
	}
	return out, nil
}

func manifestPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan plugins: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ManifestExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}
