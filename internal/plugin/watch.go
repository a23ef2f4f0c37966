package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// WatchDebounce coalesces bursts of manifest edits into one rediscovery.
var WatchDebounce = 100 * time.Millisecond

// Watch rediscovers dir whenever a manifest in it is created, written,
// renamed or removed, and passes each result to fn. It blocks until ctx is
// done. dir must exist.
func Watch[T any](ctx context.Context, dir string, reg *Registry[T], log logrus.FieldLogger, fn func(map[string]T, error)) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	reload := make(chan struct{}, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ManifestExt) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(WatchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			found, err := Discover(ctx, dir, reg, log)
			if ctx.Err() != nil {
				return nil
			}
			fn(found, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).WithField("dir", dir).Warn("plugin watcher error")
		}
	}
}
