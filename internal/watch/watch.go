// Package watch reruns a build whenever the dataset directory changes.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher calls OnChange once a burst of writes to .json files in Dir has
// settled for Debounce.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	OnChange func(ctx context.Context) error
}

// Run blocks until ctx is done. Errors returned by OnChange are logged and
// do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("watch: OnChange is nil")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.Dir); err != nil {
		return err
	}
	logger.Info("[Watch] Watching dataset directory", "dir", w.Dir, "debounce", debounce)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("[Watch] Change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("[Watch] Watcher error", "err", err)

		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				logger.Error("[Watch] Rebuild failed", "err", err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	return strings.HasSuffix(base, ".json") && !strings.HasPrefix(base, ".")
}
