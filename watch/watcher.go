// Package watch reruns generation when the interface definition changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/logger"
)

// Action is run after each debounced change. Errors are logged and the
// watcher keeps going.
type Action func(ctx context.Context) error

// Watcher watches a single file. The parent directory is watched rather
// than the file so editors that save by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	action   Action
	watcher  *fsnotify.Watcher
}

// New creates a watcher for path. Call Run to start it.
func New(path string, debounce time.Duration, action Action) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	dir := filepath.Dir(abs)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		action:   action,
		watcher:  fw,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled. Actions run on this goroutine, so two
// runs never overlap; changes made during a run schedule another one.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	log := logger.Named("watch")

	// fire is nil while no run is pending
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debugw("Change detected",
				logger.FieldFile, event.Name,
				logger.FieldOp, event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			log.Infow("Regenerating", logger.FieldFile, w.path)
			if err := w.action(ctx); err != nil {
				log.Errorw("Regeneration failed", logger.FieldError, errors.Report(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
