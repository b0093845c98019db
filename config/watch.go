package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/dhkin/logging"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 25 * time.Millisecond

// Watch re-reads the config file every time it changes and hands each valid config to onChange.
// Invalid configs are logged and skipped. It blocks until ctx is done.
func Watch(ctx context.Context, filePath string, logger logging.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "cannot watch config")
	}
	defer goutils.UncheckedErrorFunc(watcher.Close)

	// editors often replace the file rather than write to it, so watch the directory
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "cannot watch %q", filepath.Dir(abs))
	}

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		cfg, err := Read(filePath, logger)
		if err != nil {
			logger.Warnw("ignoring invalid config", "file", filePath, "error", err)
			return
		}
		logger.Debugw("config changed", "file", filePath)
		onChange(cfg)
	}
	debounced := debounce.New(watchDebounce)
	// drop a reload that is still pending when we return
	defer debounced(func() {})

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("config watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounced(reload)
		}
	}
}
