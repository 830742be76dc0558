package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const defaultWatchInterval = 30 * time.Second

// Watch loads path into h and polls it for newer revisions until ctx is done.
// A revision that fails to load leaves the previous defaults in place and is
// logged once. The returned error is from the initial load only; polling
// starts either way so a fixed file is picked up later.
func (h *DefaultsHolder) Watch(ctx context.Context, path string, interval time.Duration, logger *zerolog.Logger) error {
	if path == "" {
		path = "configs/schedule.yaml"
	}
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	w := &defaultsWatcher{path: path, holder: h, logger: logger}
	err := w.load()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.poll()
			}
		}
	}()
	return err
}

// defaultsWatcher tracks which revision of the file, by mtime, is applied
// and which one last failed.
type defaultsWatcher struct {
	path    string
	holder  *DefaultsHolder
	logger  *zerolog.Logger
	applied time.Time
	failed  time.Time
	missing bool
}

func (w *defaultsWatcher) load() error {
	info, err := os.Stat(w.path)
	if err != nil {
		return err
	}
	d, err := LoadScheduleDefaults(w.path)
	if err != nil {
		w.failed = info.ModTime()
		return err
	}
	w.applied = info.ModTime()
	w.holder.Set(d)
	w.logger.Info().Str("path", w.path).Str("defaults", d.String()).Msg("schedule defaults loaded")
	return nil
}

// poll applies the file if it changed since the last attempt and reports
// whether new defaults were applied.
func (w *defaultsWatcher) poll() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		if !w.missing {
			w.logger.Warn().Err(err).Str("path", w.path).Msg("schedule defaults unreadable, keeping previous")
		}
		w.missing = true
		return false
	}
	w.missing = false

	mod := info.ModTime()
	if !mod.After(w.applied) || mod.Equal(w.failed) {
		return false
	}
	d, err := LoadScheduleDefaults(w.path)
	if err != nil {
		w.failed = mod
		w.logger.Error().Err(err).Str("path", w.path).Msg("schedule defaults reload failed, keeping previous")
		return false
	}
	w.applied = mod
	w.holder.Set(d)
	w.logger.Info().Str("path", w.path).Str("defaults", d.String()).Msg("schedule defaults reloaded")
	return true
}
