package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// LevelWatcher watches the .env file and applies LOG_LEVEL changes to a
// slog.LevelVar without a restart. Other keys are intentionally ignored;
// everything else requires a restart to take effect.
type LevelWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchLogLevel starts watching envFile for changes and updates level when
// LOG_LEVEL changes. Returns an error if the watch cannot be established;
// a missing file is not an error (the watch covers the parent directory so
// a later creation is picked up).
func WatchLogLevel(envFile string, level *slog.LevelVar, logger *slog.Logger) (*LevelWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files on save,
	// which drops a direct file watch.
	dir := filepath.Dir(envFile)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	lw := &LevelWatcher{
		watcher: w,
		done:    make(chan struct{}),
	}

	target := filepath.Clean(envFile)
	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if lvl, ok := readLogLevel(target); ok {
					old := level.Level()
					if lvl != old {
						level.Set(lvl)
						logger.Info("log level changed", "old", old, "new", lvl)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error", "error", err)
			case <-lw.done:
				return
			}
		}
	}()

	return lw, nil
}

// Close stops the watcher.
func (lw *LevelWatcher) Close() error {
	close(lw.done)
	return lw.watcher.Close()
}

// readLogLevel extracts LOG_LEVEL from an env file.
func readLogLevel(path string) (slog.Level, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found || strings.TrimSpace(key) != "LOG_LEVEL" {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		switch strings.ToLower(value) {
		case "debug":
			return slog.LevelDebug, true
		case "info":
			return slog.LevelInfo, true
		case "warn", "warning":
			return slog.LevelWarn, true
		case "error":
			return slog.LevelError, true
		}
	}
	return 0, false
}
