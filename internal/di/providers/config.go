// Package providers contains dependency injection providers for the Inkwell server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogLevel provides the mutable log level shared between the logger
// and the .env watcher.
func ProvideLogLevel(i do.Injector) (*slog.LevelVar, error) {
	cfg := do.MustInvoke[*config.Config](i)

	level := new(slog.LevelVar)
	level.Set(logger.ParseLevel(cfg.Logger.Level))
	return level, nil
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	level := do.MustInvoke[*slog.LevelVar](i)

	log := logger.New(logger.Config{
		Level:       level,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Inkwell Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"port", cfg.Server.Port,
	)

	return log, nil
}

// LevelWatcherHandle wraps the log level watcher with shutdown capability.
type LevelWatcherHandle struct {
	*config.LevelWatcher
}

// Shutdown implements do.Shutdownable.
func (h *LevelWatcherHandle) Shutdown() error {
	if h.LevelWatcher == nil {
		return nil
	}
	return h.Close()
}

// ProvideLevelWatcher starts the .env watcher so LOG_LEVEL changes apply
// without a restart. A failed watch is logged, not fatal.
func ProvideLevelWatcher(i do.Injector) (*LevelWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	level := do.MustInvoke[*slog.LevelVar](i)
	log := do.MustInvoke[*logger.Logger](i)

	watcher, err := config.WatchLogLevel(cfg.App.EnvFile, level, log.Logger)
	if err != nil {
		log.Warn("Log level watch unavailable", "file", cfg.App.EnvFile, "error", err)
		return &LevelWatcherHandle{}, nil
	}

	return &LevelWatcherHandle{LevelWatcher: watcher}, nil
}
