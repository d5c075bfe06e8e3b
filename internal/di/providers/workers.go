package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// SessionCleanupJob periodically removes expired sessions.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the background session pruner.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(sessionPruneInterval)
		defer ticker.Stop()

		// Prune once at startup, then on the interval.
		if err := sessionService.PruneExpired(ctx); err != nil {
			log.Warn("Session prune failed", "error", err)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sessionService.PruneExpired(ctx); err != nil {
					log.Warn("Session prune failed", "error", err)
				}
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", sessionPruneInterval)

	return &SessionCleanupJob{cancel: cancel}, nil
}
