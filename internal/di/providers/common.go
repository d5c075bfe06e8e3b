package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// sessionPruneInterval controls how often expired sessions are removed.
	sessionPruneInterval = time.Hour
)
