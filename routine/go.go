package routine

import (
	"log/slog"
)

// WithRecovery runs fn, logging any panic instead of crashing the caller.
// cleanup, if non-nil, runs after a panic was recovered.
func WithRecovery(logger *slog.Logger, fn, cleanup func()) {
	defer func() {
		if cause := recover(); cause != nil {
			logError(logger, cause)
			if cleanup != nil {
				cleanup()
			}
		}
	}()

	fn()
}

// GoWithRecovery runs fn on a new goroutine with recovery.
func GoWithRecovery(logger *slog.Logger, fn, cleanup func()) {
	go WithRecovery(logger, fn, cleanup)
}

// Go runs fn on a new goroutine, recovering and logging any panic.
func Go(logger *slog.Logger, fn func()) {
	GoWithRecovery(logger, fn, nil)
}

func logError(logger *slog.Logger, cause any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("panic recovered", slog.Any("cause", cause))
}
