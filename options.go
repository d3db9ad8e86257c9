package futures

import (
	"log/slog"
	"math"
	"time"
)

// InfiniteTimeout disables timeout accounting for a promise.
const InfiniteTimeout = time.Duration(math.MaxInt64)

type PromiseOption func(opts *promiseOptions)

type promiseOptions struct {
	ExecutionContext ExecutionContext
	Timer            Timer
	Timeout          time.Duration
	Classifier       Classifier
	Logger           *slog.Logger
}

var _DefaultPromiseOptions = promiseOptions{
	Timeout:    InfiniteTimeout,
	Classifier: DefaultClassifier,
}

// WithExecutionContext sets the context callbacks are dispatched to.
// Defaults to a goroutine-per-callback context.
func WithExecutionContext(ec ExecutionContext) PromiseOption {
	return func(opts *promiseOptions) {
		opts.ExecutionContext = ec
	}
}

// WithTimer sets the collaborator that delivers the timeout completion.
// Without a timer the timeout only bounds Block.
func WithTimer(t Timer) PromiseOption {
	return func(opts *promiseOptions) {
		opts.Timer = t
	}
}

// WithTimeout bounds how long the promise may stay pending.
func WithTimeout(d time.Duration) PromiseOption {
	return func(opts *promiseOptions) {
		if d <= 0 {
			d = InfiniteTimeout
		}
		opts.Timeout = d
	}
}

func WithClassifier(c Classifier) PromiseOption {
	return func(opts *promiseOptions) {
		opts.Classifier = c
	}
}

func WithLogger(logger *slog.Logger) PromiseOption {
	return func(opts *promiseOptions) {
		opts.Logger = logger
	}
}
