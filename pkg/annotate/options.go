package annotate

import (
	"time"

	"github.com/opd-ai/go-annotate/internal/config"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
// This can be overridden via Options.ShutdownTimeout.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures the Overlay instance behavior.
type Options struct {
	// Headless runs the annotation core without a window. Pointer input
	// and ticks are then driven through the Overlay methods.
	Headless bool

	// Logger receives lifecycle and activity messages.
	// If nil, NopLogger() is used.
	Logger Logger

	// Metrics sets a custom metrics collector.
	// If nil, a fresh collector is created for the instance.
	Metrics *Metrics

	// WatchConfig reloads the configuration when its file changes on disk.
	// It has no effect for configurations that were not loaded from a file.
	WatchConfig bool

	// ConfigDebounce sets the delay between a file change and the reload.
	// Zero means config.DefaultDebounce.
	ConfigDebounce time.Duration

	// Seed overrides the configured particle seed when non-zero.
	Seed uint64

	// ShutdownTimeout sets the maximum time Stop waits for the render loop.
	// Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		ConfigDebounce: config.DefaultDebounce,
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
