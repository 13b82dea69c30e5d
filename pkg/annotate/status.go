package annotate

import (
	"errors"
	"time"

	"github.com/opd-ai/go-annotate/internal/tool"
)

// Sentinel errors returned by Overlay methods.
var (
	// ErrAlreadyRunning is returned by Start on a running overlay.
	ErrAlreadyRunning = errors.New("overlay already running")
	// ErrNotRunning is returned by operations that need a running overlay.
	ErrNotRunning = errors.New("overlay not running")
	// ErrNoConfigSource is returned by ReloadConfig when the overlay was
	// built from an in-memory configuration.
	ErrNoConfigSource = errors.New("no configuration source to reload from")
)

// Status represents the current state of an Overlay instance.
type Status struct {
	// Running indicates if the instance is currently active.
	Running bool
	// Headless reports whether the instance runs without a window.
	Headless bool
	// StartTime is when the instance was last started (zero if never started).
	StartTime time.Time
	// Mode is the current tool mode.
	Mode tool.Mode
	// Strokes is the number of persisted strokes.
	Strokes int
	// Particles is the number of live magic pen particles.
	Particles int
	// Frames is the number of frames ticked since creation.
	Frames uint64
	// LastError is the most recent error encountered (nil if none).
	LastError error
	// LastExport is the path of the most recent export.
	LastExport string
	// ConfigSource describes the configuration source (file path or "memory").
	ConfigSource string
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously; do not block in the handler.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
type EventType int

const (
	// EventStarted is emitted when the instance starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the instance stops.
	EventStopped
	// EventConfigReloaded is emitted when configuration is reloaded.
	EventConfigReloaded
	// EventModeChanged is emitted when the tool mode changes.
	EventModeChanged
	// EventExported is emitted after a drawing was written to disk.
	EventExported
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventModeChanged:
		return "mode_changed"
	case EventExported:
		return "exported"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
