package annotate

import (
	"fmt"
	"time"

	"github.com/opd-ai/go-annotate/internal/canvas"
	"github.com/opd-ai/go-annotate/internal/profiling"
)

// HealthStatus is the health of the overlay or one of its components.
type HealthStatus string

const (
	HealthOK        HealthStatus = "ok"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// severity orders statuses from best to worst.
func (s HealthStatus) severity() int {
	switch s {
	case HealthOK:
		return 0
	case HealthDegraded:
		return 1
	default:
		return 2
	}
}

// HealthCheck is a point-in-time report on the overlay. Components are
// keyed "instance", "canvas", "memory", "errors" and, when exports capture
// the screen, "capture". Status is the worst component status.
type HealthCheck struct {
	Status     HealthStatus
	Timestamp  time.Time
	Uptime     time.Duration // zero when not running
	Components map[string]ComponentHealth
	Message    string
}

// ComponentHealth is the state of one part of the overlay.
type ComponentHealth struct {
	Status      HealthStatus
	Message     string
	LastUpdated time.Time
}

func (h HealthCheck) IsHealthy() bool   { return h.Status == HealthOK }
func (h HealthCheck) IsDegraded() bool  { return h.Status == HealthDegraded }
func (h HealthCheck) IsUnhealthy() bool { return h.Status == HealthUnhealthy }

// worst returns the more severe of a and b.
func worst(a, b HealthStatus) HealthStatus {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

func instanceHealth(running bool) ComponentHealth {
	if running {
		return ComponentHealth{Status: HealthOK, Message: "Instance is running"}
	}
	return ComponentHealth{Status: HealthUnhealthy, Message: "Instance is not running"}
}

func canvasHealth(s canvas.Stats) ComponentHealth {
	return ComponentHealth{
		Status:  HealthOK,
		Message: fmt.Sprintf("%d strokes, %d particles, %d frames", s.Strokes, s.Particles, s.Frames),
	}
}

// memoryHealth degrades when the watch flags sustained heap or goroutine
// growth.
func memoryHealth(g profiling.Growth, sampled bool) ComponentHealth {
	switch {
	case !sampled:
		return ComponentHealth{Status: HealthOK, Message: "Collecting samples"}
	case g.Suspect:
		return ComponentHealth{Status: HealthDegraded, Message: g.Reason}
	default:
		return ComponentHealth{Status: HealthOK, Message: g.String()}
	}
}

// captureHealth degrades whenever the capture breaker is not closed.
func captureHealth(state CircuitState, lastErr error) ComponentHealth {
	if state == CircuitClosed {
		return ComponentHealth{Status: HealthOK, Message: "Screen capture available"}
	}
	msg := "Screen capture circuit " + state.String()
	if lastErr != nil {
		msg += ": " + lastErr.Error()
	}
	return ComponentHealth{Status: HealthDegraded, Message: msg}
}

func errorsHealth(lastErr error) ComponentHealth {
	if lastErr != nil {
		return ComponentHealth{Status: HealthDegraded, Message: lastErr.Error()}
	}
	return ComponentHealth{Status: HealthOK, Message: "No recent errors"}
}

// summarize stamps every component with now and derives the overall status
// and message.
func summarize(running bool, lastErr error, components map[string]ComponentHealth, now time.Time) (HealthStatus, string) {
	overall := HealthOK
	for name, c := range components {
		c.LastUpdated = now
		components[name] = c
		overall = worst(overall, c.Status)
	}
	switch {
	case !running:
		return overall, "Instance is not running"
	case lastErr != nil:
		return overall, "Running with recent errors"
	case overall != HealthOK:
		return overall, "Running with degraded components"
	default:
		return overall, "All components healthy"
	}
}
