package render

// CompositorStatus represents the detected compositor state.
type CompositorStatus int

const (
	// CompositorUnknown means the compositor state could not be determined.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means a compositor is running and the overlay can be
	// transparent.
	CompositorActive
	// CompositorInactive means no compositor was found; the overlay will be
	// drawn opaque.
	CompositorInactive
)

// String returns a human-readable compositor status.
func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// transparencyWarning returns the warning to log for a compositor status,
// or an empty string when transparency will work.
func transparencyWarning(status CompositorStatus) string {
	switch status {
	case CompositorActive:
		return ""
	case CompositorInactive:
		return "no compositor detected; the overlay needs one (picom, kwin, mutter) " +
			"to be transparent and will cover the screen with an opaque background"
	default:
		return "could not detect compositor status; the overlay may be opaque " +
			"if no compositor is running"
	}
}
