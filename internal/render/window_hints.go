package render

// WindowHints lists the EWMH window state hints requested for the overlay.
type WindowHints struct {
	SkipTaskbar bool
	SkipPager   bool
	Above       bool
	Sticky      bool
}

// HintsFor derives the window hints from the overlay configuration.
func HintsFor(cfg Config) WindowHints {
	return WindowHints{
		SkipTaskbar: cfg.SkipTaskbar,
		SkipPager:   cfg.SkipTaskbar,
		Above:       cfg.AlwaysOnTop,
		Sticky:      cfg.AlwaysOnTop,
	}
}

func (h WindowHints) stateAtomNames() []string {
	var names []string
	if h.SkipTaskbar {
		names = append(names, "_NET_WM_STATE_SKIP_TASKBAR")
	}
	if h.SkipPager {
		names = append(names, "_NET_WM_STATE_SKIP_PAGER")
	}
	if h.Above {
		names = append(names, "_NET_WM_STATE_ABOVE")
	}
	if h.Sticky {
		names = append(names, "_NET_WM_STATE_STICKY")
	}
	return names
}
