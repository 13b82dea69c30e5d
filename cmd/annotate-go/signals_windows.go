//go:build windows

package main

import (
	"os"

	"github.com/opd-ai/go-annotate/pkg/annotate"
)

var watchedSignals = []os.Signal{os.Interrupt}

// handleSignal stops the overlay. Windows has no reload or toggle signals.
func handleSignal(c controller, sig os.Signal, logger annotate.Logger) {
	logger.Info("shutting down", "signal", sig.String())
	if err := c.Stop(); err != nil {
		logger.Error("stop error", "error", err)
	}
}
