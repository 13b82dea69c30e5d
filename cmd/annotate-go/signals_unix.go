//go:build !windows

package main

import (
	"os"
	"syscall"

	"github.com/opd-ai/go-annotate/pkg/annotate"
)

// watchedSignals are the signals runOverlay subscribes to.
var watchedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2}

// handleSignal maps process signals onto the overlay:
// SIGHUP reloads the configuration, SIGUSR1 toggles cursor and pen mode,
// SIGUSR2 exports a PNG, anything else stops the overlay.
func handleSignal(c controller, sig os.Signal, logger annotate.Logger) {
	switch sig {
	case syscall.SIGHUP:
		logger.Info("received SIGHUP, reloading configuration")
		if err := c.ReloadConfig(); err != nil {
			logger.Error("reload failed", "error", err)
		}
	case syscall.SIGUSR1:
		logger.Info("received SIGUSR1, switching mode", "mode", toggleMode(c))
	case syscall.SIGUSR2:
		if _, err := c.Export(annotate.FormatPNG); err != nil {
			logger.Error("export failed", "error", err)
		}
	default:
		logger.Info("shutting down", "signal", sig.String())
		if err := c.Stop(); err != nil {
			logger.Error("stop error", "error", err)
		}
	}
}
