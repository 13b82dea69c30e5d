//go:build linux

package render

import (
	"os"
	"os/exec"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// knownCompositors are process names checked when the X11 selection
// lookup is inconclusive.
var knownCompositors = []string{
	"picom",
	"compton",
	"compiz",
	"mutter",
	"kwin",
	"kwin_x11",
	"kwin_wayland",
	"xfwm4",
	"marco",
	"muffin",
}

// DetectCompositor reports whether an X11 compositor is running. It first
// checks the owner of the _NET_WM_CM_S0 selection and falls back to
// looking for known compositor processes.
func DetectCompositor() CompositorStatus {
	if status := detectCompositorAtom(); status != CompositorUnknown {
		return status
	}
	return detectCompositorProcess()
}

func detectCompositorAtom() CompositorStatus {
	conn, err := xgb.NewConn()
	if err != nil {
		return CompositorUnknown
	}
	defer conn.Close()

	if len(xproto.Setup(conn).Roots) == 0 {
		return CompositorUnknown
	}

	const atomName = "_NET_WM_CM_S0"
	atomReply, err := xproto.InternAtom(conn, false, uint16(len(atomName)), atomName).Reply()
	if err != nil || atomReply == nil {
		return CompositorUnknown
	}

	owner, err := xproto.GetSelectionOwner(conn, atomReply.Atom).Reply()
	if err != nil {
		return CompositorUnknown
	}
	if owner.Owner != xproto.WindowNone {
		return CompositorActive
	}
	return CompositorInactive
}

func detectCompositorProcess() CompositorStatus {
	for _, name := range knownCompositors {
		if err := exec.Command("pgrep", "-x", name).Run(); err == nil {
			return CompositorActive
		}
	}
	return CompositorInactive
}

// IsWayland reports whether the session runs on Wayland, where a
// compositor is always present.
func IsWayland() bool {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// CheckTransparencySupport returns a warning if a transparent overlay was
// requested but may not be possible, or an empty string otherwise.
func CheckTransparencySupport(transparent bool) string {
	if !transparent || IsWayland() {
		return ""
	}
	return transparencyWarning(DetectCompositor())
}
