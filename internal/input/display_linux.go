//go:build linux

package input

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/stigoleg/keepawayk/internal/util"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// Desktop environment types.
const (
	DesktopCosmic  = "cosmic"
	DesktopGNOME   = "gnome"
	DesktopKDE     = "kde"
	DesktopXFCE    = "xfce"
	DesktopMATE    = "mate"
	DesktopUnknown = "unknown"
)

// runCommand is swapped in tests.
var runCommand = util.RunVerbose

// DetectDisplayServer detects whether running on Wayland or X11.
func DetectDisplayServer() string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	switch os.Getenv("XDG_SESSION_TYPE") {
	case DisplayServerWayland:
		return DisplayServerWayland
	case DisplayServerX11:
		return DisplayServerX11
	}
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// DetectDesktopEnvironment detects the current desktop environment.
func DetectDesktopEnvironment() string {
	desktop := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP") + ":" + os.Getenv("DESKTOP_SESSION"))

	switch {
	case strings.Contains(desktop, DesktopCosmic) || strings.Contains(desktop, "pop"):
		return DesktopCosmic
	case strings.Contains(desktop, DesktopGNOME):
		return DesktopGNOME
	case strings.Contains(desktop, DesktopKDE) || strings.Contains(desktop, "plasma"):
		return DesktopKDE
	case strings.Contains(desktop, DesktopXFCE):
		return DesktopXFCE
	case strings.Contains(desktop, DesktopMATE):
		return DesktopMATE
	default:
		return DesktopUnknown
	}
}

var xrandrCurrent = regexp.MustCompile(`current (\d+) x (\d+)`)

// ProbeScreenSize asks xdotool, then xrandr, for the primary display size.
func ProbeScreenSize() (int, int, error) {
	if util.HasCommand("xdotool") {
		if out, err := runCommand("xdotool", "getdisplaygeometry"); err == nil {
			if w, h, err := parseGeometry(out); err == nil {
				return w, h, nil
			}
		}
	}
	if util.HasCommand("xrandr") {
		if out, err := runCommand("xrandr", "--current"); err == nil {
			if m := xrandrCurrent.FindStringSubmatch(out); m != nil {
				w, _ := strconv.Atoi(m[1])
				h, _ := strconv.Atoi(m[2])
				if w > 0 && h > 0 {
					return w, h, nil
				}
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: no screen size probe succeeded", ErrUnavailable)
}

// parseGeometry parses "1920 1080".
func parseGeometry(out string) (int, int, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected geometry output %q", out)
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected geometry output %q", out)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected geometry output %q", out)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("unexpected geometry output %q", out)
	}
	return w, h, nil
}

// parseMouseLocation parses `xdotool getmouselocation --shell`.
func parseMouseLocation(out string) (Point, error) {
	var p Point
	var gotX, gotY bool
	for _, line := range strings.Split(out, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X, gotX = float64(n), true
		case "Y":
			p.Y, gotY = float64(n), true
		}
	}
	if !gotX || !gotY {
		return Point{}, fmt.Errorf("unexpected mouse location output %q", out)
	}
	return p, nil
}
