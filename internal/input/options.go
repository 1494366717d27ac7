package input

// Backend names accepted by Open.
const (
	BackendAuto    = "auto"
	BackendUinput  = "uinput"
	BackendYdotool = "ydotool"
	BackendXdotool = "xdotool"
	BackendDryRun  = "dry-run"
)

// Screen size assumed when no display can be queried.
const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// Options tunes Open. A zero screen size means probe the display.
type Options struct {
	ScreenWidth  int
	ScreenHeight int
}

// Backends lists every backend name in preference order.
func Backends() []string {
	return []string{BackendAuto, BackendUinput, BackendYdotool, BackendXdotool, BackendDryRun}
}
