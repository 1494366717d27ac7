//go:build linux

package input

import (
	"fmt"

	"github.com/stigoleg/keepawayk/internal/util"
	"go.uber.org/zap"
)

// Open returns the injector for backend, probing the screen size unless
// opts supplies one. BackendAuto tries uinput, ydotool and xdotool in order.
func Open(backend string, opts Options, log *zap.Logger) (Injector, error) {
	if log == nil {
		log = zap.NewNop()
	}
	width, height := opts.ScreenWidth, opts.ScreenHeight
	if width <= 0 || height <= 0 {
		w, h, err := ProbeScreenSize()
		if err != nil {
			log.Warn("screen size probe failed; using default",
				zap.Error(err), zap.Int("width", DefaultScreenWidth), zap.Int("height", DefaultScreenHeight))
			w, h = DefaultScreenWidth, DefaultScreenHeight
		}
		width, height = w, h
	}

	switch backend {
	case BackendDryRun:
		return NewDryRun(width, height, log), nil
	case BackendUinput:
		return NewUinputInjector(width, height)
	case BackendYdotool:
		if !util.HasCommand("ydotool") {
			return nil, fmt.Errorf("%w: ydotool not found in PATH", ErrUnavailable)
		}
		return NewYdotoolInjector(width, height), nil
	case BackendXdotool:
		if !util.HasCommand("xdotool") {
			return nil, fmt.Errorf("%w: xdotool not found in PATH", ErrUnavailable)
		}
		if DetectDisplayServer() != DisplayServerX11 {
			log.Warn("xdotool only drives X11 sessions", zap.String("display_server", DetectDisplayServer()))
		}
		return NewXdotoolInjector(width, height), nil
	case BackendAuto, "":
		return openAuto(width, height, log)
	default:
		return nil, fmt.Errorf("unknown input backend %q", backend)
	}
}

func openAuto(width, height int, log *zap.Logger) (Injector, error) {
	u, err := NewUinputInjector(width, height)
	if err == nil {
		return u, nil
	}
	log.Info("uinput unavailable", zap.Error(err))

	if util.HasCommand("ydotool") {
		return NewYdotoolInjector(width, height), nil
	}
	if util.HasCommand("xdotool") && DetectDisplayServer() == DisplayServerX11 {
		return NewXdotoolInjector(width, height), nil
	}
	return nil, fmt.Errorf("%w: no uinput access and neither ydotool nor xdotool usable", ErrUnavailable)
}
