//go:build !linux

package input

import (
	"fmt"

	"go.uber.org/zap"
)

// Open only supports the dry-run backend outside Linux.
func Open(backend string, opts Options, log *zap.Logger) (Injector, error) {
	if backend != BackendDryRun {
		return nil, fmt.Errorf("%w: backend %q requires linux", ErrUnavailable, backend)
	}
	width, height := opts.ScreenWidth, opts.ScreenHeight
	if width <= 0 || height <= 0 {
		width, height = DefaultScreenWidth, DefaultScreenHeight
	}
	return NewDryRun(width, height, log), nil
}
