//go:build !linux

package hotkey

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Listener is inert outside Linux.
type Listener struct {
	manager *Manager
	log     *zap.Logger
}

// NewListener returns a listener whose Run always fails.
func NewListener(m *Manager, log *zap.Logger, _ ...string) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{manager: m, log: log}
}

// Run reports that global hotkeys are unsupported here.
func (l *Listener) Run(ctx context.Context) error {
	return fmt.Errorf("%w on %s", ErrUnavailable, runtime.GOOS)
}

// FindKeyboards finds nothing outside Linux.
func FindKeyboards() []string { return nil }
