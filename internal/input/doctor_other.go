//go:build !linux

package input

import (
	"fmt"
	"runtime"
)

// Capabilities describes what the host offers for input injection.
type Capabilities struct {
	OS string
}

// DetectCapabilities reports that only the dry-run backend is available.
func DetectCapabilities() Capabilities {
	return Capabilities{OS: runtime.GOOS}
}

// UsableBackends lists the backends that Open would accept on this host.
func (c Capabilities) UsableBackends() []string {
	return []string{BackendDryRun}
}

// Report renders the capabilities as human-readable diagnostics.
func (c Capabilities) Report() string {
	return fmt.Sprintf("Operating system:    %s\nUsable backends:     %s\n\nInput injection targets Linux; only dry-run is available here.\n",
		c.OS, BackendDryRun)
}
