package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInterval is wrapped by the ConfigurationError returned for a
	// non-positive tick interval.
	ErrInvalidInterval = errors.New("interval must be positive")
	// ErrInvalidDuration is wrapped by the ConfigurationError returned for a
	// non-positive run duration.
	ErrInvalidDuration = errors.New("duration must be positive")
)

// ConfigurationError reports a rejected setting. The previous value is kept.
type ConfigurationError struct {
	Setting string
	Value   string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %s: %v", e.Setting, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
