package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCleanupTimeout is returned when teardown outlives the manager's timeout.
var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// CleanupManager runs registered teardown steps once, in registration order,
// bounded by a timeout.
type CleanupManager struct {
	mu      sync.Mutex
	steps   []cleanupStep
	timeout time.Duration
	log     *zap.Logger
	once    sync.Once
	err     error
}

type cleanupStep struct {
	name string
	fn   func() error
}

// NewCleanupManager returns a manager that gives up after timeout (5s when
// non-positive).
func NewCleanupManager(timeout time.Duration, log *zap.Logger) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupManager{timeout: timeout, log: log}
}

// Register adds a named teardown step.
func (cm *CleanupManager) Register(name string, fn func() error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.steps = append(cm.steps, cleanupStep{name: name, fn: fn})
}

// Execute runs every step. Later calls return the first call's result.
func (cm *CleanupManager) Execute() error {
	cm.once.Do(func() {
		cm.err = cm.run()
	})
	return cm.err
}

func (cm *CleanupManager) run() error {
	cm.mu.Lock()
	steps := make([]cleanupStep, len(cm.steps))
	copy(steps, cm.steps)
	cm.mu.Unlock()

	if len(steps) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, step := range steps {
			err := runStep(step)
			mu.Lock()
			if err != nil {
				errs = append(errs, err)
				cm.log.Warn("cleanup failed", zap.String("resource", step.name), zap.Error(err))
			} else {
				cm.log.Debug("cleaned up", zap.String("resource", step.name))
			}
			mu.Unlock()
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		cm.log.Warn("cleanup timed out; some resources may not have been released", zap.Duration("timeout", cm.timeout))
		mu.Lock()
		errs = append(errs, ErrCleanupTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}

func runStep(step cleanupStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic during cleanup: %v", step.name, r)
		}
	}()
	if err := step.fn(); err != nil {
		return fmt.Errorf("%s: %w", step.name, err)
	}
	return nil
}
