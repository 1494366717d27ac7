package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRunsInOrder(t *testing.T) {
	cm := NewCleanupManager(time.Second, nil)
	var order []string
	cm.Register("scheduler", func() error { order = append(order, "scheduler"); return nil })
	cm.Register("injector", func() error { order = append(order, "injector"); return nil })

	require.NoError(t, cm.Execute())
	assert.Equal(t, []string{"scheduler", "injector"}, order)

	require.NoError(t, cm.Execute())
	assert.Len(t, order, 2, "second Execute is a no-op")
}

func TestCleanupCollectsErrors(t *testing.T) {
	cm := NewCleanupManager(time.Second, nil)
	boom := errors.New("boom")
	ran := false
	cm.Register("failing", func() error { return boom })
	cm.Register("panicking", func() error { panic("oops") })
	cm.Register("fine", func() error { ran = true; return nil })

	err := cm.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failing: boom")
	assert.ErrorContains(t, err, "panicking: panic during cleanup")
	assert.True(t, ran, "later steps still run")
}

func TestCleanupTimeout(t *testing.T) {
	cm := NewCleanupManager(50*time.Millisecond, nil)
	release := make(chan struct{})
	cm.Register("stuck", func() error { <-release; return nil })

	err := cm.Execute()
	close(release)
	assert.ErrorIs(t, err, ErrCleanupTimeout)
}

func TestCleanupEmpty(t *testing.T) {
	assert.NoError(t, NewCleanupManager(0, nil).Execute())
}

func TestCleanupStopsScheduler(t *testing.T) {
	s, _, _ := newTestScheduler(t, Options{})
	s.Start()

	cm := NewCleanupManager(time.Second, nil)
	cm.Register("scheduler", s.Close)
	require.NoError(t, cm.Execute())
	assert.False(t, s.IsRunning())
}
