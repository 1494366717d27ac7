package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stigoleg/keepawayk/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestCatalog(rec *input.Recorder, rnd Rand) (*Catalog, *[]time.Duration) {
	c := NewCatalog(rec, rnd, nil)
	var slept []time.Duration
	c.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return c, &slept
}

func TestTrajectory(t *testing.T) {
	from := input.Point{X: 10, Y: 20}
	to := input.Point{X: 1013, Y: 517}

	pts := Trajectory(from, to, 100)
	require.Len(t, pts, 101)
	assert.Equal(t, from, pts[0])
	assert.Equal(t, to, pts[100])

	want := make([]input.Point, 101)
	for i := range want {
		f := float64(i) / 100
		want[i] = input.Point{X: from.X + (to.X-from.X)*f, Y: from.Y + (to.Y-from.Y)*f}
	}
	if diff := cmp.Diff(want, pts, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("trajectory mismatch (-want +got):\n%s", diff)
	}
}

func TestTrajectoryDegenerate(t *testing.T) {
	p := input.Point{X: 5, Y: 5}
	assert.Equal(t, []input.Point{p}, Trajectory(input.Point{}, p, 0))
	assert.Len(t, Trajectory(p, p, 3), 4)
}

func TestExecutePointerMove(t *testing.T) {
	rec := input.NewRecorder(800, 600, nil)
	rec.SetCursor(input.Point{X: 100, Y: 200})
	c, slept := newTestCatalog(rec, &seqRand{vals: []int{400, 300}})

	require.NoError(t, c.Execute(context.Background(), PointerMove))

	events := rec.Events()
	require.Len(t, events, 101)
	assert.Equal(t, input.Point{X: 100, Y: 200}, events[0].Point)
	assert.Equal(t, input.Point{X: 400, Y: 300}, events[100].Point)
	assert.Equal(t, 101, rec.Count(input.EventMove))

	assert.Len(t, *slept, 100)
	assert.Equal(t, DefaultStepDelay, (*slept)[0])
}

func TestExecutePointerMoveStaysOnScreen(t *testing.T) {
	rec := input.NewRecorder(640, 480, nil)
	c, _ := newTestCatalog(rec, NewRand(11))
	c.Steps = 1
	for i := 0; i < 200; i++ {
		require.NoError(t, c.Execute(context.Background(), PointerMove))
		p, _ := rec.Cursor()
		require.GreaterOrEqual(t, p.X, 0.0)
		require.Less(t, p.X, 640.0)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.Less(t, p.Y, 480.0)
	}
}

func TestExecutePointerMoveDegraded(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := input.NewRecorder(800, 600, nil)
	rec.ScreenErr = input.ErrUnavailable
	rec.CursorErr = input.ErrUnavailable

	var bounds []int
	rnd := &boundsRand{seen: &bounds}
	c := NewCatalog(rec, rnd, zap.New(core))
	c.Sleep = func(context.Context, time.Duration) error { return nil }
	c.Steps = 4

	require.NoError(t, c.Execute(context.Background(), PointerMove))
	require.NoError(t, c.Execute(context.Background(), PointerMove))

	assert.Equal(t, []int{1920, 1080, 1920, 1080}, bounds, "falls back to 1920x1080")
	events := rec.Events()
	require.Len(t, events, 10)
	assert.Equal(t, input.Point{}, events[0].Point, "starts from the origin")

	// throttled: only the first degraded warning of each minute is logged
	assert.Equal(t, 1, logs.Len())
}

type boundsRand struct{ seen *[]int }

func (b *boundsRand) IntN(n int) int {
	*b.seen = append(*b.seen, n)
	return n / 2
}

func TestExecutePointerMoveCancelled(t *testing.T) {
	rec := input.NewRecorder(800, 600, nil)
	c, _ := newTestCatalog(rec, NewRand(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Execute(ctx, PointerMove)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rec.Count(input.EventMove))
}

func TestExecuteClicks(t *testing.T) {
	rec := input.NewRecorder(800, 600, nil)
	rec.SetCursor(input.Point{X: 7, Y: 8})
	c, _ := newTestCatalog(rec, NewRand(1))

	require.NoError(t, c.Execute(context.Background(), LeftClick))
	require.NoError(t, c.Execute(context.Background(), RightClick))

	assert.Equal(t, []input.Event{
		{Kind: input.EventButton, Point: input.Point{X: 7, Y: 8}, Button: input.ButtonLeft, Pressed: true},
		{Kind: input.EventButton, Point: input.Point{X: 7, Y: 8}, Button: input.ButtonLeft},
		{Kind: input.EventButton, Point: input.Point{X: 7, Y: 8}, Button: input.ButtonRight, Pressed: true},
		{Kind: input.EventButton, Point: input.Point{X: 7, Y: 8}, Button: input.ButtonRight},
	}, rec.Events())
	assert.Zero(t, rec.Count(input.EventMove), "clicks never move the pointer")
}

func TestExecuteKeyPress(t *testing.T) {
	rec := input.NewRecorder(800, 600, nil)
	// index 1 of the default alphabet is 'b'
	c, _ := newTestCatalog(rec, &seqRand{vals: []int{1}})

	require.NoError(t, c.Execute(context.Background(), KeyPress))

	code, _ := input.KeyForChar('b')
	assert.Equal(t, []input.Event{
		{Kind: input.EventKey, Key: code, Pressed: true},
		{Kind: input.EventKey, Key: code},
	}, rec.Events())
}

func TestExecuteKeyPressCoversAlphabet(t *testing.T) {
	rec := input.NewRecorder(800, 600, nil)
	c, _ := newTestCatalog(rec, NewRand(5))
	seen := map[input.KeyCode]bool{}
	for i := 0; i < 2000; i++ {
		require.NoError(t, c.Execute(context.Background(), KeyPress))
	}
	for _, ev := range rec.Events() {
		seen[ev.Key] = true
	}
	assert.Len(t, seen, len(DefaultAlphabet))
}

type failingInjector struct {
	*input.Recorder
}

func (failingInjector) Button(input.Button, bool) error { return errors.New("device gone") }

func TestExecuteInjectionError(t *testing.T) {
	c := NewCatalog(failingInjector{input.NewRecorder(10, 10, nil)}, NewRand(1), nil)
	err := c.Execute(context.Background(), LeftClick)
	assert.ErrorContains(t, err, "device gone")

	assert.Error(t, c.Execute(context.Background(), Category(99)))
}
