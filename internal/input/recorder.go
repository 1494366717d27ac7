package input

import (
	"sync"

	"go.uber.org/zap"
)

// EventKind classifies a recorded event.
type EventKind int

const (
	EventMove EventKind = iota
	EventButton
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventButton:
		return "button"
	case EventKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is one injected event as seen by a Recorder.
type Event struct {
	Kind    EventKind
	Point   Point
	Button  Button
	Key     KeyCode
	Pressed bool
}

// Recorder is an Injector that posts nothing. A recorder from NewRecorder
// keeps every event for inspection in tests; one from NewDryRun only tracks
// the pointer and logs.
type Recorder struct {
	mu     sync.Mutex
	width  int
	height int
	cursor Point
	keep   bool
	events []Event
	log    *zap.Logger

	// CursorErr and ScreenErr, when set, are returned by Cursor and ScreenSize
	// to exercise degraded paths.
	CursorErr error
	ScreenErr error
}

// NewRecorder returns a recorder reporting a screen of the given size with the
// pointer at its centre. A nil logger disables event logging.
func NewRecorder(width, height int, log *zap.Logger) *Recorder {
	r := NewDryRun(width, height, log)
	r.keep = true
	return r
}

// NewDryRun returns the injector behind the dry-run backend. It retains no
// events, so a long run uses constant memory.
func NewDryRun(width, height int, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		width:  width,
		height: height,
		cursor: Point{X: float64(width) / 2, Y: float64(height) / 2},
		log:    log,
	}
}

// record appends ev when events are kept. r.mu must be held.
func (r *Recorder) record(ev Event) {
	if r.keep {
		r.events = append(r.events, ev)
	}
}

func (r *Recorder) ScreenSize() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ScreenErr != nil {
		return 0, 0, r.ScreenErr
	}
	return r.width, r.height, nil
}

func (r *Recorder) Cursor() (Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CursorErr != nil {
		return Point{}, r.CursorErr
	}
	return r.cursor, nil
}

// SetCursor places the recorded pointer without recording an event.
func (r *Recorder) SetCursor(p Point) {
	r.mu.Lock()
	r.cursor = p
	r.mu.Unlock()
}

func (r *Recorder) MoveTo(p Point) error {
	r.mu.Lock()
	r.cursor = p
	r.record(Event{Kind: EventMove, Point: p})
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Button(b Button, pressed bool) error {
	r.mu.Lock()
	r.record(Event{Kind: EventButton, Point: r.cursor, Button: b, Pressed: pressed})
	r.mu.Unlock()
	r.log.Debug("dry-run button", zap.Stringer("button", b), zap.Bool("pressed", pressed))
	return nil
}

func (r *Recorder) Key(code KeyCode, pressed bool) error {
	r.mu.Lock()
	r.record(Event{Kind: EventKey, Key: code, Pressed: pressed})
	r.mu.Unlock()
	r.log.Debug("dry-run key", zap.Uint16("code", uint16(code)), zap.Bool("pressed", pressed))
	return nil
}

func (r *Recorder) Name() string { return "dry-run" }

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many recorded events are of the given kind.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
