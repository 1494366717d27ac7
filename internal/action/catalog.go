package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stigoleg/keepawayk/internal/input"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultSteps     = 100
	DefaultStepDelay = 10 * time.Millisecond
	DefaultAlphabet  = "abcdefghijklmnopqrstuvwxyz1234567890"
)

// Catalog executes one occurrence of a category through an injector.
type Catalog struct {
	injector input.Injector
	rnd      Rand
	log      *zap.Logger

	// Steps is the number of interpolation steps of a pointer move.
	Steps int
	// StepDelay is the pause between consecutive move events.
	StepDelay time.Duration
	// Alphabet is the set of characters KeyPress picks from.
	Alphabet string
	// Sleep waits between move events; it returns early when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error

	degraded rate.Sometimes
}

// NewCatalog returns a catalog with the default recipes.
func NewCatalog(inj input.Injector, rnd Rand, log *zap.Logger) *Catalog {
	if rnd == nil {
		rnd = NewTimeSeededRand()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		injector:  inj,
		rnd:       rnd,
		log:       log,
		Steps:     DefaultSteps,
		StepDelay: DefaultStepDelay,
		Alphabet:  DefaultAlphabet,
		Sleep:     sleep,
		degraded:  rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Execute performs one occurrence of cat.
func (c *Catalog) Execute(ctx context.Context, cat Category) error {
	switch cat {
	case PointerMove:
		return c.move(ctx)
	case LeftClick:
		return c.click(input.ButtonLeft)
	case RightClick:
		return c.click(input.ButtonRight)
	case KeyPress:
		return c.key()
	default:
		return fmt.Errorf("unknown action category %d", int(cat))
	}
}

func (c *Catalog) warnDegraded(msg string, err error) {
	c.degraded.Do(func() {
		c.log.Warn(msg, zap.Error(err), zap.String("backend", c.injector.Name()))
	})
}

func (c *Catalog) screenSize() (int, int) {
	w, h, err := c.injector.ScreenSize()
	if err != nil || w <= 0 || h <= 0 {
		if err == nil {
			err = fmt.Errorf("%w: screen reported as %dx%d", input.ErrUnavailable, w, h)
		}
		c.warnDegraded("screen size unavailable; assuming default", err)
		return input.DefaultScreenWidth, input.DefaultScreenHeight
	}
	return w, h
}

// Destination picks a uniformly random pixel on the primary display.
func (c *Catalog) Destination() input.Point {
	w, h := c.screenSize()
	return input.Point{X: float64(c.rnd.IntN(w)), Y: float64(c.rnd.IntN(h))}
}

func (c *Catalog) move(ctx context.Context) error {
	from, err := c.injector.Cursor()
	if err != nil {
		c.warnDegraded("pointer position unavailable; starting from origin", err)
		from = input.Point{}
	}
	to := c.Destination()

	for i, p := range Trajectory(from, to, c.Steps) {
		if i > 0 {
			if err := c.Sleep(ctx, c.StepDelay); err != nil {
				return err
			}
		}
		if err := c.injector.MoveTo(p); err != nil {
			return fmt.Errorf("pointer move step %d: %w", i, err)
		}
	}
	c.log.Debug("pointer moved",
		zap.Float64("from_x", from.X), zap.Float64("from_y", from.Y),
		zap.Float64("to_x", to.X), zap.Float64("to_y", to.Y))
	return nil
}

func (c *Catalog) click(b input.Button) error {
	down := c.injector.Button(b, true)
	up := c.injector.Button(b, false)
	if err := errors.Join(down, up); err != nil {
		return fmt.Errorf("%s click: %w", b, err)
	}
	return nil
}

func (c *Catalog) key() error {
	alphabet := []rune(c.Alphabet)
	if len(alphabet) == 0 {
		alphabet = []rune(DefaultAlphabet)
	}
	r := alphabet[c.rnd.IntN(len(alphabet))]
	code, ok := input.KeyForChar(r)
	if !ok {
		return fmt.Errorf("no key code for %q", r)
	}
	down := c.injector.Key(code, true)
	up := c.injector.Key(code, false)
	if err := errors.Join(down, up); err != nil {
		return fmt.Errorf("key %q: %w", r, err)
	}
	c.log.Debug("key pressed", zap.String("char", string(r)))
	return nil
}
