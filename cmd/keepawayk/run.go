package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stigoleg/keepawayk/internal/action"
	"github.com/stigoleg/keepawayk/internal/config"
	"github.com/stigoleg/keepawayk/internal/hotkey"
	"github.com/stigoleg/keepawayk/internal/input"
	"github.com/stigoleg/keepawayk/internal/logging"
	"github.com/stigoleg/keepawayk/internal/scheduler"
	"github.com/stigoleg/keepawayk/internal/ui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// errFinished ends the errgroup when the control panel quits or a timed
// headless run expires. It is not reported to the user.
var errFinished = errors.New("finished")

// headlessPoll is how often a timed headless run checks for expiry.
const headlessPoll = 500 * time.Millisecond

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	clock   clockwork.Clock
	inj     input.Injector
	sched   *scheduler.Scheduler
	cleanup *scheduler.CleanupManager
}

func runApp(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Decode(opts.v)
	if err != nil {
		return err
	}

	var console zapcore.WriteSyncer
	if opts.headless {
		console = logging.Stderr()
	}
	log := logging.New(cfg.Logger, console)
	defer logging.Install(log)()

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals()...)
	defer stop()

	a, err := newApp(cfg, log, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.cleanup.Execute(); err != nil {
			fmt.Fprintln(os.Stderr, config.FormatError(err))
		}
	}()

	config.Watch(opts.v, a.sched, log.Named("config"))

	log.Info("keepawayk starting",
		zap.String("version", Version),
		zap.String("backend", a.inj.Name()),
		zap.Duration("interval", a.sched.Interval()),
		zap.Strings("enabled", action.Names(a.sched.Enabled())),
		zap.Bool("headless", opts.headless))

	return a.run(ctx, opts.headless)
}

// newApp opens the injector and assembles the catalog and scheduler. The
// returned cleanup manager closes them in dependency order.
func newApp(cfg *config.Config, log *zap.Logger, clock clockwork.Clock) (*app, error) {
	inj, err := openInjector(cfg.Input, log.Named("input"))
	if err != nil {
		return nil, err
	}

	interval, err := cfg.Engine.IntervalDuration()
	if err != nil {
		inj.Close()
		return nil, err
	}
	enabled, err := cfg.Engine.Categories()
	if err != nil {
		inj.Close()
		return nil, err
	}
	exclude, err := cfg.Engine.FirstTickExclusions()
	if err != nil {
		inj.Close()
		return nil, err
	}

	catalog := action.NewCatalog(inj, action.NewTimeSeededRand(), log.Named("action"))
	sched := scheduler.New(catalog, scheduler.Options{
		Interval:         interval,
		Enabled:          enabled,
		FirstTickExclude: exclude,
		Clock:            clock,
		Logger:           log.Named("scheduler"),
	})

	cleanup := scheduler.NewCleanupManager(5*time.Second, log.Named("cleanup"))
	cleanup.Register("scheduler", sched.Close)
	cleanup.Register("injector", inj.Close)
	cleanup.Register("logger", func() error {
		// stderr and pipes reject fsync; nothing actionable there
		_ = log.Sync()
		return nil
	})

	return &app{cfg: cfg, log: log, clock: clock, inj: inj, sched: sched, cleanup: cleanup}, nil
}

// openInjector honours an explicit backend strictly. With "auto" a host that
// offers no injection path falls back to dry-run so the panel still works.
func openInjector(cfg config.InputConfig, log *zap.Logger) (input.Injector, error) {
	opts := input.Options{ScreenWidth: cfg.ScreenWidth, ScreenHeight: cfg.ScreenHeight}
	inj, err := input.Open(cfg.Backend, opts, log)
	if err == nil {
		return inj, nil
	}
	if cfg.Backend != input.BackendAuto && cfg.Backend != "" {
		return nil, fmt.Errorf("input backend %s: %w\n\nRun \"keepawayk doctor\" to see what this host supports.", cfg.Backend, err)
	}

	log.Warn("no input backend usable; actions will only be logged", zap.Error(err))
	w, h := cfg.ScreenWidth, cfg.ScreenHeight
	if w <= 0 || h <= 0 {
		w, h = input.DefaultScreenWidth, input.DefaultScreenHeight
	}
	return input.NewDryRun(w, h, log), nil
}

// run starts the scheduler as configured and blocks until the user quits,
// ctx is cancelled, or a timed headless run expires.
func (a *app) run(ctx context.Context, headless bool) error {
	runFor, err := a.cfg.Engine.RunDuration(a.clock.Now())
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	combo := ""
	if a.cfg.Hotkey.Enabled {
		combo = a.cfg.Hotkey.Combo
		if err := a.listenHotkey(gctx, g, combo); err != nil {
			return err
		}
	}

	switch {
	case runFor > 0:
		if err := a.sched.StartFor(runFor); err != nil {
			return err
		}
		a.log.Info("timed run", zap.Duration("duration", runFor),
			zap.Time("ends", a.clock.Now().Add(runFor)))
	case headless:
		a.sched.Start()
	}

	if headless {
		g.Go(func() error { return a.waitHeadless(gctx, runFor > 0) })
	} else {
		g.Go(func() error {
			if err := ui.Run(gctx, a.sched, ui.Options{Backend: a.inj.Name(), Hotkey: combo}); err != nil {
				return err
			}
			return errFinished
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errFinished) {
		return err
	}
	return nil
}

// listenHotkey binds combo to Toggle. A host without readable keyboards
// only loses the shortcut.
func (a *app) listenHotkey(ctx context.Context, g *errgroup.Group, combo string) error {
	log := a.log.Named("hotkey")
	mgr := hotkey.NewManager(log)
	if err := mgr.Register(combo, a.sched.Toggle); err != nil {
		return fmt.Errorf("hotkey %q: %w", combo, err)
	}
	listener := hotkey.NewListener(mgr, log)
	g.Go(func() error {
		if err := listener.Run(ctx); err != nil {
			log.Warn("global hotkey disabled", zap.String("combo", combo), zap.Error(err))
		}
		return nil
	})
	return nil
}

// waitHeadless blocks until ctx is done. A timed run also returns once the
// scheduler has stopped on its own.
func (a *app) waitHeadless(ctx context.Context, timed bool) error {
	if !timed {
		<-ctx.Done()
		return nil
	}
	t := a.clock.NewTicker(headlessPoll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.Chan():
			if !a.sched.IsRunning() {
				a.log.Info("timed run finished", zap.Any("stats", a.sched.Stats()))
				return errFinished
			}
		}
	}
}
