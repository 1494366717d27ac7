package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/stigoleg/keepawayk/internal/action"
	"go.uber.org/zap"
)

// Engine is the part of the scheduler that configuration can change at
// runtime.
type Engine interface {
	SetInterval(d time.Duration) error
	SetEnabledSet(set map[action.Category]bool)
	SetFirstTickExclusions(cats ...action.Category)
}

// Apply pushes the engine section into e. Nothing is changed if any value is
// invalid.
func (e EngineConfig) Apply(to Engine) error {
	interval, err := e.IntervalDuration()
	if err != nil {
		return err
	}
	enabled, err := e.Categories()
	if err != nil {
		return err
	}
	exclude, err := e.FirstTickExclusions()
	if err != nil {
		return err
	}
	if err := to.SetInterval(interval); err != nil {
		return err
	}
	to.SetEnabledSet(enabled)
	to.SetFirstTickExclusions(action.Eligible(exclude)...)
	return nil
}

// Watch re-reads the config file whenever it changes and applies the engine
// section to e. Invalid edits are logged and ignored. It does nothing when no
// config file is in use.
func Watch(v *viper.Viper, e Engine, log *zap.Logger) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(ev fsnotify.Event) {
		reload(v, e, log, ev)
	})
	v.WatchConfig()
	log.Info("watching config file", zap.String("file", v.ConfigFileUsed()))
}

func reload(v *viper.Viper, e Engine, log *zap.Logger, ev fsnotify.Event) {
	cfg, err := Decode(v)
	if err != nil {
		log.Warn("config change ignored", zap.String("file", ev.Name), zap.Error(err))
		return
	}
	if err := cfg.Engine.Apply(e); err != nil {
		log.Warn("config change ignored", zap.String("file", ev.Name), zap.Error(err))
		return
	}
	interval, _ := cfg.Engine.IntervalDuration()
	enabled, _ := cfg.Engine.Categories()
	log.Info("config reloaded",
		zap.String("op", ev.Op.String()),
		zap.Duration("interval", interval),
		zap.Strings("enabled", action.Names(enabled)))
}
