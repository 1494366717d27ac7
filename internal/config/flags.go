package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stigoleg/keepawayk/internal/input"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"interval":           "engine.interval",
	"enable":             "engine.enabled",
	"first-tick-exclude": "engine.first_tick_exclude",
	"duration":           "engine.duration",
	"until":              "engine.until",
	"backend":            "input.backend",
	"hotkey":             "hotkey.combo",
	"log-level":          "logger.level",
	"log-file":           "logger.file",
}

// AddFlags registers the run flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.StringP("interval", "i", "", `Seconds between actions ("5", "2.5", "1m")`)
	fs.StringSliceP("enable", "e", nil, "Enabled actions: move, left-click, right-click, key (repeatable)")
	fs.StringSlice("first-tick-exclude", nil, "Actions never chosen for the immediate action on start")
	fs.StringP("duration", "d", "", `Stop after this long ("2h30m", or minutes "90")`)
	fs.StringP("until", "u", "", `Stop at this clock time ("22:00", "10:30PM")`)
	fs.String("backend", "", "Input backend: "+strings.Join(input.Backends(), ", "))
	fs.Bool("dry-run", false, "Log actions instead of injecting input")
	fs.String("hotkey", "", `Global toggle shortcut (default "Ctrl+Y")`)
	fs.Bool("no-hotkey", false, "Disable the global toggle shortcut")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.String("log-file", "", "Log file path")
}

// BindFlags binds the flags registered by AddFlags to their config keys.
// Flags the user did not set leave the file, env and default values alone.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	if f := fs.Lookup("dry-run"); f != nil && f.Changed {
		v.Set("input.backend", input.BackendDryRun)
	}
	if f := fs.Lookup("no-hotkey"); f != nil && f.Changed {
		v.Set("hotkey.enabled", false)
	}
	return nil
}

var (
	errorColor  = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"}
	subtleColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
)

// FormatError renders err for the terminal. Messages with a "\n\n" separated
// hint section get a bordered box.
func FormatError(err error) string {
	msg := err.Error()
	if head, details, ok := strings.Cut(msg, "\n\n"); ok {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(0, 1)
		header := lipgloss.NewStyle().Bold(true).Foreground(errorColor).Render(head)
		body := lipgloss.NewStyle().Foreground(subtleColor).Render(details)
		return box.Render(header + "\n\n" + body)
	}
	return lipgloss.NewStyle().Foreground(errorColor).PaddingLeft(1).Render(msg)
}
