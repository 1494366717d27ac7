package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/stigoleg/keepawayk/internal/action"
)

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}
	switch m.State {
	case stateIntervalInput:
		return inputView(m, "Action Interval", "Seconds between actions (e.g. 5, 2.5, 1m):")
	case stateDurationInput:
		return inputView(m, "Timed Run", "Run for (minutes, or e.g. 2h30m):")
	default:
		return mainView(m)
	}
}

func mainView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("KeepAwayk"))
	b.WriteString("\n")
	if m.snap.running {
		b.WriteString(Current.Running.Render("● Running"))
		if m.snap.remaining > 0 {
			b.WriteString(Current.Countdown.Render(formatRemaining(m.snap.remaining) + " remaining"))
		}
	} else {
		b.WriteString(Current.Stopped.Render("○ Stopped"))
	}
	b.WriteString("\n\n")

	for i, c := range action.All() {
		box := Current.Unchecked.Render("[ ]")
		if m.snap.enabled[c] {
			box = Current.Checked.Render("[x]")
		}
		b.WriteString(row(m, i, box+" "+c.Label()))
	}
	b.WriteString("\n")
	b.WriteString(row(m, rowInterval, fmt.Sprintf("Interval: %ss", formatSeconds(m.snap.interval))))
	if m.snap.running {
		b.WriteString(row(m, rowStartStop, "Stop"))
	} else {
		b.WriteString(row(m, rowStartStop, "Start"))
	}
	b.WriteString(row(m, rowTimed, "Run for a duration…"))
	b.WriteString(row(m, rowQuit, "Quit"))

	b.WriteString("\n" + Current.Stats.Render(statsLine(m)))
	if info := sessionLine(m); info != "" {
		b.WriteString("\n" + Current.Stats.Render(info))
	}
	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	b.WriteString("\n\n" + m.help.View(m.keys.ForState(m.State)))
	return b.String()
}

func row(m Model, i int, text string) string {
	if i == m.Selected {
		return Current.Selected.Render("> "+text) + "\n"
	}
	return Current.Unselected.Render("  "+text) + "\n"
}

func statsLine(m Model) string {
	st := m.snap.stats
	line := fmt.Sprintf("actions %d • skipped %d • idle ticks %d", st.Actions, st.Skipped, st.Empty)
	if st.Failures > 0 {
		line += fmt.Sprintf(" • failed %d", st.Failures)
	}
	if !st.LastAt.IsZero() {
		line += fmt.Sprintf(" • last: %s %s ago", st.LastCategory, time.Since(st.LastAt).Round(time.Second))
	}
	return line
}

func sessionLine(m Model) string {
	var parts []string
	if m.opts.Backend != "" {
		parts = append(parts, "backend: "+m.opts.Backend)
	}
	if m.opts.Hotkey != "" {
		parts = append(parts, "hotkey: "+m.opts.Hotkey)
	}
	return strings.Join(parts, " • ")
}

func inputView(m Model, title, prompt string) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(Current.Unselected.Render(prompt))
	b.WriteString("\n")
	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))
	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	b.WriteString("\n\n" + m.help.View(m.keys.ForState(m.State)))
	return b.String()
}

func helpView(m Model) string {
	text := `KeepAwayk Help

Performs a random enabled action (pointer move, left click, right click or
key press) right away and then once per interval, so the session never goes
idle.

Usage:
  keepawayk [flags]
  keepawayk run --headless [flags]
  keepawayk doctor

Examples:
  keepawayk -i 30 -e move          # move the pointer every 30 seconds
  keepawayk -d 2h30m               # run for 2 hours and 30 minutes
  keepawayk -u 18:00 --dry-run     # log actions until 18:00

Keys:`
	full := m.help
	full.ShowAll = true
	return Current.Help.Render(text) + "\n" + full.View(m.keys.ForState(stateMain)) +
		"\n\n" + Current.Help.Render("Press h or ? to close help")
}
