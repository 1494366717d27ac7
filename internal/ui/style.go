// Package ui provides the terminal control surface for the anti-idle engine.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title      lipgloss.Style
	Running    lipgloss.Style
	Stopped    lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Checked    lipgloss.Style
	Unchecked  lipgloss.Style
	InputBox   lipgloss.Style
	Stats      lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Countdown  lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title:      base.Bold(true).Foreground(defaultColors.Highlight),
		Running:    base.Bold(true).Foreground(defaultColors.Special),
		Stopped:    base.Foreground(defaultColors.Subtle),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(defaultColors.Highlight),
		Unselected: lipgloss.NewStyle(),
		Checked:    lipgloss.NewStyle().Foreground(defaultColors.Special),
		Unchecked:  lipgloss.NewStyle().Foreground(defaultColors.Subtle),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),
		Stats:     base.Foreground(defaultColors.Subtle),
		Help:      base.Foreground(defaultColors.Subtle),
		Error:     base.Foreground(defaultColors.Error),
		Countdown: base.Foreground(defaultColors.Highlight).Bold(true),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
