package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseInterval parses a tick interval. A bare number is read as seconds and
// may be fractional ("2.5"); anything else must be a Go duration ("1m30s").
func ParseInterval(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if secs, err := strconv.ParseFloat(input, 64); err == nil {
		ns := secs * float64(time.Second)
		if math.IsNaN(ns) || math.IsInf(ns, 0) || math.Abs(ns) >= math.MaxInt64 {
			return 0, fmt.Errorf("interval %q is out of range", input)
		}
		return time.Duration(ns), nil
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid interval format: %q\n\nValid formats:\n"+
			"• Seconds: '5', '2.5'\n"+
			"• Duration: '30s', '1m30s', '500ms'", input)
	}
	return d, nil
}

const maxMinutes = math.MaxInt64 / int64(time.Minute)

// ParseDuration parses a run length. A bare integer is read as minutes.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if minutes, err := strconv.Atoi(input); err == nil {
		if m := int64(minutes); m > maxMinutes || m < -maxMinutes {
			return 0, fmt.Errorf("duration %q is out of range", input)
		}
		return time.Duration(minutes) * time.Minute, nil
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %q\n\nValid formats:\n"+
			"• Minutes: '90'\n"+
			"• Duration: '2h30m', '45m'", input)
	}
	return d, nil
}

// UntilClock returns the time from now until the next occurrence of a wall
// clock time given as "HH:MM" or "HH:MM[AM|PM]". A time already past today
// refers to tomorrow.
func UntilClock(clock string, now time.Time) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(clock))

	var parsed time.Time
	var err error
	for _, layout := range []string{"15:04", "3:04PM", "3:04 PM", "03:04PM", "03:04 PM"} {
		if parsed, err = time.Parse(layout, s); err == nil {
			break
		}
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time format: %q\n\nValid formats:\n"+
			"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n"+
			"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')", clock)
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now), nil
}
