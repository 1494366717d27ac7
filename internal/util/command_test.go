package util

import (
	"runtime"
	"testing"
)

func TestHasCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}

	tests := []struct {
		name     string
		command  string
		expected bool
	}{
		{
			name:     "shell exists",
			command:  "sh",
			expected: true,
		},
		{
			name:     "nonexistent command",
			command:  "this-command-definitely-does-not-exist-12345",
			expected: false,
		},
		{
			name:     "empty string",
			command:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasCommand(tt.command)
			if got != tt.expected {
				t.Errorf("HasCommand(%q) = %v, want %v", tt.command, got, tt.expected)
			}
		})
	}
}

func TestRunVerbose(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}

	out, err := RunVerbose("sh", "-c", "echo '  hello  '; echo oops 1>&2")
	if err != nil {
		t.Fatalf("RunVerbose failed: %v", err)
	}
	if out != "hello  \noops" {
		t.Errorf("RunVerbose output = %q", out)
	}

	if _, err := RunVerbose("sh", "-c", "exit 3"); err == nil {
		t.Error("expected error for non-zero exit")
	}
}
