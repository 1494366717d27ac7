package util

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// CommandTimeout bounds every helper command so a hung tool cannot stall a tick.
const CommandTimeout = 3 * time.Second

// HasCommand checks if a command is available in the system PATH.
func HasCommand(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// RunVerbose executes a command and returns its trimmed combined output.
func RunVerbose(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return strings.TrimSpace(buf.String()), err
}
