package notify

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner runs an external tool and returns its combined error output
type commandRunner func(name string, args ...string) error

// osascriptSender implements Sender for macOS using osascript
type osascriptSender struct {
	run commandRunner
}

// newOsascriptSender creates a new macOS notification sender
func newOsascriptSender() Sender {
	return &osascriptSender{run: runTool}
}

// Send shows the request with "display notification".
// macOS has no per-notification icon or timeout through AppleScript.
func (s *osascriptSender) Send(req Request) error {
	return s.run("osascript", "-e", appleScript(req))
}

// appleScript builds the display notification command for req
func appleScript(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "display notification %q", req.Body)
	if req.Summary != "" {
		fmt.Fprintf(&b, " with title %q", req.Summary)
	}
	if req.Subtitle != "" {
		fmt.Fprintf(&b, " subtitle %q", req.Subtitle)
	}
	return b.String()
}

// Name returns the backend name
func (s *osascriptSender) Name() string {
	return BackendOsascript
}

// Available returns true if osascript is in PATH
func (s *osascriptSender) Available() bool {
	return toolAvailable("osascript")
}

// runTool executes name with args, turning stderr into the error message
func runTool(name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.New(msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
