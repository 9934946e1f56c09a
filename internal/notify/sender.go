package notify

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// Backend names accepted by NewSender
const (
	BackendAuto      = "auto"
	BackendDBus      = "dbus"
	BackendOsascript = "osascript"
	BackendBeeep     = "beeep"
)

var (
	// ErrUnsupported is returned when no notification backend exists for this platform
	ErrUnsupported = errors.New("desktop notifications are not supported on this platform")

	// ErrUnknownBackend is returned by NewSender for an unrecognized backend name
	ErrUnknownBackend = errors.New("unknown notification backend")
)

// Sender defines the interface for platform-specific notification backends
type Sender interface {
	// Send submits the request and blocks until the backend accepts or rejects it
	Send(req Request) error

	// Name returns the backend name
	Name() string

	// Available reports whether the backend's tooling is present
	Available() bool
}

// NewSender creates a sender for the named backend.
// BackendAuto picks one based on the current OS.
func NewSender(backend string) (Sender, error) {
	switch backend {
	case BackendAuto, "":
		return senderForPlatform(Platform()), nil
	case BackendDBus:
		return newDBusSender(), nil
	case BackendOsascript:
		return newOsascriptSender(), nil
	case BackendBeeep:
		return newBeeepSender(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// senderForPlatform maps a GOOS value to its native backend
func senderForPlatform(goos string) Sender {
	switch goos {
	case "darwin":
		return newOsascriptSender()
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return newDBusSender()
	case "windows":
		return newBeeepSender()
	default:
		return &noopSender{}
	}
}

// Platform returns the current operating system name
func Platform() string {
	return runtime.GOOS
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// noopSender is used on platforms without a notification facility
type noopSender struct{}

func (s *noopSender) Send(_ Request) error { return ErrUnsupported }
func (s *noopSender) Name() string         { return "none" }
func (s *noopSender) Available() bool      { return false }
