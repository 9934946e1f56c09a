package notify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsMethod = "org.freedesktop.Notifications.Notify"
)

// busObject is the subset of dbus.BusObject the sender calls
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// busDialer opens a session bus connection and returns the notifications
// object plus a function closing the connection
type busDialer func() (busObject, func() error, error)

// dbusSender implements Sender for XDG desktops over the session bus
type dbusSender struct {
	dial busDialer
}

// newDBusSender creates a sender using a private session bus connection
func newDBusSender() Sender {
	return &dbusSender{dial: dialSessionBus}
}

func dialSessionBus() (busObject, func() error, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return conn.Object(notificationsDest, notificationsPath), conn.Close, nil
}

// Send calls org.freedesktop.Notifications.Notify.
// The subtitle has no XDG equivalent and is dropped.
func (s *dbusSender) Send(req Request) error {
	obj, closeFn, err := s.dial()
	if err != nil {
		return err
	}
	defer closeFn()

	call := obj.Call(notificationsMethod, 0,
		req.appName(),             // app_name
		uint32(0),                 // replaces_id
		req.Icon.Resolve(),        // app_icon
		req.Summary,               // summary
		req.Body,                  // body
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		req.Timeout.Expiry(),      // expire_timeout
	)
	return call.Err
}

// Name returns the backend name
func (s *dbusSender) Name() string {
	return BackendDBus
}

// Available reports whether a session bus address can be found
func (s *dbusSender) Available() bool {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return true
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "bus")); err == nil {
			return true
		}
	}
	return false
}
