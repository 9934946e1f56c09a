package notify

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimeoutKind selects how long a notification stays on screen
type TimeoutKind int

const (
	// TimeoutDefault leaves the expiry to the notification server
	TimeoutDefault TimeoutKind = iota
	// TimeoutNever keeps the notification until it is dismissed
	TimeoutNever
	// TimeoutMilliseconds expires the notification after Timeout.Millis
	TimeoutMilliseconds
)

// Timeout is the display duration of a notification
type Timeout struct {
	Kind   TimeoutKind
	Millis int32
}

// DefaultTimeout returns the "use the system default" sentinel
func DefaultTimeout() Timeout {
	return Timeout{Kind: TimeoutDefault}
}

// TimeoutFromDuration converts d into a Timeout.
// A zero duration never expires. Negative durations and durations whose
// millisecond count does not fit in an int32 are rejected.
func TimeoutFromDuration(d time.Duration) (Timeout, bool) {
	if d < 0 {
		return Timeout{}, false
	}
	if d == 0 {
		return Timeout{Kind: TimeoutNever}, true
	}
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return Timeout{}, false
	}
	return Timeout{Kind: TimeoutMilliseconds, Millis: int32(ms)}, true
}

// Expiry returns the value of the freedesktop expire_timeout argument
func (t Timeout) Expiry() int32 {
	switch t.Kind {
	case TimeoutNever:
		return 0
	case TimeoutMilliseconds:
		return t.Millis
	default:
		return -1
	}
}

// Icon is either a path (or theme name) or the automatic-detection sentinel
type Icon struct {
	Auto bool
	Path string
}

// Resolve returns the icon name handed to backends that always need one.
// The automatic icon is the name of the running executable.
func (i Icon) Resolve() string {
	if i.Auto {
		return executableName()
	}
	return i.Path
}

// Request describes one desktop notification.
// Fields left unset keep their zero value; the timeout starts at DefaultTimeout.
type Request struct {
	Summary  string
	Body     string
	Subtitle string
	AppName  string
	Icon     Icon
	Timeout  Timeout
}

// NewRequest creates an empty request with every field at its default
func NewRequest() *Request {
	return &Request{Timeout: DefaultTimeout()}
}

// SetSummary sets the notification title
func (r *Request) SetSummary(summary string) *Request {
	r.Summary = summary
	return r
}

// SetBody sets the notification body text
func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// SetSubtitle sets the secondary line (macOS only)
func (r *Request) SetSubtitle(subtitle string) *Request {
	r.Subtitle = subtitle
	return r
}

// SetAppName sets the application identity shown with the notification
func (r *Request) SetAppName(name string) *Request {
	r.AppName = name
	return r
}

// SetIcon sets an explicit icon path
func (r *Request) SetIcon(path string) *Request {
	r.Icon = Icon{Path: path}
	return r
}

// AutoIcon switches the icon to automatic detection
func (r *Request) AutoIcon() *Request {
	r.Icon = Icon{Auto: true}
	return r
}

// SetTimeout sets the display duration
func (r *Request) SetTimeout(t Timeout) *Request {
	r.Timeout = t
	return r
}

// appName returns the request's app name, falling back to the executable name
func (r Request) appName() string {
	if r.AppName != "" {
		return r.AppName
	}
	return executableName()
}

// executableName returns the base name of the running binary without extension
func executableName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		exe = os.Args[0]
	}
	base := filepath.Base(exe)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
