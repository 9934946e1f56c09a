// Package notify builds desktop notification requests and hands them to the
// host operating system's notification facility.
//
// A Request is assembled field by field and then submitted through a Sender.
// Each Sender wraps one backend:
//
//   - dbus: org.freedesktop.Notifications on the session bus (Linux, BSD)
//   - osascript: AppleScript "display notification" (macOS)
//   - beeep: github.com/gen2brain/beeep (Windows and anything else)
//
// Fields a backend cannot express are dropped by that backend: subtitles only
// reach macOS, custom timeouts only reach XDG desktops.
//
// # Usage
//
//	req := notify.NewRequest().
//		SetSummary("Build done").
//		SetAppName("CI").
//		AutoIcon()
//	sender, err := notify.NewSender(notify.BackendAuto)
//	if err != nil {
//		return err
//	}
//	return sender.Send(*req)
package notify
