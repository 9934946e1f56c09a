package notify

import (
	"github.com/gen2brain/beeep"
)

// beeepNotify shows a notification with a title, message and icon path
type beeepNotify func(title, message, icon string) error

// beeepSender implements Sender with github.com/gen2brain/beeep
type beeepSender struct {
	notify beeepNotify
}

// newBeeepSender creates a sender backed by beeep
func newBeeepSender() Sender {
	return &beeepSender{notify: func(title, message, icon string) error {
		return beeep.Notify(title, message, icon)
	}}
}

// Send shows the request through beeep.
// An automatic icon is passed as empty so beeep picks its default.
func (s *beeepSender) Send(req Request) error {
	beeep.AppName = req.appName()

	icon := req.Icon.Path
	if req.Icon.Auto {
		icon = ""
	}
	return s.notify(req.Summary, req.Body, icon)
}

// Name returns the backend name
func (s *beeepSender) Name() string {
	return BackendBeeep
}

// Available always returns true; beeep picks its own tooling at send time
func (s *beeepSender) Available() bool {
	return true
}
