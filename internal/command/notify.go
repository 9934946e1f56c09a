// Package command implements the commands this plugin serves to the shell.
package command

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/notify"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/plugin"
)

// ExceptionLabel is the label attached to failed notifications
const ExceptionLabel = "Notification Exception"

// unsupportedHelp points users at the config when no backend exists
const unsupportedHelp = "set `backend` in the plugin config to dbus, osascript or beeep"

// Flag names of the notify command
const (
	FlagSummary  = "summary"
	FlagBody     = "body"
	FlagSubtitle = "subtitle"
	FlagAppName  = "app-name"
	FlagIcon     = "icon"
	FlagTimeout  = "timeout"
)

// Notify is the `notify` command: it turns flags into a notification
// request, submits it, and passes the pipeline input through.
type Notify struct {
	sender notify.Sender
	log    zerolog.Logger
}

// NewNotify creates the command around sender
func NewNotify(sender notify.Sender, log zerolog.Logger) *Notify {
	return &Notify{
		sender: sender,
		log:    log.With().Str("command", "notify").Logger(),
	}
}

// Signature describes notify to the shell
func (n *Notify) Signature() plugin.PluginSignature {
	sig := plugin.NewSignature("notify").
		Describe("sends notification with given parameters").
		InCategory(plugin.CategoryExperimental).
		Search("notification", "desktop", "alert", "toast").
		AddNamed(FlagSummary, plugin.ShapeString, "summary of the notification", 's').
		AddNamed(FlagBody, plugin.ShapeString, "body of the notification", 't').
		AddNamed(FlagSubtitle, plugin.ShapeString, "subtitle of the notification [macOS only]", 0).
		AddNamed(FlagAppName, plugin.ShapeString, "app name of the notification", 'a').
		AddNamed(FlagIcon, plugin.ShapeFilepath, "path to the icon of the notification", 'i').
		AddNamed(FlagTimeout, plugin.ShapeDuration, "duration of the notification [XDG Desktops only] (defaults to system default)", 0).
		InputOutput(plugin.TypeAny, plugin.TypeAny)

	return plugin.PluginSignature{
		Sig: *sig,
		Examples: []plugin.Example{
			{
				Example:     `notify -s "Build done" -a CI`,
				Description: "Show a notification titled \"Build done\" from the CI app",
			},
			{
				Example:     `cargo build; notify -s cargo -t "build finished" --timeout 5sec`,
				Description: "Announce the end of a long command for five seconds",
			},
			{
				Example:     `open data.json | notify -s "loaded" | get items`,
				Description: "Notify in the middle of a pipeline; the input flows through unchanged",
			},
		},
	}
}

// Run submits the notification described by call and returns input unchanged.
// A backend failure becomes a labeled error at the call head.
func (n *Notify) Run(call *plugin.EvaluatedCall, input plugin.Value) (plugin.Value, error) {
	req := n.Request(call)

	log := n.log.With().Str("backend", n.sender.Name()).Logger()
	log.Debug().
		Str("summary", req.Summary).
		Bool("auto_icon", req.Icon.Auto).
		Int32("expiry_ms", req.Timeout.Expiry()).
		Msg("sending notification")

	if err := n.sender.Send(*req); err != nil {
		log.Warn().Err(err).Msg("notification failed")
		le := plugin.NewLabeledError(err.Error()).WithLabel(ExceptionLabel, call.Head)
		if errors.Is(err, notify.ErrUnsupported) {
			le.WithHelp(unsupportedHelp)
		}
		return plugin.Value{}, le
	}
	return input, nil
}

// Request builds the notification request for call.
// Flags that are absent or carry the wrong kind of value leave their field
// at the default; the icon then falls back to automatic detection.
func (n *Notify) Request(call *plugin.EvaluatedCall) *notify.Request {
	req := notify.NewRequest()

	if summary, ok := n.stringFlag(call, FlagSummary); ok {
		req.SetSummary(summary)
	}
	if body, ok := n.stringFlag(call, FlagBody); ok {
		req.SetBody(body)
	}
	if subtitle, ok := n.stringFlag(call, FlagSubtitle); ok {
		req.SetSubtitle(subtitle)
	}
	if appName, ok := n.stringFlag(call, FlagAppName); ok {
		req.SetAppName(appName)
	}

	if icon, ok := n.stringFlag(call, FlagIcon); ok {
		req.SetIcon(icon)
	} else {
		req.AutoIcon()
	}

	if timeout, ok := n.timeoutFlag(call); ok {
		req.SetTimeout(timeout)
	}
	return req
}

// stringFlag returns the text of a String flag
func (n *Notify) stringFlag(call *plugin.EvaluatedCall, name string) (string, bool) {
	v, ok := call.FlagValue(name)
	if !ok {
		return "", false
	}
	s, ok := v.AsString()
	if !ok {
		n.log.Debug().Str("flag", name).Str("kind", v.Kind()).Msg("ignoring non-string flag")
	}
	return s, ok
}

// timeoutFlag returns the display duration of the timeout flag if it can be represented
func (n *Notify) timeoutFlag(call *plugin.EvaluatedCall) (notify.Timeout, bool) {
	v, ok := call.FlagValue(FlagTimeout)
	if !ok {
		return notify.Timeout{}, false
	}
	d, ok := v.AsDuration()
	if !ok {
		n.log.Debug().Str("flag", FlagTimeout).Str("kind", v.Kind()).Msg("ignoring non-duration flag")
		return notify.Timeout{}, false
	}
	timeout, ok := notify.TimeoutFromDuration(d)
	if !ok {
		n.log.Debug().Dur("timeout", d).Msg("ignoring unrepresentable timeout")
	}
	return timeout, ok
}
