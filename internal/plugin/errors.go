package plugin

import (
	"errors"
)

// ErrProtocol marks malformed or unexpected plugin protocol traffic
var ErrProtocol = errors.New("plugin protocol error")

// ErrorLabel points an error message at a span of the user's input
type ErrorLabel struct {
	Text string `json:"text"`
	Span Span   `json:"span"`
}

// LabeledError is the error shape the shell renders for plugin failures
type LabeledError struct {
	Msg    string       `json:"msg"`
	Labels []ErrorLabel `json:"labels"`
	Code   *string      `json:"code"`
	URL    *string      `json:"url"`
	Help   *string      `json:"help"`
	Inner  []any        `json:"inner"`
}

// NewLabeledError creates an error with msg and no labels
func NewLabeledError(msg string) *LabeledError {
	return &LabeledError{
		Msg:    msg,
		Labels: []ErrorLabel{},
		Inner:  []any{},
	}
}

// WithLabel attaches a label at span
func (e *LabeledError) WithLabel(text string, span Span) *LabeledError {
	e.Labels = append(e.Labels, ErrorLabel{Text: text, Span: span})
	return e
}

// WithHelp sets the help line shown below the error
func (e *LabeledError) WithHelp(help string) *LabeledError {
	e.Help = &help
	return e
}

// Error returns the primary message
func (e *LabeledError) Error() string {
	return e.Msg
}

// toLabeledError converts any command error into a LabeledError.
// Errors that are not already labeled get a label at head.
func toLabeledError(err error, head Span) *LabeledError {
	var le *LabeledError
	if errors.As(err, &le) {
		if le.Labels == nil {
			le.Labels = []ErrorLabel{}
		}
		if le.Inner == nil {
			le.Inner = []any{}
		}
		return le
	}
	return NewLabeledError(err.Error()).WithLabel("Plugin Error", head)
}
