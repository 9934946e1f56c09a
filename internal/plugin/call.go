package plugin

import (
	"fmt"
)

// NamedArg is one named flag as written by the user.
// Value is nil for switches given without an argument.
type NamedArg struct {
	Name     string
	NameSpan Span
	Value    *Value
}

// EvaluatedCall is one command invocation with its arguments already evaluated
type EvaluatedCall struct {
	Head       Span
	Positional []Value
	Named      []NamedArg
}

// FlagValue returns the value given for the flag name.
// The second result is false when the flag is absent or has no value.
func (c *EvaluatedCall) FlagValue(name string) (Value, bool) {
	for _, arg := range c.Named {
		if arg.Name != name {
			continue
		}
		if arg.Value == nil {
			return Value{}, false
		}
		return *arg.Value, true
	}
	return Value{}, false
}

// CallInfo is the body of a Run call
type CallInfo struct {
	Name  string
	Call  *EvaluatedCall
	Input any
}

func parseCallInfo(raw any) (*CallInfo, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("%w: run call is not a map", ErrProtocol)
	}
	name, ok := m["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: run call has no command name", ErrProtocol)
	}
	call, err := parseEvaluatedCall(m["call"])
	if err != nil {
		return nil, err
	}
	return &CallInfo{Name: name, Call: call, Input: m["input"]}, nil
}

func parseEvaluatedCall(raw any) (*EvaluatedCall, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("%w: evaluated call is not a map", ErrProtocol)
	}
	head, ok := parseSpan(m["head"])
	if !ok {
		return nil, fmt.Errorf("%w: evaluated call has no head span", ErrProtocol)
	}
	call := &EvaluatedCall{Head: head}

	if positional, ok := m["positional"].([]any); ok {
		for _, p := range positional {
			call.Positional = append(call.Positional, NewValue(p))
		}
	}

	named, _ := m["named"].([]any)
	for i, entry := range named {
		arg, err := parseNamedArg(entry)
		if err != nil {
			return nil, fmt.Errorf("named argument %d: %w", i, err)
		}
		call.Named = append(call.Named, arg)
	}
	return call, nil
}

// parseNamedArg reads a [{"item": name, "span": span}, value|null] pair
func parseNamedArg(raw any) (NamedArg, error) {
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return NamedArg{}, fmt.Errorf("%w: named argument is not a pair", ErrProtocol)
	}
	spanned, ok := asMap(pair[0])
	if !ok {
		return NamedArg{}, fmt.Errorf("%w: named argument has no name", ErrProtocol)
	}
	name, ok := spanned["item"].(string)
	if !ok {
		return NamedArg{}, fmt.Errorf("%w: named argument has no name", ErrProtocol)
	}
	arg := NamedArg{Name: name}
	arg.NameSpan, _ = parseSpan(spanned["span"])
	if pair[1] != nil {
		v := NewValue(pair[1])
		arg.Value = &v
	}
	return arg, nil
}
