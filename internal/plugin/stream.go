package plugin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// collectInput turns a pipeline data header into a single value.
// Streams are read to their end, acknowledging every chunk.
func (ss *session) collectInput(header any, head Span) (Value, error) {
	kind, body, ok := variant(header)
	if !ok {
		return Value{}, fmt.Errorf("%w: malformed pipeline header", ErrProtocol)
	}
	switch kind {
	case "Empty":
		return NothingValue(head), nil
	case "Value":
		// Newer shells send [value, metadata]; values themselves are always maps.
		if pair, ok := body.([]any); ok && len(pair) == 2 {
			ss.bareValues = false
			return NewValue(pair[0]), nil
		}
		ss.bareValues = true
		return NewValue(body), nil
	case "ListStream":
		return ss.collectList(body, head)
	case "ByteStream":
		return ss.collectBytes(body, head)
	default:
		return Value{}, fmt.Errorf("%w: unsupported pipeline data %q", ErrProtocol, kind)
	}
}

type streamInfo struct {
	id       int64
	span     Span
	byteType string
}

func parseStreamInfo(body any, head Span) (streamInfo, error) {
	m, ok := asMap(body)
	if !ok {
		return streamInfo{}, fmt.Errorf("%w: malformed stream header", ErrProtocol)
	}
	id, ok := asInt64(m["id"])
	if !ok {
		return streamInfo{}, fmt.Errorf("%w: stream header has no id", ErrProtocol)
	}
	info := streamInfo{id: id, span: head}
	if span, ok := parseSpan(m["span"]); ok {
		info.span = span
	}
	info.byteType, _ = m["type"].(string)
	return info, nil
}

func (ss *session) collectList(body any, head Span) (Value, error) {
	info, err := parseStreamInfo(body, head)
	if err != nil {
		return Value{}, err
	}
	var items []Value
	err = ss.drainStream(info.id, func(data any) error {
		kind, item, ok := variant(data)
		if !ok || kind != "List" {
			return fmt.Errorf("%w: list stream %d sent %q data", ErrProtocol, info.id, kind)
		}
		items = append(items, NewValue(item))
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return ListValue(items, info.span), nil
}

func (ss *session) collectBytes(body any, head Span) (Value, error) {
	info, err := parseStreamInfo(body, head)
	if err != nil {
		return Value{}, err
	}
	var buf bytes.Buffer
	err = ss.drainStream(info.id, func(data any) error {
		kind, raw, ok := variant(data)
		if !ok || kind != "Raw" {
			return fmt.Errorf("%w: byte stream %d sent %q data", ErrProtocol, info.id, kind)
		}
		result, ok := asMap(raw)
		if !ok {
			return fmt.Errorf("%w: byte stream %d sent malformed chunk", ErrProtocol, info.id)
		}
		if _, failed := result["Err"]; failed {
			return NewLabeledError("pipeline input stream failed").WithLabel("from this input", info.span)
		}
		chunk, ok := asBytes(result["Ok"])
		if !ok {
			return fmt.Errorf("%w: byte stream %d sent malformed chunk", ErrProtocol, info.id)
		}
		buf.Write(chunk)
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	switch info.byteType {
	case "String":
		return StringValue(buf.String(), info.span), nil
	case "Binary":
		return BinaryValue(buf.Bytes(), info.span), nil
	default:
		// Unknown streams (external commands) become text when they decode as UTF-8
		if utf8.Valid(buf.Bytes()) {
			return StringValue(buf.String(), info.span), nil
		}
		return BinaryValue(buf.Bytes(), info.span), nil
	}
}

// drainStream feeds every Data payload of stream id to fn until End.
// Unrelated messages are queued for the main loop.
func (ss *session) drainStream(id int64, fn func(data any) error) error {
	for {
		msg, err := ss.read()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: input closed inside stream %d", ErrProtocol, id)
		}
		if err != nil {
			return err
		}

		switch msg.kind {
		case "Data":
			pair, ok := msg.body.([]any)
			if !ok || len(pair) != 2 {
				return fmt.Errorf("%w: malformed data message", ErrProtocol)
			}
			if sid, _ := asInt64(pair[0]); sid != id {
				ss.server.log.Warn().Int64("stream_id", sid).Msg("data for unknown stream")
				continue
			}
			if err := fn(pair[1]); err != nil {
				return err
			}
			if err := ss.send(map[string]any{"Ack": id}); err != nil {
				return err
			}
		case "End":
			if sid, _ := asInt64(msg.body); sid != id {
				continue
			}
			return ss.send(map[string]any{"Drop": id})
		case "Goodbye":
			return errGoodbye
		case "Signal":
			continue
		default:
			ss.pending = append(ss.pending, msg)
		}
	}
}
