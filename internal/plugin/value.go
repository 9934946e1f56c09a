package plugin

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Span locates a value or call in the shell's source
type Span struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Value is a shell value kept in its generic decoded form: a single-key map
// from the value type ("String", "Int", "Duration", ...) to its fields.
// Values the plugin does not inspect are carried as-is.
type Value struct {
	raw any
}

// NewValue wraps a decoded value tree
func NewValue(raw any) Value {
	return Value{raw: raw}
}

// Kind returns the value type name, or "" when the tree is not a value
func (v Value) Kind() string {
	if _, ok := v.raw.(string); ok {
		return ""
	}
	kind, _, ok := variant(v.raw)
	if !ok {
		return ""
	}
	return kind
}

func (v Value) fields() map[string]any {
	_, body, ok := variant(v.raw)
	if !ok {
		return nil
	}
	m, _ := asMap(body)
	return m
}

// Span returns the value's span if it carries one
func (v Value) Span() (Span, bool) {
	f := v.fields()
	if f == nil {
		return Span{}, false
	}
	return parseSpan(f["span"])
}

// AsString returns the text of a String value
func (v Value) AsString() (string, bool) {
	if v.Kind() != "String" {
		return "", false
	}
	s, ok := v.fields()["val"].(string)
	return s, ok
}

// AsDuration returns the length of a Duration value.
// Durations travel as signed nanosecond counts.
func (v Value) AsDuration() (time.Duration, bool) {
	if v.Kind() != "Duration" {
		return 0, false
	}
	n, ok := asInt64(v.fields()["val"])
	if !ok {
		return 0, false
	}
	return time.Duration(n), true
}

// MarshalJSON encodes the underlying tree
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// EncodeMsgpack encodes the underlying tree
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(v.raw)
}

func simpleValue(kind string, val any, span Span) Value {
	return Value{raw: map[string]any{kind: map[string]any{"val": val, "span": span}}}
}

// StringValue builds a String value
func StringValue(s string, span Span) Value {
	return simpleValue("String", s, span)
}

// IntValue builds an Int value
func IntValue(n int64, span Span) Value {
	return simpleValue("Int", n, span)
}

// DurationValue builds a Duration value
func DurationValue(d time.Duration, span Span) Value {
	return simpleValue("Duration", int64(d), span)
}

// BinaryValue builds a Binary value.
// Bytes are sent as a list of numbers, which both encodings accept.
func BinaryValue(b []byte, span Span) Value {
	nums := make([]int, len(b))
	for i, c := range b {
		nums[i] = int(c)
	}
	return simpleValue("Binary", nums, span)
}

// AsBinary returns the contents of a Binary value
func (v Value) AsBinary() ([]byte, bool) {
	if v.Kind() != "Binary" {
		return nil, false
	}
	return asBytes(v.fields()["val"])
}

// NothingValue builds the empty value
func NothingValue(span Span) Value {
	return Value{raw: map[string]any{"Nothing": map[string]any{"span": span}}}
}

// ListValue builds a List value
func ListValue(vals []Value, span Span) Value {
	raws := make([]any, 0, len(vals))
	for _, v := range vals {
		raws = append(raws, v.raw)
	}
	return Value{raw: map[string]any{"List": map[string]any{"vals": raws, "span": span}}}
}

// variant splits an externally tagged enum into its tag and content.
// Unit variants arrive as bare strings.
func variant(raw any) (string, any, bool) {
	if s, ok := raw.(string); ok {
		return s, nil, true
	}
	m, ok := asMap(raw)
	if !ok || len(m) != 1 {
		return "", nil, false
	}
	for k, body := range m {
		return k, body, true
	}
	return "", nil, false
}

// asMap normalizes the map shapes produced by the decoders
func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case *record:
		if m == nil {
			return nil, false
		}
		return m.vals, true
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// asInt64 normalizes the number shapes produced by the decoders
func asInt64(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n >= 1<<63 || n < -(1<<63) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// asBytes normalizes binary payloads: msgpack bin, JSON arrays of numbers, or strings
func asBytes(raw any) ([]byte, bool) {
	switch b := raw.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	case []int:
		out := make([]byte, 0, len(b))
		for _, n := range b {
			if n < 0 || n > math.MaxUint8 {
				return nil, false
			}
			out = append(out, byte(n))
		}
		return out, true
	case []any:
		out := make([]byte, 0, len(b))
		for _, e := range b {
			n, ok := asInt64(e)
			if !ok || n < 0 || n > math.MaxUint8 {
				return nil, false
			}
			out = append(out, byte(n))
		}
		return out, true
	default:
		return nil, false
	}
}

func parseSpan(raw any) (Span, bool) {
	if s, ok := raw.(Span); ok {
		return s, true
	}
	m, ok := asMap(raw)
	if !ok {
		return Span{}, false
	}
	start, ok1 := asInt64(m["start"])
	end, ok2 := asInt64(m["end"])
	if !ok1 || !ok2 {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}
