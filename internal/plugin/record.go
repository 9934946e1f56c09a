package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// record is a decoded map that keeps its keys in wire order.
// Record values echoed back to the shell must keep their column order,
// which a Go map cannot.
type record struct {
	keys []string
	vals map[string]any
}

func newRecord(size int) *record {
	return &record{
		keys: make([]string, 0, size),
		vals: make(map[string]any, size),
	}
}

func (r *record) set(key string, val any) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = val
}

// MarshalJSON writes the keys in their original order
func (r *record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		buf.WriteByte(':')
		if err := enc.Encode(r.vals[key]); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeMsgpack writes the keys in their original order
func (r *record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r.keys)); err != nil {
		return err
	}
	for _, key := range r.keys {
		if err := enc.EncodeString(key); err != nil {
			return err
		}
		if err := enc.Encode(r.vals[key]); err != nil {
			return err
		}
	}
	return nil
}

// decodeMsgpackRecord is installed with SetMapDecoder; nested maps come
// back through it as well
func decodeMsgpackRecord(d *msgpack.Decoder) (any, error) {
	n, err := d.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	r := newRecord(n)
	for i := 0; i < n; i++ {
		key, err := d.DecodeString()
		if err != nil {
			return nil, err
		}
		val, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		r.set(key, val)
	}
	return r, nil
}

// decodeJSONValue reads one JSON value token by token so objects keep
// their key order. Numbers stay json.Number.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		r := newRecord(0)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			r.set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return r, nil
	case '[':
		list := []any{}
		for dec.More() {
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
