package plugin

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding names understood by the shell
const (
	EncodingMsgPack = "msgpack"
	EncodingJSON    = "json"
)

// Encoding is a wire format for plugin messages.
// Messages are decoded into generic trees (maps, slices, strings, numbers)
// so values can be echoed back without loss.
type Encoding interface {
	Name() string
	NewDecoder(r io.Reader) Decoder
	NewEncoder(w io.Writer) Encoder
}

// Decoder reads one message at a time
type Decoder interface {
	Decode() (any, error)
}

// Encoder writes one message at a time
type Encoder interface {
	Encode(v any) error
}

// EncodingByName returns the encoding registered under name
func EncodingByName(name string) (Encoding, error) {
	switch name {
	case EncodingMsgPack:
		return MsgPack{}, nil
	case EncodingJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrProtocol, name)
	}
}

// writePreamble announces the encoding: one length byte followed by the name
func writePreamble(w io.Writer, name string) error {
	buf := append([]byte{byte(len(name))}, name...)
	_, err := w.Write(buf)
	return err
}

// MsgPack encodes messages with MessagePack
type MsgPack struct{}

// Name returns "msgpack"
func (MsgPack) Name() string { return EncodingMsgPack }

// NewDecoder returns a decoder producing ordered record trees.
// Numbers keep their wire width and bin stays []byte, so echoed values
// re-encode to the same types.
func (MsgPack) NewDecoder(r io.Reader) Decoder {
	dec := msgpack.NewDecoder(r)
	dec.SetMapDecoder(decodeMsgpackRecord)
	return msgpackDecoder{dec: dec}
}

// NewEncoder returns an encoder honoring `json` struct tags
func (MsgPack) NewEncoder(w io.Writer) Encoder {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	return enc
}

type msgpackDecoder struct {
	dec *msgpack.Decoder
}

func (d msgpackDecoder) Decode() (any, error) {
	return d.dec.DecodeInterface()
}

// JSON encodes messages as newline separated JSON documents
type JSON struct{}

// Name returns "json"
func (JSON) Name() string { return EncodingJSON }

// NewDecoder returns a decoder producing ordered record trees with
// numbers kept as json.Number
func (JSON) NewDecoder(r io.Reader) Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return jsonDecoder{dec: dec}
}

// NewEncoder returns a json.Encoder
func (JSON) NewEncoder(w io.Writer) Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

type jsonDecoder struct {
	dec *json.Decoder
}

func (d jsonDecoder) Decode() (any, error) {
	return decodeJSONValue(d.dec)
}
