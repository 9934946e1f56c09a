package plugin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

const (
	// ProtocolName identifies the plugin protocol in Hello messages
	ProtocolName = "nu-plugin"

	// DefaultProtocolVersion is the shell version this plugin speaks
	DefaultProtocolVersion = "0.106.1"
)

// Command is a command served to the shell
type Command interface {
	// Signature describes the command and its flags
	Signature() PluginSignature

	// Run executes one call. input is the collected pipeline input.
	// Returning a *LabeledError controls how the shell renders the failure.
	Run(call *EvaluatedCall, input Value) (Value, error)
}

// Server speaks the plugin protocol for a fixed set of commands
type Server struct {
	commands        []Command
	byName          map[string]Command
	encoding        Encoding
	version         string
	protocolVersion string
	log             zerolog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithEncoding selects the wire encoding (default msgpack)
func WithEncoding(enc Encoding) Option {
	return func(s *Server) { s.encoding = enc }
}

// WithVersion sets the plugin version reported in Metadata responses
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithProtocolVersion sets the version sent in the Hello handshake
func WithProtocolVersion(version string) Option {
	return func(s *Server) { s.protocolVersion = version }
}

// WithLogger sets the logger used for protocol diagnostics
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer creates a server for commands
func NewServer(commands []Command, opts ...Option) *Server {
	s := &Server{
		commands:        commands,
		byName:          make(map[string]Command, len(commands)),
		encoding:        MsgPack{},
		version:         "0.0.0",
		protocolVersion: DefaultProtocolVersion,
		log:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, cmd := range commands {
		s.byName[cmd.Signature().Sig.Name] = cmd
	}
	return s
}

// errGoodbye ends the serve loop cleanly
var errGoodbye = errors.New("goodbye")

// Serve runs the protocol on in/out until the shell says Goodbye or closes in.
// Calls are handled one at a time in arrival order.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	bw := bufio.NewWriter(out)
	if err := writePreamble(bw, s.encoding.Name()); err != nil {
		return fmt.Errorf("writing encoding preamble: %w", err)
	}

	sess := &session{
		server: s,
		dec:    s.encoding.NewDecoder(in),
		enc:    s.encoding.NewEncoder(bw),
		out:    bw,
	}

	hello := map[string]any{"Hello": helloBody{
		Protocol: ProtocolName,
		Version:  s.protocolVersion,
		Features: []any{},
	}}
	if err := sess.send(hello); err != nil {
		return fmt.Errorf("sending hello: %w", err)
	}

	s.log.Debug().Str("encoding", s.encoding.Name()).Msg("plugin serving")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		msg, err := sess.next()
		if errors.Is(err, io.EOF) {
			s.log.Debug().Msg("input closed")
			return nil
		}
		if err != nil {
			return err
		}
		if err := sess.handle(msg); err != nil {
			if errors.Is(err, errGoodbye) {
				s.log.Debug().Msg("received goodbye")
				return nil
			}
			return err
		}
	}
}

type helloBody struct {
	Protocol string `json:"protocol"`
	Version  string `json:"version"`
	Features []any  `json:"features"`
}

type metadataBody struct {
	Version string `json:"version"`
}

// message is one decoded protocol message
type message struct {
	kind string
	body any
}

// session holds the state of one Serve call
type session struct {
	server *Server
	dec    Decoder
	enc    Encoder
	out    *bufio.Writer

	// messages read ahead while collecting a stream
	pending []message

	// whether to answer with {"Value": [value, metadata]} or the bare form
	bareValues bool
}

func (ss *session) send(v any) error {
	if err := ss.enc.Encode(v); err != nil {
		return err
	}
	return ss.out.Flush()
}

// next returns the next message, preferring ones queued during stream collection
func (ss *session) next() (message, error) {
	if len(ss.pending) > 0 {
		msg := ss.pending[0]
		ss.pending = ss.pending[1:]
		return msg, nil
	}
	return ss.read()
}

func (ss *session) read() (message, error) {
	raw, err := ss.dec.Decode()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return message{}, io.EOF
		}
		return message{}, fmt.Errorf("%w: decoding message: %v", ErrProtocol, err)
	}
	kind, body, ok := variant(raw)
	if !ok {
		return message{}, fmt.Errorf("%w: message is not a tagged variant", ErrProtocol)
	}
	return message{kind: kind, body: body}, nil
}

func (ss *session) handle(msg message) error {
	log := ss.server.log
	switch msg.kind {
	case "Hello":
		return ss.checkHello(msg.body)
	case "Call":
		return ss.handleCall(msg.body)
	case "Goodbye":
		return errGoodbye
	case "Signal", "EngineCallResponse", "Ack", "Drop":
		log.Debug().Str("message", msg.kind).Msg("ignoring message")
		return nil
	case "Data", "End":
		log.Warn().Str("message", msg.kind).Msg("stream message outside of a call")
		return nil
	default:
		return fmt.Errorf("%w: unknown message %q", ErrProtocol, msg.kind)
	}
}

func (ss *session) checkHello(body any) error {
	m, ok := asMap(body)
	if !ok {
		return fmt.Errorf("%w: malformed hello", ErrProtocol)
	}
	if proto, _ := m["protocol"].(string); proto != ProtocolName {
		return fmt.Errorf("%w: unexpected protocol %q", ErrProtocol, proto)
	}
	version, _ := m["version"].(string)
	if version != ss.server.protocolVersion {
		ss.server.log.Warn().
			Str("engine_version", version).
			Str("plugin_version", ss.server.protocolVersion).
			Msg("protocol version mismatch")
	}
	return nil
}

func (ss *session) handleCall(body any) error {
	pair, ok := body.([]any)
	if !ok || len(pair) != 2 {
		return fmt.Errorf("%w: malformed call", ErrProtocol)
	}
	id, ok := asInt64(pair[0])
	if !ok {
		return fmt.Errorf("%w: call id is not a number", ErrProtocol)
	}
	kind, callBody, ok := variant(pair[1])
	if !ok {
		return fmt.Errorf("%w: call %d has no variant", ErrProtocol, id)
	}

	log := ss.server.log.With().Int64("call_id", id).Str("call", kind).Logger()
	log.Debug().Msg("handling call")

	switch kind {
	case "Metadata":
		return ss.respond(id, map[string]any{"Metadata": metadataBody{Version: ss.server.version}})
	case "Signature":
		sigs := make([]PluginSignature, 0, len(ss.server.commands))
		for _, cmd := range ss.server.commands {
			sigs = append(sigs, cmd.Signature())
		}
		return ss.respond(id, map[string]any{"Signature": sigs})
	case "Run":
		return ss.handleRun(id, callBody, log)
	default:
		log.Warn().Msg("unsupported call")
		return ss.respondError(id, NewLabeledError(fmt.Sprintf("plugin does not support %s calls", kind)))
	}
}

func (ss *session) handleRun(id int64, body any, log zerolog.Logger) error {
	info, err := parseCallInfo(body)
	if err != nil {
		return err
	}
	log = log.With().Str("command", info.Name).Logger()

	cmd, ok := ss.server.byName[info.Name]
	if !ok {
		log.Warn().Msg("unknown command")
		return ss.respondError(id, NewLabeledError(fmt.Sprintf("plugin has no command named %q", info.Name)).
			WithLabel("unknown command", info.Call.Head))
	}

	input, err := ss.collectInput(info.Input, info.Call.Head)
	if err != nil {
		if errors.Is(err, errGoodbye) {
			return err
		}
		var le *LabeledError
		if errors.As(err, &le) {
			return ss.respondError(id, le)
		}
		return err
	}

	result, err := cmd.Run(info.Call, input)
	if err != nil {
		log.Debug().Err(err).Msg("command failed")
		return ss.respondError(id, toLabeledError(err, info.Call.Head))
	}
	return ss.respond(id, map[string]any{"PipelineData": ss.valueHeader(result)})
}

func (ss *session) valueHeader(v Value) map[string]any {
	if ss.bareValues {
		return map[string]any{"Value": v.raw}
	}
	return map[string]any{"Value": []any{v.raw, nil}}
}

func (ss *session) respond(id int64, response any) error {
	return ss.send(map[string]any{"CallResponse": []any{id, response}})
}

func (ss *session) respondError(id int64, le *LabeledError) error {
	return ss.respond(id, map[string]any{"Error": le})
}
