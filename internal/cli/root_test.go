// Package cli_test tests the plugin binary's commands.
// Related: internal/cli/root.go, internal/cli/send.go
// Tags: cli, stdio, send, config, version
package cli

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/notify"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/plugin"
)

type fakeSender struct {
	mu       sync.Mutex
	err      error
	requests []notify.Request
}

func (f *fakeSender) Send(req notify.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.err
}

func (f *fakeSender) Name() string    { return "fake" }
func (f *fakeSender) Available() bool { return true }

type testRoot struct {
	cmd      *cobra.Command
	sender   *fakeSender
	backends []string
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

// newTestRoot builds the command tree around a fake sender with an isolated
// config dir. Callers cannot use t.Parallel() because of t.Setenv.
func newTestRoot(t *testing.T, interactive bool) *testRoot {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))

	tr := &testRoot{sender: &fakeSender{}, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	a := &app{
		log:      zerolog.Nop(),
		closeLog: func() error { return nil },
		newSender: func(backend string) (notify.Sender, error) {
			tr.backends = append(tr.backends, backend)
			return tr.sender, nil
		},
		interactive: func(io.Reader) bool { return interactive },
	}
	tr.cmd = a.rootCmd()
	tr.cmd.SetOut(tr.out)
	tr.cmd.SetErr(tr.errOut)
	return tr
}

func (tr *testRoot) run(in io.Reader, args ...string) error {
	tr.cmd.SetIn(in)
	tr.cmd.SetArgs(args)
	return tr.cmd.Execute()
}

func TestRoot_Stdio(t *testing.T) {
	tr := newTestRoot(t, false)
	t.Setenv("NU_PLUGIN_NOTIFY_ENCODING", "json")
	t.Setenv("NU_PLUGIN_NOTIFY_BACKEND", "dbus")

	in := strings.NewReader(`{"Hello": {"protocol": "nu-plugin", "version": "0.106.1", "features": []}}
{"Call": [0, "Metadata"]}
"Goodbye"
`)
	require.NoError(t, tr.run(in, "--stdio"))
	assert.Equal(t, []string{"dbus"}, tr.backends)

	out := tr.out.String()
	require.True(t, strings.HasPrefix(out, "\x04json"), "encoding preamble")
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\x04json")), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"Hello": {"protocol": "nu-plugin", "version": "0.106.1", "features": []}}`, lines[0])
	assert.JSONEq(t, `{"CallResponse": [0, {"Metadata": {"version": "`+Version+`"}}]}`, lines[1])
}

func TestRoot_StdioMsgPackPreamble(t *testing.T) {
	tr := newTestRoot(t, false)

	require.NoError(t, tr.run(strings.NewReader(""), "--stdio"))
	assert.True(t, strings.HasPrefix(tr.out.String(), "\x07msgpack"))
}

func TestRoot_InteractiveHint(t *testing.T) {
	tr := newTestRoot(t, true)

	require.NoError(t, tr.run(strings.NewReader("")))
	assert.Contains(t, tr.out.String(), "plugin add")
	assert.Empty(t, tr.backends)
}

func TestRoot_NonInteractiveWithoutStdio(t *testing.T) {
	tr := newTestRoot(t, false)

	err := tr.run(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--stdio")
}

func TestRoot_InvalidConfig(t *testing.T) {
	tr := newTestRoot(t, false)
	t.Setenv("NU_PLUGIN_NOTIFY_BACKEND", "growl")

	err := tr.run(strings.NewReader(""), "--stdio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Empty(t, tr.out.String())
}

func TestSend(t *testing.T) {
	tr := newTestRoot(t, false)

	err := tr.run(strings.NewReader(""), "send", "-s", "Build done", "-a", "CI", "--timeout", "5s")
	require.NoError(t, err)
	assert.Contains(t, tr.out.String(), "notification sent via fake")

	require.Len(t, tr.sender.requests, 1)
	req := tr.sender.requests[0]
	assert.Equal(t, "Build done", req.Summary)
	assert.Equal(t, "CI", req.AppName)
	assert.Empty(t, req.Body)
	assert.True(t, req.Icon.Auto)
	assert.Equal(t, notify.Timeout{Kind: notify.TimeoutMilliseconds, Millis: 5000}, req.Timeout)
}

func TestSend_Defaults(t *testing.T) {
	tr := newTestRoot(t, false)

	require.NoError(t, tr.run(strings.NewReader(""), "send"))
	require.Len(t, tr.sender.requests, 1)
	assert.Equal(t, *notify.NewRequest().AutoIcon(), tr.sender.requests[0])
}

func TestSend_ZeroTimeoutNeverExpires(t *testing.T) {
	tr := newTestRoot(t, false)

	require.NoError(t, tr.run(strings.NewReader(""), "send", "--timeout", "0s", "-i", "/tmp/icon.png"))
	require.Len(t, tr.sender.requests, 1)
	req := tr.sender.requests[0]
	assert.Equal(t, notify.TimeoutNever, req.Timeout.Kind)
	assert.Equal(t, notify.Icon{Path: "/tmp/icon.png"}, req.Icon)
}

func TestSend_Failure(t *testing.T) {
	tr := newTestRoot(t, false)
	tr.sender.err = errors.New("no notification daemon running")

	err := tr.run(strings.NewReader(""), "send", "-s", "x")
	require.Error(t, err)

	var le *plugin.LabeledError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "no notification daemon running", le.Msg)
	assert.NotContains(t, tr.out.String(), "notification sent")
}

func TestConfigCmd(t *testing.T) {
	tr := newTestRoot(t, false)
	t.Setenv("NU_PLUGIN_NOTIFY_LOG_LEVEL", "info")

	require.NoError(t, tr.run(strings.NewReader(""), "config", "--debug"))
	assert.Equal(t, "encoding: msgpack\nbackend: auto\nprotocol_version: 0.106.1\nlog_level: debug\n", tr.out.String())
}

func TestVersionCmd_IgnoresBrokenConfig(t *testing.T) {
	tr := newTestRoot(t, false)
	t.Setenv("NU_PLUGIN_NOTIFY_LOG_LEVEL", "loud")

	require.NoError(t, tr.run(strings.NewReader(""), "version", "--plain"))
	assert.Contains(t, tr.out.String(), BinaryName+" "+Version)

	err := tr.run(strings.NewReader(""), "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestVersionCmd(t *testing.T) {
	tr := newTestRoot(t, false)

	require.NoError(t, tr.run(strings.NewReader(""), "version", "--plain"))
	out := tr.out.String()
	assert.Contains(t, out, BinaryName+" "+Version)
	assert.Contains(t, out, "commit: "+Commit)
	assert.Contains(t, out, "go: ")
}
