package console

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
prefix: "py>"
echoInput: false
autoscroll: false
theme: ocean
history:
  enabled: true
  maxEntries: 5
  wrap: true
handler:
  kind: json
  endpoint: http://localhost:3000/api/json
  timeout: 2s
  responseField: reply
keys:
  ctrl+p: history-prev
  left: none
themes:
  - name: ocean
    prefix: {r: 0, g: 128, b: 255, bold: true}
    output: {r: 200, g: 220, b: 255}
`

func TestParseConfig(t *testing.T) {
	t.Parallel()

	fc, err := ParseConfig([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "py>", fc.Prefix)
	require.NotNil(t, fc.EchoInput)
	assert.False(t, *fc.EchoInput)
	assert.Equal(t, &HistoryConfig{Enabled: true, MaxEntries: 5, Wrap: true}, fc.History)
	assert.Equal(t, HandlerConfig{
		Kind:          HandlerJSON,
		Endpoint:      "http://localhost:3000/api/json",
		Timeout:       2 * time.Second,
		ResponseField: "reply",
	}, fc.Handler)
	require.Len(t, fc.Themes, 1)
	assert.Equal(t, Color{R: 0, G: 128, B: 255, Bold: true}, fc.Themes[0].Prefix)
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	fc, err := ParseConfig([]byte(sampleProfile))
	require.NoError(t, err)

	config := newConfig(fc.Options())
	assert.Equal(t, "py>", config.Prefix)
	assert.False(t, config.EchoInput)
	assert.False(t, config.Autoscroll)
	assert.Equal(t, "ocean", config.Theme)
	assert.Equal(t, 2*time.Second, config.HandlerTimeout)
	assert.Equal(t, 5, config.HistoryConfig.MaxEntries)
	assert.Equal(t, ActionHistoryPrev, config.KeyMap.Action(CtrlEvent('p')))
	assert.Equal(t, ActionNone, config.KeyMap.Action(KeyEvent(KeyLeft)))
	assert.Equal(t, ActionSubmit, config.KeyMap.Action(KeyEvent(KeyEnter)), "defaults stay bound")
	assert.Equal(t, "ocean", LookupTheme("Ocean").Name)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "empty profile", yaml: ""},
		{name: "echo handler", yaml: "handler: {kind: echo}"},
		{name: "unknown handler", yaml: "handler: {kind: carrier-pigeon}", wantErr: "unknown handler kind"},
		{name: "missing endpoint", yaml: "handler: {kind: websocket}", wantErr: "needs an endpoint"},
		{name: "bad key", yaml: "keys: {hyper+x: submit}", wantErr: "unknown key"},
		{name: "bad action", yaml: "keys: {ctrl+x: explode}", wantErr: "unknown action"},
		{name: "unnamed theme", yaml: "themes: [{prefix: {r: 1}}]", wantErr: "theme without a name"},
		{name: "broken yaml", yaml: "prefix: [", wantErr: "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseConfig([]byte(tt.yaml))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: \"$\"\n"), 0o600))

	fc, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "$", fc.Prefix)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigNewHandler(t *testing.T) {
	t.Parallel()

	srv := newEchoServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		handler  HandlerConfig
		input    string
		expected string
	}{
		{name: "default echoes", input: "x", expected: "x"},
		{name: "discard", handler: HandlerConfig{Kind: HandlerDiscard}, input: "x", expected: ""},
		{name: "text", handler: HandlerConfig{Kind: HandlerText, Endpoint: srv.URL + "/api/text"}, input: "x", expected: "Hello back from server, you sent 'x'"},
		{name: "json", handler: HandlerConfig{Kind: "JSON", Endpoint: srv.URL + "/api/json"}, input: "x", expected: "x"},
		{name: "websocket", handler: HandlerConfig{Kind: HandlerWebSocket, Endpoint: "ws" + srv.URL[len("http"):] + "/api/ws"}, input: "x", expected: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fc := &FileConfig{Handler: tt.handler}
			handler, closeHandler, err := fc.NewHandler(srv.Client())
			require.NoError(t, err)
			defer closeHandler()

			got, err := handler(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, closeHandler, err := (&FileConfig{Handler: HandlerConfig{Kind: "smoke"}}).NewHandler(nil)
	assert.Error(t, err)
	assert.NoError(t, closeHandler())
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected InputEvent
		wantErr  bool
	}{
		{name: "enter", expected: KeyEvent(KeyEnter)},
		{name: " Up ", expected: KeyEvent(KeyUp)},
		{name: "esc", expected: KeyEvent(KeyEscape)},
		{name: "ctrl+p", expected: CtrlEvent('p')},
		{name: "CTRL+N", expected: CtrlEvent('n')},
		{name: "ctrl+up", expected: InputEvent{Key: KeyUp, Ctrl: true}},
		{name: "x", expected: RuneEvent('x')},
		{name: "ctrl+", wantErr: true},
		{name: "page-up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKey(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
