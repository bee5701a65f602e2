package console

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is a console profile stored as YAML.
//
//	prefix: "py>"
//	echoInput: true
//	autoscroll: true
//	theme: dracula
//	history:
//	  enabled: true
//	  maxEntries: 500
//	handler:
//	  kind: json
//	  endpoint: http://localhost:3000/api/json
//	  timeout: 10s
//	keys:
//	  ctrl+p: history-prev
//	  ctrl+n: history-next
type FileConfig struct {
	Prefix     string            `yaml:"prefix,omitempty"`
	EchoInput  *bool             `yaml:"echoInput,omitempty"`
	Autoscroll *bool             `yaml:"autoscroll,omitempty"`
	Theme      string            `yaml:"theme,omitempty"`
	History    *HistoryConfig    `yaml:"history,omitempty"`
	Handler    HandlerConfig     `yaml:"handler,omitempty"`
	Keys       map[string]string `yaml:"keys,omitempty"`
	Themes     []*ColorScheme    `yaml:"themes,omitempty"`
}

// HandlerConfig selects the handler built by FileConfig.NewHandler.
type HandlerConfig struct {
	Kind          string        `yaml:"kind,omitempty"` // echo, discard, text, json, websocket
	Endpoint      string        `yaml:"endpoint,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	RequestField  string        `yaml:"requestField,omitempty"`
	ResponseField string        `yaml:"responseField,omitempty"`
}

// Handler kinds understood by NewHandler.
const (
	HandlerEcho      = "echo"
	HandlerDiscard   = "discard"
	HandlerText      = "text"
	HandlerJSON      = "json"
	HandlerWebSocket = "websocket"
)

// LoadConfig reads a YAML profile from path.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML profile.
func ParseConfig(data []byte) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	return &fc, nil
}

// Validate checks handler settings and key bindings.
func (fc *FileConfig) Validate() error {
	var errs []error
	switch strings.ToLower(fc.Handler.Kind) {
	case "", HandlerEcho, HandlerDiscard:
	case HandlerText, HandlerJSON, HandlerWebSocket:
		if fc.Handler.Endpoint == "" {
			errs = append(errs, fmt.Errorf("handler %q needs an endpoint", fc.Handler.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown handler kind %q", fc.Handler.Kind))
	}
	for key, action := range fc.Keys {
		if _, err := ParseKey(key); err != nil {
			errs = append(errs, err)
		}
		if _, ok := ParseAction(action); !ok {
			errs = append(errs, fmt.Errorf("unknown action %q for key %q", action, key))
		}
	}
	for _, scheme := range fc.Themes {
		if scheme == nil || scheme.Name == "" {
			errs = append(errs, errors.New("theme without a name"))
		}
	}
	return errors.Join(errs...)
}

// Options converts the profile into session options. Custom themes are
// registered as a side effect.
func (fc *FileConfig) Options() []Option {
	var options []Option
	if fc.Prefix != "" {
		options = append(options, WithPrefix(fc.Prefix))
	}
	if fc.EchoInput != nil {
		options = append(options, WithEchoInput(*fc.EchoInput))
	}
	if fc.Autoscroll != nil {
		options = append(options, WithAutoscroll(*fc.Autoscroll))
	}
	for _, scheme := range fc.Themes {
		if scheme != nil && scheme.Name != "" {
			RegisterTheme(scheme.Name, scheme)
		}
	}
	if fc.Theme != "" {
		options = append(options, WithTheme(fc.Theme))
	}
	if fc.History != nil {
		options = append(options, WithHistory(fc.History))
	}
	if fc.Handler.Timeout > 0 {
		options = append(options, WithHandlerTimeout(fc.Handler.Timeout))
	}
	if len(fc.Keys) > 0 {
		keyMap := NewDefaultKeyMap()
		for key, name := range fc.Keys {
			ev, err := ParseKey(key)
			if err != nil {
				continue
			}
			if action, ok := ParseAction(name); ok {
				keyMap.Bind(ev, action)
			}
		}
		options = append(options, WithKeyMap(keyMap))
	}
	return options
}

// NewHandler builds the configured handler. The returned close function
// releases connections held by the handler and is never nil.
func (fc *FileConfig) NewHandler(client *http.Client) (Handler, func() error, error) {
	noop := func() error { return nil }
	var httpOptions []HTTPOption
	if client != nil {
		httpOptions = append(httpOptions, WithHTTPClient(client))
	}
	if fc.Handler.RequestField != "" {
		httpOptions = append(httpOptions, WithRequestField(fc.Handler.RequestField))
	}
	if fc.Handler.ResponseField != "" {
		httpOptions = append(httpOptions, WithResponseField(fc.Handler.ResponseField))
	}

	switch strings.ToLower(fc.Handler.Kind) {
	case "", HandlerEcho:
		return Identity(), noop, nil
	case HandlerDiscard:
		return Discard(), noop, nil
	case HandlerText:
		return HTTPText(fc.Handler.Endpoint, httpOptions...), noop, nil
	case HandlerJSON:
		return HTTPJSON(fc.Handler.Endpoint, httpOptions...), noop, nil
	case HandlerWebSocket:
		ws := NewWebSocketHandler(fc.Handler.Endpoint)
		return ws.Handle, ws.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown handler kind %q", fc.Handler.Kind)
	}
}

var namedKeys = map[string]Key{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"backspace": KeyBackspace,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
}

// ParseKey parses key names such as "enter", "up", "ctrl+p" or "x".
func ParseKey(name string) (InputEvent, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	ctrl := false
	if rest, ok := strings.CutPrefix(s, "ctrl+"); ok {
		ctrl = true
		s = rest
	}
	if k, ok := namedKeys[s]; ok {
		return InputEvent{Key: k, Ctrl: ctrl}, nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return InputEvent{}, fmt.Errorf("unknown key %q", name)
	}
	if ctrl {
		return CtrlEvent(runes[0]), nil
	}
	return RuneEvent(runes[0]), nil
}
