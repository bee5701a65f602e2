package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Handler turns a submitted line into output. An empty result writes nothing.
// A returned error is reported in the scrollback and does not end an
// interactive loop.
type Handler func(ctx context.Context, input string) (string, error)

// Identity returns a handler that echoes its input.
func Identity() Handler {
	return func(_ context.Context, input string) (string, error) {
		return input, nil
	}
}

// Discard returns a handler that produces no output.
func Discard() Handler {
	return func(context.Context, string) (string, error) {
		return "", nil
	}
}

// Transform returns a handler that applies fn to the input.
//
// Example:
//
//	s.StartInteractive(ctx, console.HandleWith(console.Transform(strings.ToUpper)))
func Transform(fn func(string) string) Handler {
	return func(_ context.Context, input string) (string, error) {
		return fn(input), nil
	}
}

// defaultHTTPTimeout bounds HTTP handlers that were given no client.
const defaultHTTPTimeout = 30 * time.Second

// maxReplySize caps how much of a reply body is read.
const maxReplySize = 1 << 20

// HTTPOption configures the HTTP handlers.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	client        *http.Client
	requestField  string
	responseField string
	header        http.Header
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *httpConfig) {
		c.client = client
	}
}

// WithRequestField sets the JSON field the input is sent in (default: "ping").
func WithRequestField(path string) HTTPOption {
	return func(c *httpConfig) {
		c.requestField = path
	}
}

// WithResponseField sets the JSON field read from the reply (default: "pong").
// The path uses gjson syntax.
func WithResponseField(path string) HTTPOption {
	return func(c *httpConfig) {
		c.responseField = path
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(c *httpConfig) {
		c.header.Add(key, value)
	}
}

func newHTTPConfig(options []HTTPOption) *httpConfig {
	c := &httpConfig{
		client:        &http.Client{Timeout: defaultHTTPTimeout},
		requestField:  "ping",
		responseField: "pong",
		header:        make(http.Header),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// HTTPText returns a handler that POSTs the input as text/plain to url and
// shows the reply body.
func HTTPText(url string, options ...HTTPOption) Handler {
	c := newHTTPConfig(options)
	return func(ctx context.Context, input string) (string, error) {
		body, err := c.post(ctx, url, "text/plain; charset=utf-8", []byte(input))
		if err != nil {
			return "", err
		}
		return string(body), nil
	}
}

// HTTPJSON returns a handler that POSTs {"ping": input} to url and shows the
// "pong" field of the reply. Field names are configurable with
// WithRequestField and WithResponseField. A reply without the field is shown
// verbatim.
func HTTPJSON(url string, options ...HTTPOption) Handler {
	c := newHTTPConfig(options)
	return func(ctx context.Context, input string) (string, error) {
		payload, err := sjson.SetBytes([]byte(`{}`), c.requestField, input)
		if err != nil {
			return "", fmt.Errorf("failed to build request: %w", err)
		}
		body, err := c.post(ctx, url, "application/json", payload)
		if err != nil {
			return "", err
		}
		if !gjson.ValidBytes(body) {
			return "", fmt.Errorf("invalid JSON reply from %s", url)
		}
		field := gjson.GetBytes(body, c.responseField)
		if !field.Exists() {
			return strings.TrimSpace(string(body)), nil
		}
		return field.String(), nil
	}
}

func (c *httpConfig) post(ctx context.Context, url, contentType string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s replied %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// WebSocketHandler sends each input as a text message over one WebSocket
// connection and shows the next message it receives. The connection is dialed
// on first use and redialed after a failure.
type WebSocketHandler struct {
	url  string
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketHandler creates a handler for the WebSocket endpoint at url.
//
// Example:
//
//	ws := console.NewWebSocketHandler("ws://localhost:3000/api/ws")
//	defer ws.Close()
//	s.StartInteractive(ctx, console.HandleWith(ws.Handle))
func NewWebSocketHandler(url string) *WebSocketHandler {
	return &WebSocketHandler{url: url}
}

// Handle is the Handler. Calls are serialized so replies match requests.
func (w *WebSocketHandler) Handle(ctx context.Context, input string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, _, err := websocket.Dial(ctx, w.url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to dial %s: %w", w.url, err)
		}
		conn.SetReadLimit(maxReplySize)
		w.conn = conn
	}

	if err := w.conn.Write(ctx, websocket.MessageText, []byte(input)); err != nil {
		w.reset()
		return "", fmt.Errorf("failed to send: %w", err)
	}
	_, data, err := w.conn.Read(ctx)
	if err != nil {
		w.reset()
		return "", fmt.Errorf("failed to receive: %w", err)
	}
	return string(data), nil
}

func (w *WebSocketHandler) reset() {
	if w.conn != nil {
		w.conn.CloseNow()
		w.conn = nil
	}
}

// Close closes the connection if one is open.
func (w *WebSocketHandler) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close(websocket.StatusNormalClosure, "")
	w.conn = nil
	return err
}
