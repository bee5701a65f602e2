package echoserver

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(Config{}).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/text", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello back from server, you sent 'hi'", string(body))
}

func TestJSONEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(Config{}).Handler())
	t.Cleanup(srv.Close)

	tests := []struct {
		name     string
		body     string
		status   int
		expected string
	}{
		{name: "string ping", body: `{"ping":"hello"}`, status: http.StatusOK, expected: `{"pong":"hello"}`},
		{name: "object ping", body: `{"ping":{"a":1}}`, status: http.StatusOK, expected: `{"pong":{"a":1}}`},
		{name: "no ping", body: `{"other":1}`, status: http.StatusOK, expected: `{}`},
		{name: "invalid body", body: `{nope`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Post(srv.URL+"/api/json", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(body))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(Config{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/text")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWebSocketEcho(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(Config{}).Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	for _, msg := range []string{"one", "two"} {
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(msg)))
		typ, data, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, websocket.MessageText, typ)
		assert.Equal(t, msg, string(data))
	}
	assert.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>console</p>"), 0o600))

	srv := httptest.NewServer(New(Config{StaticDir: dir}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<p>console</p>", string(body))
}

func TestServeShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{}).Serve(ctx, ln)
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/text", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
