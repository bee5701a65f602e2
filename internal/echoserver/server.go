// Package echoserver is a small backend for trying out the console handlers.
//
// Routes:
//
//	POST /api/text  text body, replies "Hello back from server, you sent '<body>'"
//	POST /api/json  {"ping": x}, replies {"pong": x}
//	GET  /api/ws    WebSocket, echoes every text message
//	GET  /          files from the static directory, if one is set
package echoserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Config describes the server.
type Config struct {
	Addr      string // Listen address (default ":3000")
	StaticDir string // Directory served at "/" (empty = none)
	Logger    *slog.Logger
}

// Server is the echo backend.
type Server struct {
	cfg    Config
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{cfg: cfg, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/text", s.handleText)
	s.mux.HandleFunc("POST /api/json", s.handleJSON)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
	if s.cfg.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("echo server running", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("got request to text endpoint")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello back from server, you sent '%s'", body)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("got request to json endpoint")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if !gjson.ValidBytes(body) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	s.logger.Debug("json request", "body", string(body))

	reply := []byte(`{}`)
	if ping := gjson.GetBytes(body, "ping"); ping.Exists() {
		reply, err = sjson.SetRawBytes(reply, "pong", []byte(ping.Raw))
		if err != nil {
			http.Error(w, "failed to build reply", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(reply)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxBodySize)

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				s.logger.Debug("websocket read ended", "error", err)
			}
			return
		}
		if err := conn.Write(ctx, typ, data); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}
