// Package bridge serves assistant commands to editors over a local
// WebSocket connection.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/assistant"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/language"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/selection"
)

// DefaultAddr keeps the bridge on loopback.
const DefaultAddr = "127.0.0.1:7331"

const writeTimeout = 10 * time.Second

// Frame types sent to clients.
const (
	TypeHello  = "hello"
	TypeResult = "result"
	TypeError  = "error"
)

// Request is a command frame sent by the editor.
type Request struct {
	ID           string `json:"id"`
	Command      string `json:"command"`
	Prompt       string `json:"prompt,omitempty"`
	Code         string `json:"code,omitempty"`
	Language     string `json:"language,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	Lines        string `json:"lines,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Style        string `json:"style,omitempty"`
}

// Response is a frame sent back to the editor. ID echoes the request.
type Response struct {
	Type         string `json:"type"`
	ID           string `json:"id,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
	Text         string `json:"text,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Server accepts editor connections on /ws and reports liveness on /health.
type Server struct {
	assistant *assistant.Assistant
	docsStyle string
	version   string
	logger    *slog.Logger

	upgrader websocket.Upgrader
	server   *http.Server
	clients  sync.Map // connection id -> *client
	active   atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithDocsStyle sets the default documentation style.
func WithDocsStyle(style string) Option {
	return func(s *Server) { s.docsStyle = style }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a bridge server.
func New(a *assistant.Assistant, opts ...Option) *Server {
	s := &Server{
		assistant: a,
		logger:    slog.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin: localOrigin,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("bridge listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the HTTP server down and closes open connections.
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}

	s.clients.Range(func(key, value any) bool {
		if c, ok := value.(*client); ok {
			_ = c.conn.Close()
		}
		return true
	})
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	return int(s.active.Load())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"clients": s.Clients(),
	})
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(resp Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := &client{id: uuid.NewString(), conn: conn}
	s.clients.Store(c.id, c)
	s.active.Add(1)
	defer func() {
		s.clients.Delete(c.id)
		s.active.Add(-1)
	}()

	log := s.logger.With("conn", c.id)
	log.Info("editor connected", "remote", r.RemoteAddr)

	// In-flight commands are canceled when the connection goes away.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := c.send(Response{Type: TypeHello, ConnectionID: c.id}); err != nil {
		log.Warn("send hello failed", "error", err)
		return
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			break
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			_ = c.send(Response{Type: TypeError, Error: "invalid request: " + err.Error()})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.handleRequest(ctx, req)
			if err := c.send(resp); err != nil {
				log.Warn("send response failed", "id", req.ID, "error", err)
			}
		}()
	}

	cancel()
	log.Info("editor disconnected")
}

func (s *Server) handleRequest(ctx context.Context, req Request) Response {
	lines, err := selection.ParseRange(req.Lines)
	if err != nil {
		return Response{Type: TypeError, ID: req.ID, Error: err.Error()}
	}

	d := assistant.NewDispatcher(s.assistant,
		assistant.WithCodeContext(selection.First{
			selection.Static(req.Code),
			selection.File{Path: req.FilePath, Lines: lines},
		}),
		assistant.WithLanguageDetector(language.Detector{
			Override: req.Language,
			FilePath: req.FilePath,
		}),
		assistant.WithDocsStyle(s.docsStyle),
	)

	start := time.Now()
	text, err := d.Dispatch(ctx, assistant.Command{
		Name:         req.Command,
		Args:         []string{req.Prompt},
		FilePath:     req.FilePath,
		ErrorMessage: req.ErrorMessage,
		Style:        req.Style,
	})
	if err != nil {
		s.logger.Debug("command failed", "id", req.ID, "command", req.Command, "error", err)
		return Response{Type: TypeError, ID: req.ID, Error: err.Error()}
	}

	s.logger.Debug("command completed", "id", req.ID, "command", req.Command, "elapsed", time.Since(start))
	return Response{Type: TypeResult, ID: req.ID, Text: text}
}

// localOrigin admits clients without an Origin header (editors) and pages
// served from loopback.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
