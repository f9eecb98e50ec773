package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/plotcast/plotcast/internal/store"
	"github.com/plotcast/plotcast/plot"
)

// maxPublishBody caps publish submissions. Generous because animated or
// high-resolution raster plots arrive base64-encoded.
const maxPublishBody = 50 << 20 // 50 MiB

// Config carries the settings the server needs at construction time.
type Config struct {
	// Host is the interface to bind. Defaults upstream to loopback.
	Host string

	// Port is the TCP port to bind. 0 picks an ephemeral port.
	Port int

	// Token gates viewer connections and publish calls. Empty means the
	// server is open and every request is authorized.
	Token string

	// Assets is the embedded viewer UI filesystem, rooted at "assets/".
	// May be nil, in which case no UI is served.
	Assets fs.FS

	// Logger receives server events. Must not be nil.
	Logger *slog.Logger
}

// Server accepts viewer WebSocket sessions and publish submissions, backed
// by a single artifact [store.Store] shared with in-process publishers.
//
// The lifecycle is New → [Server.Start] (binds the listener synchronously,
// then serves in the background) → [Server.Shutdown] (stops accepting,
// unwinds sessions, and joins the serve goroutine).
type Server struct {
	store  *store.Store
	cfg    Config
	logger *slog.Logger

	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Server around an existing store. The store is shared: the
// publish endpoint and in-process handle publishers write to the same
// instance the viewer sessions read.
func New(st *store.Store, cfg Config) *Server {
	return &Server{
		store:    st,
		cfg:      cfg,
		logger:   cfg.Logger,
		serveErr: make(chan error, 1),
	}
}

// Start binds the listener and begins serving in a background goroutine.
//
// The bind happens synchronously so an address-in-use or invalid host/port
// error is returned here, before any background work exists. After Start
// returns nil, [Server.Addr] reports the bound address (with the real port
// when port 0 was requested).
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/publish", s.handlePublish)
	mux.HandleFunc("/", s.handleAssets)

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: mux}

	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveErr <- err
	}()

	s.logger.Info("server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address. Valid after Start succeeds.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown stops the server and waits for the serving goroutine to end.
//
// The sequence is: drop every live subscription (which unwinds streaming
// sessions), stop accepting and drain in-flight requests, then join the
// accept loop. When Shutdown returns the port is released. The first call
// does the work; later calls return the first call's result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.store.Close()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.shutdownErr = fmt.Errorf("http shutdown: %w", err)
			// fall through: the listener is closed, still join the serve loop
		}

		if err := <-s.serveErr; err != nil && s.shutdownErr == nil {
			s.shutdownErr = fmt.Errorf("serve loop ended abnormally: %w", err)
		}
		s.logger.Info("server stopped")
	})
	return s.shutdownErr
}

// handleHealth answers liveness probes from external tooling.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

// publishRequest defers content decoding so authorization is checked before
// the submission is parsed any further.
type publishRequest struct {
	Token   string          `json:"token"`
	Content json.RawMessage `json:"content"`
}

type publishResponse struct {
	ID string `json:"id"`
}

// handlePublish admits one artifact into the store.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPublishBody)

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !tokenValid(s.cfg.Token, req.Token) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var content plot.Content
	if err := json.Unmarshal(req.Content, &content); err != nil {
		http.Error(w, fmt.Sprintf("invalid content: %v", err), http.StatusBadRequest)
		return
	}

	artifact := plot.New(content)
	if !s.store.Push(artifact) {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.logger.Debug("artifact published", "id", artifact.ID, "kind", content.Kind())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(publishResponse{ID: artifact.ID}); err != nil {
		s.logger.Error("failed to encode publish response", "error", err)
	}
}

// handleAssets serves the embedded viewer single-page app. Paths that do not
// match an asset and do not look like file requests fall back to index.html
// so client-side routes resolve.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Assets == nil {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	data, err := fs.ReadFile(s.cfg.Assets, "assets/"+name)
	if err != nil {
		if strings.Contains(name, ".") {
			http.NotFound(w, r)
			return
		}
		data, err = fs.ReadFile(s.cfg.Assets, "assets/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		name = "index.html"
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write asset", "path", name, "error", err)
	}
}
