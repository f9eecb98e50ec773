package plotcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/plotcast/plotcast/internal/server"
	"github.com/plotcast/plotcast/internal/store"
	"github.com/plotcast/plotcast/plot"
)

const (
	defaultHost         = "127.0.0.1"
	defaultPort         = 7878
	defaultHistoryLimit = 200
)

// ErrShutdown is returned by [Handle.Publish] after the server has been
// shut down.
var ErrShutdown = errors.New("plotcast: server is shut down")

// Handle represents a running plotcast server.
//
// A Handle is safe to share across goroutines and host-language bindings;
// all external collaborators publish and stop the server through it. It is
// created exactly once by [Start] and remains valid until [Handle.Shutdown]
// returns.
type Handle struct {
	store  *store.Store
	server *server.Server
	token  string
	logger *slog.Logger
}

// Start creates and starts a plotcast server.
//
// Defaults: loopback host, port 7878, history limit 200, no token (open
// server), no viewer UI. Use [WithPort] with 0 to pick an ephemeral port.
//
// The listener is bound before Start returns: on error (invalid host/port,
// address in use, bad option) no Handle is produced and no background work
// is left running. On success the server is accepting viewers and
// publishes, and the caller owns the Handle until [Handle.Shutdown].
func Start(opts ...Option) (*Handle, error) {
	cfg := &config{
		host:         defaultHost,
		port:         defaultPort,
		historyLimit: defaultHistoryLimit,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	st := store.New(cfg.historyLimit)
	srv := server.New(st, server.Config{
		Host:   cfg.host,
		Port:   cfg.port,
		Token:  cfg.token,
		Assets: cfg.assets,
		Logger: logger,
	})
	if err := srv.Start(); err != nil {
		return nil, err
	}

	return &Handle{
		store:  st,
		server: srv,
		token:  cfg.token,
		logger: logger,
	}, nil
}

// Addr returns the bound address of the server, e.g. "127.0.0.1:7878".
// When port 0 was requested this carries the actual ephemeral port.
func (h *Handle) Addr() string {
	return h.server.Addr().String()
}

// Token returns the configured authorization token, or the empty string for
// an open server.
func (h *Handle) Token() string {
	return h.token
}

// Publish creates an artifact from content and admits it into the history,
// fanning it out to every connected viewer. It returns the assigned
// artifact id.
//
// Publish goes through the same store operation as the HTTP publish
// endpoint, so in-process and network publishers observe identical ordering.
// Publishing after [Handle.Shutdown] returns [ErrShutdown].
func (h *Handle) Publish(content plot.Content) (string, error) {
	if !content.Valid() {
		return "", fmt.Errorf("plotcast: invalid content: unknown kind %q", content.Kind())
	}

	artifact := plot.New(content)
	if !h.store.Push(artifact) {
		return "", ErrShutdown
	}
	h.logger.Debug("artifact published", "id", artifact.ID, "kind", content.Kind())
	return artifact.ID, nil
}

// Shutdown stops the server: it stops accepting connections, ends every
// viewer session, lets an in-flight request finish, and waits for the
// serving goroutine to exit. It is a join, not a signal: when Shutdown
// returns nil the port is free.
//
// The context bounds how long in-flight requests may take to drain. A
// non-nil error means clean teardown could not be confirmed and the caller
// should report failure. Calling Shutdown again returns the first result.
func (h *Handle) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}
