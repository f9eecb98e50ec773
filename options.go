package plotcast

import (
	"fmt"
	"io/fs"
	"log/slog"
)

// config holds the pre-validation state built up by options.
type config struct {
	host         string
	port         int
	token        string
	historyLimit int
	assets       fs.FS
	logger       *slog.Logger
}

// Option configures the server created by [Start].
type Option func(*config) error

// WithHost sets the interface to bind. Default is loopback ("127.0.0.1");
// bind a non-loopback interface only together with [WithToken].
func WithHost(host string) Option {
	return func(c *config) error {
		if host == "" {
			return fmt.Errorf("host cannot be empty")
		}
		c.host = host
		return nil
	}
}

// WithPort sets the TCP port to bind. Port 0 picks an ephemeral port, which
// [Handle.Addr] then reports. Default is 7878.
func WithPort(port int) Option {
	return func(c *config) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("port must be between 0 and 65535, got %d", port)
		}
		c.port = port
		return nil
	}
}

// WithToken sets the authorization token required of every viewer
// connection and publish call. Without this option the server is open and
// accepts every request.
func WithToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithHistoryLimit sets how many artifacts are retained for replay to new
// viewers. When a publish would exceed the limit the oldest artifacts are
// evicted. Default is 200.
func WithHistoryLimit(limit int) Option {
	return func(c *config) error {
		if limit < 1 {
			return fmt.Errorf("history limit must be positive, got %d", limit)
		}
		c.historyLimit = limit
		return nil
	}
}

// WithAssets sets the viewer UI filesystem served at "/". The filesystem
// must contain an assets/ directory with an index.html; [web.Assets] is the
// bundled UI. Without this option no UI is served and the server is
// API-only.
func WithAssets(assets fs.FS) Option {
	return func(c *config) error {
		c.assets = assets
		return nil
	}
}

// WithLogger sets the logger for server events. Defaults to
// [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
