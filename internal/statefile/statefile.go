// Package statefile persists the record of a running plotcast server so
// external tooling can find, probe, and stop it.
//
// The record (address, token, owning pid) is written before the server's
// listener is confirmed live and removed on clean shutdown. Whether a
// record describes a live server or a stale leftover is decided by a single
// liveness probe against the recorded address; one failed probe is treated
// as sufficient evidence of staleness.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// probeTimeout bounds the health check. The server is local, so anything
// slower than this means it is not there.
const probeTimeout = 500 * time.Millisecond

// Record describes a running (or formerly running) server.
type Record struct {
	// PID is the process that owns the server.
	PID int `json:"pid"`

	// Addr is the bound host:port.
	Addr string `json:"addr"`

	// Token is the authorization token, empty for an open server.
	Token string `json:"token,omitempty"`
}

// Path returns the platform state file location,
// e.g. ~/.config/plotcast/server.json on Linux.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "plotcast", "server.json"), nil
}

// Read loads the record at path. A missing file returns (nil, nil); an
// unreadable or unparseable file is an error so callers do not mistake
// corruption for "not running".
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return &rec, nil
}

// Write persists the record at path, creating parent directories as needed.
func Write(path string, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Remove deletes the state file. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// Alive probes the /health route at addr and reports whether a server
// answered. One failed probe is treated as "not running".
func Alive(addr string) bool {
	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get("http://" + addr + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
