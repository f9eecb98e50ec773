package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/plotcast/plotcast"
	"github.com/plotcast/plotcast/config"
	"github.com/plotcast/plotcast/internal/statefile"
	"github.com/plotcast/plotcast/web"
)

const shutdownTimeout = 10 * time.Second

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the plotcast viewer server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the viewer server",
	Long: `Start the plotcast viewer server.

The server will:
  - Load configuration from the config file (flags override it)
  - Record its address and token in a state file for status/stop/open
  - Serve the viewer UI, the WebSocket stream, and the publish API

A token is generated when none is given; pass --token "" explicitly to run
an open server. The server runs until interrupted (Ctrl+C) or stopped with
'plotcast stop'.

Example:
  plotcast serve
  plotcast serve --port 0 --history-limit 500`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (default: platform config dir)")
	serveCmd.Flags().String("host", "", "host to bind (overrides config file)")
	serveCmd.Flags().Int("port", 0, "port to bind, 0 for ephemeral (overrides config file)")
	serveCmd.Flags().String("token", "", "authorization token (auto-generated if not specified)")
	serveCmd.Flags().Int("history-limit", 0, "maximum plots kept in history (overrides config file)")
	serveCmd.Flags().Bool("open", false, "open the viewer UI in a browser (overrides config file)")
}

// resolveConfig loads the config file and applies explicitly-set flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("history-limit") {
		cfg.HistoryLimit, _ = cmd.Flags().GetInt("history-limit")
	}
	if cmd.Flags().Changed("open") {
		cfg.OpenBrowser, _ = cmd.Flags().GetBool("open")
	}
	return cfg, nil
}

// generateToken returns a fresh capability token: a uuid without dashes.
func generateToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// token set explicitly (even to "") wins; otherwise generate one
	token := generateToken()
	if cmd.Flags().Changed("token") {
		token, _ = cmd.Flags().GetString("token")
	}

	statePath, err := statefile.Path()
	if err != nil {
		return err
	}

	// refuse to double-start; clean up leftovers from a crashed server
	if rec, err := statefile.Read(statePath); err == nil && rec != nil {
		if statefile.Alive(rec.Addr) {
			fmt.Printf("Server already running at http://%s\n", rec.Addr)
			return nil
		}
		_ = statefile.Remove(statePath)
	}

	// the record exists before the listener is confirmed live: by the time
	// /health answers, clients can rely on this file
	rec := statefile.Record{
		PID:   os.Getpid(),
		Addr:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Token: token,
	}
	if err := statefile.Write(statePath, rec); err != nil {
		return err
	}

	h, err := plotcast.Start(
		plotcast.WithHost(cfg.Host),
		plotcast.WithPort(cfg.Port),
		plotcast.WithToken(token),
		plotcast.WithHistoryLimit(cfg.HistoryLimit),
		plotcast.WithAssets(web.Assets),
		plotcast.WithLogger(logger),
	)
	if err != nil {
		_ = statefile.Remove(statePath)
		return fmt.Errorf("failed to start server: %w", err)
	}

	// an ephemeral port is only known after binding
	if rec.Addr != h.Addr() {
		rec.Addr = h.Addr()
		if err := statefile.Write(statePath, rec); err != nil {
			logger.Warn("failed to update state file", "error", err)
		}
	}

	url := "http://" + h.Addr() + "/"
	fmt.Println("plotcast server started")
	fmt.Printf("  Address: http://%s\n", h.Addr())
	if token != "" {
		fmt.Printf("  Token: %s\n", token)
		url += "?token=" + token
		fmt.Printf("  URL: %s\n", url)
	}

	if cfg.OpenBrowser {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("failed to open browser", "error", err)
		}
	}

	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := h.Shutdown(shutdownCtx)

	_ = statefile.Remove(statePath)

	if shutdownErr != nil {
		// clean teardown could not be confirmed: report failure upwards
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	logger.Info("shutdown complete")
	return nil
}
