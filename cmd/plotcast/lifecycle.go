package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/plotcast/plotcast/internal/statefile"
)

// statusCmd reports whether a server is running.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check if a server is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statefile.Path()
		if err != nil {
			return err
		}
		rec, err := statefile.Read(path)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("Server not running")
			return nil
		}

		if !statefile.Alive(rec.Addr) {
			fmt.Println("Server not running (stale state file)")
			return statefile.Remove(path)
		}

		fmt.Println("Server running")
		fmt.Printf("  PID: %d\n", rec.PID)
		fmt.Printf("  Address: http://%s\n", rec.Addr)
		if rec.Token != "" {
			fmt.Printf("  Token: %s\n", rec.Token)
			fmt.Printf("  URL: http://%s/?token=%s\n", rec.Addr, rec.Token)
		}
		return nil
	},
}

// stopCmd signals the recorded server process to shut down.
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statefile.Path()
		if err != nil {
			return err
		}
		rec, err := statefile.Read(path)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("No server state found")
			return nil
		}

		if !statefile.Alive(rec.Addr) {
			fmt.Println("Server not running")
			return statefile.Remove(path)
		}

		proc, err := os.FindProcess(rec.PID)
		if err != nil {
			return fmt.Errorf("failed to find server process %d: %w", rec.PID, err)
		}
		if err := proc.Signal(syscall.SIGTERM); err != nil {
			return fmt.Errorf("failed to signal server process %d: %w", rec.PID, err)
		}
		fmt.Printf("Sent stop signal to server (PID %d)\n", rec.PID)

		// give the server a moment, then verify
		time.Sleep(500 * time.Millisecond)
		if statefile.Alive(rec.Addr) {
			fmt.Println("Server still running, may need manual kill")
			return nil
		}
		fmt.Println("Server stopped")
		return statefile.Remove(path)
	},
}

// openCmd opens the viewer UI for the running server.
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the viewer UI in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statefile.Path()
		if err != nil {
			return err
		}
		rec, err := statefile.Read(path)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("No server running. Start one with: plotcast serve")
			return nil
		}

		if !statefile.Alive(rec.Addr) {
			fmt.Println("Server not running")
			return statefile.Remove(path)
		}

		url := fmt.Sprintf("http://%s/", rec.Addr)
		if rec.Token != "" {
			url += "?token=" + rec.Token
		}
		fmt.Printf("Opening %s\n", url)
		return browser.OpenURL(url)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(openCmd)
}
