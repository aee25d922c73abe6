package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/backup"
	"github.com/diogenes-ai-code/sprout/internal/db"
	serrors "github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/server"
	"github.com/diogenes-ai-code/sprout/internal/tasks"
	"github.com/spf13/cobra"
)

// Serve command flags
var (
	servePort    int
	serveHost    string
	serveBrowser bool
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config, 18090)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host address to bind to (default from config, localhost)")
	serveCmd.Flags().BoolVar(&serveBrowser, "open", false, "Open the status endpoint in a browser")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board as a JSON API",
	Long: `Start an HTTP server exposing the board as a JSON API.

Requests act as the user whose email is sent in the X-Sprout-User header;
without it they are anonymous and read-only.

Endpoints:
  GET    /api/ideas                      list (q, view, status, tag, limit)
  POST   /api/ideas                      submit
  GET    /api/ideas/{number}             show
  POST   /api/ideas/{number}/respond     staff response
  POST   /api/ideas/{number}/support     support (DELETE to withdraw)
  GET    /api/ideas/{number}/comments    comments
  GET    /api/status                     board overview

Examples:
  sprout serve                    # Start on the configured port
  sprout serve --port 8080        # Start on a custom port
  sprout serve --host 0.0.0.0     # Bind to all interfaces`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	path := GetDBPath()
	if !db.Exists(path) {
		return serrors.NotFound("no board found at %s", displayDBPath(path)).
			WithSuggestion(SuggestRunInit)
	}
	database, err := db.Open(path)
	if err != nil {
		return ErrDatabase(err, "failed to open database")
	}
	defer database.Close()

	cfg := GetConfig()
	loc, err := cfg.Location()
	if err != nil {
		return ErrInvalidArgs("%v", err)
	}

	host, port := cfg.Server.Host, cfg.Server.Port
	if serveHost != "" {
		host = serveHost
	}
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Port:            port,
		Host:            host,
		DB:              database.DB,
		Location:        loc,
		AutoOpenBrowser: serveBrowser,
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Snapshots keep rotating while the server holds the database open.
	runCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()
	runner := tasks.NewBackupRunner(backup.NewManager(database.DB, database.Path(), cfg.Backup), tasks.DefaultCheckInterval, log)
	go runner.Run(runCtx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	OutputLine("Sprout API listening at http://%s/api", srv.Address())
	OutputLine("Press Ctrl+C to stop")

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stop:
		OutputLine("\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	OutputLine("Server stopped")
	return nil
}
