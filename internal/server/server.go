// Package server provides the JSON HTTP API for sprout.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/logger"
	"github.com/diogenes-ai-code/sprout/internal/service"
)

// UserHeader carries the email of the acting user on API requests.
const UserHeader = "X-Sprout-User"

// Config holds the server configuration.
type Config struct {
	// Port is the TCP port to listen on (default 18090).
	Port int

	// Host is the address to bind to (default "localhost").
	Host string

	// DB is the database connection.
	DB *sql.DB

	// Location is used for display dates. Nil means local time.
	Location *time.Location

	// AutoOpenBrowser opens the browser on start if true.
	AutoOpenBrowser bool

	// Logger for server events (optional).
	Logger *slog.Logger
}

// Server is the HTTP server for the sprout API.
type Server struct {
	config     Config
	httpServer *http.Server
	router     *http.ServeMux
	logger     *slog.Logger
	now        func() time.Time

	ideas     *service.IdeaService
	responses *service.ResponseService
	tags      *service.TagService
	users     *service.UserService
	status    *service.StatusService
}

// New creates a new Server with the given configuration.
func New(config Config) (*Server, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if config.Port == 0 {
		config.Port = 18090
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Location == nil {
		config.Location = time.Local
	}

	log := config.Logger
	if log == nil {
		log = logger.NewNope()
	}

	s := &Server{
		config:    config,
		router:    http.NewServeMux(),
		logger:    log,
		now:       time.Now,
		ideas:     service.NewIdeaService(config.DB, log),
		responses: service.NewResponseService(config.DB, log),
		tags:      service.NewTagService(config.DB, log),
		users:     service.NewUserService(config.DB, log),
		status:    service.NewStatusService(config.DB),
	}

	s.setupRoutes()

	return s, nil
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withRecovery(s.router))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.Address()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	url := fmt.Sprintf("http://%s", listener.Addr().String())
	s.logger.Info("server started", "url", url)

	if s.config.AutoOpenBrowser {
		go func() {
			time.Sleep(100 * time.Millisecond)
			if err := openBrowser(url + "/api/status"); err != nil {
				s.logger.Warn("failed to open browser", "error", err)
			}
		}()
	}

	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address (e.g., "localhost:18090").
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
