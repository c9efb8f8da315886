// Package http provides the HTTP transport layer on top of the domain
// services, built on Echo.
package http

import (
	"context"
	"log/slog"
	"net"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
)

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr   string
	Domain string

	// Domain services
	orderService         weldmark.OrderService
	photoDocumentService weldmark.PhotoDocumentService
	reportService        weldmark.ReportService
	auditService         weldmark.AuditService

	// External services
	fileStorage  weldmark.FileStorage
	emailService weldmark.EmailService
	queue        weldmark.Queue
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Domain string
	Logger *slog.Logger

	// Domain services
	OrderService         weldmark.OrderService
	PhotoDocumentService weldmark.PhotoDocumentService
	ReportService        weldmark.ReportService
	AuditService         weldmark.AuditService

	// External services
	FileStorage  weldmark.FileStorage
	EmailService weldmark.EmailService
	Queue        weldmark.Queue
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:                 cfg.Addr,
		Domain:               cfg.Domain,
		logger:               cfg.Logger,
		orderService:         cfg.OrderService,
		photoDocumentService: cfg.PhotoDocumentService,
		reportService:        cfg.ReportService,
		auditService:         cfg.AuditService,
		fileStorage:          cfg.FileStorage,
		emailService:         cfg.EmailService,
		queue:                cfg.Queue,
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true

	// Register middleware and routes
	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
