package http

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
)

// withTimeout creates a context with a timeout for handler operations.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), DefaultTimeout)
}

// parseUUID parses a UUID from a string, returning a domain error if invalid.
func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, weldmark.Invalid("Invalid ID format")
	}
	return id, nil
}

// requireParam extracts a required route parameter, returning error if empty.
func requireParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", weldmark.Invalid("%s is required", name)
	}
	return value, nil
}

// requireUUIDParam extracts and parses a required UUID route parameter.
func requireUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	value, err := requireParam(c, name)
	if err != nil {
		return uuid.UUID{}, err
	}
	return parseUUID(value)
}

// requireReviewerID extracts the identified reviewer's ID from context.
func requireReviewerID(c echo.Context) (uuid.UUID, error) {
	id := weldmark.ReviewerIDFromContext(c.Request().Context())
	if id == uuid.Nil {
		return uuid.UUID{}, weldmark.Unauthorized("Reviewer identification required")
	}
	return id, nil
}

// bind binds the request body to a struct.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return weldmark.Invalid("Invalid request body")
	}
	return nil
}

// pagination extracts offset/limit query parameters with sane defaults.
func pagination(c echo.Context) (offset, limit int) {
	limit = 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return offset, limit
}

// log returns the request-scoped logger.
func (s *Server) log(c echo.Context) *slog.Logger {
	return s.getRequestLogger(c)
}

// record appends the event to the audit trail, logging on failure. A lost
// audit entry never fails a request that already committed its write.
func (s *Server) record(c echo.Context, event *weldmark.Event) {
	if event == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	if err := s.auditService.RecordEvent(ctx, event); err != nil {
		s.log(c).Error("failed to record audit event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

// Health handlers

func (s *Server) handleHealthCheck(c echo.Context) error {
	return RespondOK(c, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleLivenessCheck(c echo.Context) error {
	return RespondOK(c, map[string]string{"status": "alive"})
}

func (s *Server) handleReadinessCheck(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	// A cheap read proves the database path works.
	if _, _, err := s.orderService.FindOrders(ctx, weldmark.OrderFilter{Limit: 1}); err != nil {
		return weldmark.Internal("Database not ready", err)
	}
	return RespondOK(c, map[string]string{"status": "ready"})
}
