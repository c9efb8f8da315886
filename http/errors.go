package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case weldmark.ENOTFOUND:
		return http.StatusNotFound
	case weldmark.EINVALID:
		return http.StatusBadRequest
	case weldmark.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case weldmark.EFORBIDDEN:
		return http.StatusForbidden
	case weldmark.ECONFLICT, weldmark.EILLEGALSTATE:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleError converts domain errors to appropriate HTTP responses.
// It logs internal errors and returns user-safe messages.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := weldmark.ErrorCode(err)
	message := weldmark.ErrorMessage(err)
	fields := weldmark.ErrorFields(err)
	status := errorStatusCode(code)

	// Log internal errors with full details
	if code == weldmark.EINTERNAL {
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
		// Don't expose internal error details to clients
		message = "An internal error occurred."
	}

	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Fields:  fields,
	})
}
