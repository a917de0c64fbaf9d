package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"grindccat/internal/http/middleware"
	"grindccat/internal/logging"
)

type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusErrors are the envelopes for statuses Fiber raises on its own.
var statusErrors = map[int]errorEnvelope{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"BODY_TOO_LARGE", "request body too large"},
	fiber.StatusServiceUnavailable:    {"UNAVAILABLE", "service temporarily unavailable"},
}

var internalEnvelope = errorEnvelope{"INTERNAL_ERROR", "internal server error"}

func requestIDFromCtx(c *fiber.Ctx) string {
	s, _ := c.Locals(middleware.RequestIDLocalKey).(string)
	return s
}

// writeError writes the error envelope. message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// internalError logs err with the request ID and writes a 500 carrying
// message. A timed-out dependency is reported as 503 instead.
func internalError(c *fiber.Ctx, log *logging.Logger, event, message string, err error) error {
	log.With("http").Error(event, err, map[string]any{
		"request_id": requestIDFromCtx(c),
		"path":       c.Path(),
	})
	if errors.Is(err, context.DeadlineExceeded) {
		e := statusErrors[fiber.StatusServiceUnavailable]
		return writeError(c, fiber.StatusServiceUnavailable, e.Code, e.Message)
	}
	return writeError(c, fiber.StatusInternalServerError, internalEnvelope.Code, message)
}

// ErrorHandler is the app-wide Fiber error handler. Errors that are not
// *fiber.Error never passed through a handler's own mapping, so they are logged.
func ErrorHandler(log *logging.Logger) fiber.ErrorHandler {
	log = log.With("http")

	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			log.Error("unhandled_error", err, map[string]any{
				"request_id": requestIDFromCtx(c),
				"method":     c.Method(),
				"path":       c.Path(),
			})
			return writeError(c, fiber.StatusInternalServerError, internalEnvelope.Code, internalEnvelope.Message)
		}

		e, ok := statusErrors[fe.Code]
		if !ok {
			e = internalEnvelope
		}
		return writeError(c, fe.Code, e.Code, e.Message)
	}
}
