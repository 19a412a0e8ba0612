package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"moviesapi/internal/http/middleware"
	"moviesapi/internal/logger"
	"moviesapi/internal/service"
)

// Failure messages written by the transport itself.
const (
	msgInvalidJSON      = "Invalid JSON format"
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
	msgBadRequest       = "Bad request"
	msgStoreUnavailable = "Database connection error"
	msgServerError      = "Server Error"
)

var errInvalidJSON = fiber.NewError(fiber.StatusBadRequest, msgInvalidJSON)

// statusCodes maps pipeline outcomes onto HTTP.
var statusCodes = map[service.Status]int{
	service.StatusOK:          fiber.StatusOK,
	service.StatusCreated:     fiber.StatusCreated,
	service.StatusClientError: fiber.StatusBadRequest,
	service.StatusNotFound:    fiber.StatusNotFound,
}

// writeError writes a failed envelope. The message must be safe to show;
// internal error text never reaches the client.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(service.Envelope{Success: false, Message: message})
}

// respond writes a pipeline outcome. A non-nil err is logged with the request
// id and answered with a generic body: 503 when the store did not respond,
// 500 otherwise.
func respond(c *fiber.Ctx, res service.Result, err error) error {
	if err != nil {
		status, msg := fiber.StatusInternalServerError, msgServerError
		if errors.Is(err, service.ErrStoreUnavailable) {
			status, msg = fiber.StatusServiceUnavailable, msgStoreUnavailable
		}
		logFor(c).Error().Err(err).Str("path", c.Path()).Int("status", status).Msg("request failed")
		return writeError(c, status, msg)
	}

	code, ok := statusCodes[res.Status]
	if !ok {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(res.Envelope)
}

// logFor returns the request-scoped logger set by middleware.Logger, or the
// root logger tagged with the request id when that middleware is absent.
func logFor(c *fiber.Ctx) *zerolog.Logger {
	if l := zerolog.Ctx(c.UserContext()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	child := logger.Get().With().Str("request_id", middleware.RequestIDFrom(c)).Logger()
	return &child
}

// ErrorHandler returns a Fiber global error handler that renders framework
// errors (unknown route, wrong method, malformed body, recovered panics) in
// the response envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			if fe != nil && fe.Message == msgInvalidJSON {
				return writeError(c, status, msgInvalidJSON)
			}
			return writeError(c, status, msgBadRequest)
		case fiber.StatusNotFound:
			return writeError(c, status, msgRouteNotFound)
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, msgMethodNotAllowed)
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, msgStoreUnavailable)
		default:
			if status >= fiber.StatusInternalServerError {
				logFor(c).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
				return writeError(c, fiber.StatusInternalServerError, msgServerError)
			}
			msg := fiber.NewError(status).Message
			if fe != nil && fe.Message != "" {
				msg = fe.Message
			}
			return writeError(c, status, msg)
		}
	}
}
