package server

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/middleware/authware"
)

// errorHandler is the single place errors become HTTP responses. Every
// error reaching fiber ends up here, so handlers and middleware just return
// rich errors and never shape JSON failure bodies themselves.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		s.logger.Error("unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "internal server error",
		})
	}

	status := rich.Code
	if status < fiber.StatusBadRequest {
		status = statusFromCategory(rich.Category)
	}

	message := rich.Message
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("internal error: %v", err)
		message = "internal server error"
	}

	body := fiber.Map{
		"success": false,
		"error":   message,
	}

	if rich.TextCode != "" && status < fiber.StatusInternalServerError {
		body["code"] = rich.TextCode
	}

	if status < fiber.StatusInternalServerError {
		for k, v := range rich.Metadata {
			body[k] = v
		}
	}

	return c.Status(status).JSON(body)
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// UserFromLocals pulls the authenticated account or fails the request. The
// authware chain guarantees presence on protected routes; this guards
// against a route wired without it.
func (s *Server) userFromLocals(c *fiber.Ctx) (*auth.User, error) {
	user, ok := authware.UserFrom(c)
	if !ok {
		return nil, auth.ErrMissingToken
	}
	return user, nil
}
