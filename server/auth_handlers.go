package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/middleware/authware"
)

func (s *Server) handleRegister(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("register parse payload: %v", err)
		return auth.NewValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err.Error())
	}

	user, token, err := s.auther.Register(c.UserContext(), auth.RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		return err
	}

	s.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "account created",
		"data":    fiber.Map{"user": user.Sanitize()},
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("login parse payload: %v", err)
		return auth.NewValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err.Error())
	}

	user, token, err := s.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged in",
		"data":    fiber.Map{"user": user.Sanitize()},
	})
}

// handleLogout clears the session cookie. It never fails: logging out
// without a session is a no-op, not an error.
func (s *Server) handleLogout(c *fiber.Ctx) error {
	s.clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out",
	})
}

// handleStatus reports whether the request carries a live session. It runs
// the same extract-verify-reload pipeline as the middleware but reports
// failures as anonymous instead of erroring, so clients can poll it freely.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	anonymous := fiber.Map{
		"success":       true,
		"authenticated": false,
	}

	raw := authware.ExtractRawToken(c, authware.GetExtractors(
		"cookie:"+sessionCookieName+",header:"+fiber.HeaderAuthorization, "Bearer"))
	if raw == "" {
		return c.JSON(anonymous)
	}

	claims, err := s.auther.TokenService().Verify(raw)
	if err != nil {
		return c.JSON(anonymous)
	}

	user, err := s.auther.UserFromClaims(c.UserContext(), claims)
	if err != nil {
		return c.JSON(anonymous)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"authenticated": true,
		"data":          fiber.Map{"user": user.Sanitize()},
	})
}

func (s *Server) handleVerify(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"user": user.Sanitize()},
	})
}
