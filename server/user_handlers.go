package server

import (
	"context"
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"github.com/stockpeek/stockpeek/auth"
)

func (s *Server) handleProfileGet(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.Sanitize(),
	})
}

func (s *Server) handleProfileUpdate(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	payload := new(ProfileUpdatePayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("profile update parse payload: %v", err)
		return auth.NewValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err.Error())
	}

	updated, err := s.repo.Users().UpdateProfile(c.UserContext(), user.ID, payload.FirstName, payload.LastName)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "profile updated",
		"data":    updated.Sanitize(),
	})
}

func (s *Server) handleUserStats(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	count, err := s.repo.Favorites().CountByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"favorites_count": count,
			"is_premium":      user.IsPremium,
			"member_since":    user.CreatedAt,
		},
	})
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	payload := new(ChangePasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("change password parse payload: %v", err)
		return auth.NewValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err.Error())
	}

	if err := auth.ComparePasswordAndHash(payload.CurrentPassword, user.PasswordHash); err != nil {
		return auth.ErrIncorrectPassword
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.Users().ChangePassword(c.UserContext(), user.ID, hash); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "password updated",
	})
}

// handleUpgradePremium flips the premium flag. Payment is simulated; the
// endpoint exists so the premium gating and quota behavior are exercisable
// end to end.
func (s *Server) handleUpgradePremium(c *fiber.Ctx) error {
	return s.setPremium(c, true)
}

func (s *Server) handleDowngradePremium(c *fiber.Ctx) error {
	return s.setPremium(c, false)
}

func (s *Server) setPremium(c *fiber.Ctx, premium bool) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	updated, err := s.repo.Users().UpdatePremiumStatus(c.UserContext(), user.ID, premium)
	if err != nil {
		return err
	}

	// reissue so the cookie reflects the new tier; authorization itself
	// always rechecks the store
	token, err := s.auther.TokenService().Issue(updated)
	if err != nil {
		return err
	}
	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated.Sanitize(),
	})
}

// handleDeleteAccount removes the account and its favorites in one
// transaction, after confirming the password. The session cookie is cleared
// even though any live tokens stay verifiable: they fail at the user reload.
func (s *Server) handleDeleteAccount(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	payload := new(DeleteAccountPayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("delete account parse payload: %v", err)
		return auth.NewValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err.Error())
	}

	if err := auth.ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		return auth.ErrIncorrectPassword
	}

	err = s.repo.RunInTx(c.UserContext(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Favorites().RemoveAllTx(ctx, tx, user.ID); err != nil {
			return err
		}
		return s.repo.Users().DeleteAccountTx(ctx, tx, user.ID)
	})
	if err != nil {
		return err
	}

	s.clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "account deleted",
	})
}
