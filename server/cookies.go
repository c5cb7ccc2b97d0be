package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// sessionCookieName is the cookie carrying the session token. The authware
// default lookup reads the same name, and it wins over a conflicting
// Authorization header.
const sessionCookieName = "token"

// setSessionCookie installs the session token. httpOnly keeps it away from
// scripts; sameSite strict keeps cross-site requests from carrying it. The
// secure flag follows the production setting so local plain-http dev works.
func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(s.cfg.TokenTTL),
		HTTPOnly: true,
		Secure:   s.cfg.Production,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// clearSessionCookie expires the cookie. Safe to call with no cookie set,
// which is what makes logout idempotent.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * 24 * 365),
		HTTPOnly: true,
		Secure:   s.cfg.Production,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
