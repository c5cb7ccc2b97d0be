package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/middleware/authware"
)

// handleQuote looks up a symbol. The route is optional-auth: anonymous
// requests get the quote, authenticated ones also learn whether the symbol
// is in their favorites.
func (s *Server) handleQuote(c *fiber.Ctx) error {
	symbol := auth.NormalizeSymbol(c.Params("symbol"))
	if symbol == "" {
		return auth.NewValidationError("symbol is required")
	}

	quote, err := s.provider.Lookup(c.UserContext(), symbol)
	if err != nil {
		return err
	}

	body := fiber.Map{
		"success": true,
		"data":    quote,
	}

	if user, ok := authware.UserFrom(c); ok {
		isFav, err := s.repo.Favorites().IsFavorite(c.UserContext(), user.ID, symbol)
		if err != nil {
			return err
		}
		body["is_favorite"] = isFav
	}

	return c.JSON(body)
}
