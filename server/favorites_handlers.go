package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/middleware/authware"
)

func (s *Server) handleFavoritesList(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	favorites, err := s.repo.Favorites().ListByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    favorites,
		"count":   len(favorites),
	})
}

// handleFavoriteAdd runs behind the quota gate, so by the time it executes
// a free account is known to have room. The quota numbers the gate stashed
// are echoed back as-is; premium accounts get no quota block.
func (s *Server) handleFavoriteAdd(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	payload := new(FavoritePayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("favorite add parse payload: %v", err)
		return auth.NewValidationError("invalid request body")
	}

	payload.Symbol = auth.NormalizeSymbol(payload.Symbol)

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err.Error())
	}

	fav, err := s.repo.Favorites().Add(c.UserContext(), &auth.Favorite{
		UserID:      user.ID,
		Symbol:      payload.Symbol,
		CompanyName: payload.CompanyName,
	})
	if err != nil {
		return err
	}

	body := fiber.Map{
		"success": true,
		"message": "favorite added",
		"data":    fav,
	}

	if info, ok := authware.QuotaFrom(c); ok {
		body["favorites_info"] = info
	}

	return c.Status(fiber.StatusCreated).JSON(body)
}

func (s *Server) handleFavoriteRemove(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	symbol := auth.NormalizeSymbol(c.Params("symbol"))

	removed, err := s.repo.Favorites().Remove(c.UserContext(), user.ID, symbol)
	if err != nil {
		return err
	}

	if !removed {
		return auth.ErrFavoriteNotFound
	}

	return c.JSON(fiber.Map{
		"success": true,
		"symbol":  symbol,
	})
}

func (s *Server) handleFavoriteCheck(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	symbol := auth.NormalizeSymbol(c.Params("symbol"))

	isFav, err := s.repo.Favorites().IsFavorite(c.UserContext(), user.ID, symbol)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"symbol":      symbol,
		"is_favorite": isFav,
	})
}

func (s *Server) handleFavoriteSearch(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return auth.NewValidationError("query parameter q is required")
	}

	favorites, err := s.repo.Favorites().Search(c.UserContext(), user.ID, query)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    favorites,
		"count":   len(favorites),
		"query":   query,
	})
}

func (s *Server) handleFavoritesClear(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	removed, err := s.repo.Favorites().RemoveAll(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"removed_count": removed,
	})
}

// handleFavoritesExport returns the full list as a downloadable document.
// Premium only; the route sits behind RequirePremium.
func (s *Server) handleFavoritesExport(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	favorites, err := s.repo.Favorites().ListByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="favorites.json"`)

	return c.JSON(fiber.Map{
		"exported_at": time.Now().UTC(),
		"count":       len(favorites),
		"favorites":   favorites,
	})
}

// handleFavoriteStats reports usage against the free-tier cap. Premium
// accounts have no cap, so limit and remaining come back null.
func (s *Server) handleFavoriteStats(c *fiber.Ctx) error {
	user, err := s.userFromLocals(c)
	if err != nil {
		return err
	}

	count, err := s.repo.Favorites().CountByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	stats := fiber.Map{
		"count":      count,
		"is_premium": user.IsPremium,
		"limit":      nil,
		"remaining":  nil,
	}

	if !user.IsPremium {
		remaining := s.cfg.FavoritesLimit - count
		if remaining < 0 {
			remaining = 0
		}
		stats["limit"] = s.cfg.FavoritesLimit
		stats["remaining"] = remaining
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
