package authware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/stockpeek/stockpeek/auth"
)

// DefaultFavoritesLimit is how many symbols a free account may keep.
const DefaultFavoritesLimit = 5

const quotaKey = "favorites_quota"

// QuotaInfo is stashed in locals by FavoritesQuota so the handler can echo
// the numbers back after a successful add.
type QuotaInfo struct {
	CurrentCount int `json:"current_count"`
	Limit        int `json:"limit"`
	Remaining    int `json:"remaining"`
}

// FavoritesCounter is the slice of auth.Favorites the quota gate needs.
type FavoritesCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// RequirePremium gates a route to premium accounts. Must run after New so
// the account, including its live premium flag, is already loaded.
func RequirePremium(contextKey ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFrom(c, contextKey...)
		if !ok {
			return auth.ErrMissingToken
		}

		if !user.IsPremium {
			return auth.ErrPremiumRequired
		}

		return c.Next()
	}
}

// FavoritesQuota enforces the free-tier favorites cap. Premium accounts
// pass unconditionally. For free accounts the live count is checked against
// the limit; at or over it the request is rejected with the count and limit
// in the error payload, otherwise QuotaInfo is stashed for the handler.
func FavoritesQuota(counter FavoritesCounter, limit int, contextKey ...string) fiber.Handler {
	if limit <= 0 {
		limit = DefaultFavoritesLimit
	}

	return func(c *fiber.Ctx) error {
		user, ok := UserFrom(c, contextKey...)
		if !ok {
			return auth.ErrMissingToken
		}

		if user.IsPremium {
			return c.Next()
		}

		count, err := counter.CountByUser(c.UserContext(), user.ID)
		if err != nil {
			return err
		}

		if count >= limit {
			return auth.NewQuotaExceededError(count, limit)
		}

		c.Locals(quotaKey, &QuotaInfo{
			CurrentCount: count,
			Limit:        limit,
			Remaining:    limit - count,
		})

		return c.Next()
	}
}

// QuotaFrom retrieves the QuotaInfo stashed by FavoritesQuota. Premium
// requests bypass the gate, so absence means unlimited.
func QuotaFrom(c *fiber.Ctx) (*QuotaInfo, bool) {
	info, ok := c.Locals(quotaKey).(*QuotaInfo)
	if !ok || info == nil {
		return nil, false
	}
	return info, true
}
