package authware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/stockpeek/stockpeek/auth"
)

var defaultTokenLookup = "cookie:token,header:" + fiber.HeaderAuthorization

// UserLoader resolves verified claims into a live account record. Satisfied
// by *auth.Auther; reloading on every request means deleted accounts and
// stale premium flags in old tokens fail closed.
type UserLoader interface {
	UserFromClaims(ctx context.Context, claims *auth.SessionClaims) (*auth.User, error)
}

// TokenVerifier is the slice of auth.TokenService the middleware needs.
type TokenVerifier interface {
	Verify(raw string) (*auth.SessionClaims, error)
}

type Config struct {
	Verifier    TokenVerifier
	Loader      UserLoader
	ContextKey  string
	TokenLookup string
	AuthScheme  string
	// Filter skips the middleware for matching requests.
	Filter func(*fiber.Ctx) bool
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTHWARE: middleware configuration: Verifier is required.")
	}

	if cfg.Loader == nil {
		panic("AUTHWARE: middleware configuration: Loader is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "current_user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// New returns required-auth middleware: no token, a bad token, and a token
// for a missing account are each rejected with their own error. On success
// the loaded user is stored in locals and the request context.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	extractors := GetExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		user, claims, err := resolveUser(c, cfg, extractors)
		if err != nil {
			return err
		}

		stashUser(c, cfg.ContextKey, user, claims)

		return c.Next()
	}
}

// Optional runs the same pipeline as New but proceeds anonymously when any
// step fails. Handlers behind it check UserFrom to branch.
func Optional(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	extractors := GetExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		user, claims, err := resolveUser(c, cfg, extractors)
		if err != nil {
			return c.Next()
		}

		stashUser(c, cfg.ContextKey, user, claims)

		return c.Next()
	}
}

func resolveUser(c *fiber.Ctx, cfg Config, extractors []TokenExtractor) (*auth.User, *auth.SessionClaims, error) {
	raw := ExtractRawToken(c, extractors)
	if raw == "" {
		return nil, nil, auth.ErrMissingToken
	}

	claims, err := cfg.Verifier.Verify(raw)
	if err != nil {
		return nil, nil, err
	}

	user, err := cfg.Loader.UserFromClaims(c.UserContext(), claims)
	if err != nil {
		return nil, nil, err
	}

	return user, claims, nil
}

func stashUser(c *fiber.Ctx, contextKey string, user *auth.User, claims *auth.SessionClaims) {
	c.Locals(contextKey, user)
	ctx := auth.WithContext(c.UserContext(), user)
	c.SetUserContext(auth.WithClaimsContext(ctx, claims))
}

// UserFrom retrieves the authenticated user stashed by New or Optional.
func UserFrom(c *fiber.Ctx, contextKey ...string) (*auth.User, bool) {
	key := "current_user"
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}

	user, ok := c.Locals(key).(*auth.User)
	if !ok || user == nil {
		return nil, false
	}

	return user, true
}

// ExtractRawToken walks the extractor chain and returns the first non-empty
// token. Order follows the TokenLookup string, so with the default lookup a
// cookie wins over a conflicting Authorization header.
func ExtractRawToken(c *fiber.Ctx, extractors []TokenExtractor) string {
	for _, extractor := range extractors {
		if raw := extractor(c); raw != "" {
			return raw
		}
	}
	return ""
}

type TokenExtractor func(c *fiber.Ctx) string

// GetExtractors parses a lookup string of the form
// "cookie:token,header:Authorization" into an ordered extractor chain.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader extracts a "<scheme> <token>" header value.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c *fiber.Ctx) string {
		a := c.Get(header)
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 || len(a) <= l+1 {
			return ""
		}
		if !strings.EqualFold(a[:l], scheme) {
			return ""
		}
		return strings.TrimSpace(a[l:])
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(c *fiber.Ctx) string {
		return c.Query(param)
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(c *fiber.Ctx) string {
		return c.Cookies(name)
	}
}
