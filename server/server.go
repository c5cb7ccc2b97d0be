package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/middleware/authware"
	"github.com/stockpeek/stockpeek/quotes"
)

// Config carries the HTTP-facing knobs. RateLimit exists so tests can turn
// the per-IP counters off without reaching into fiber internals.
type Config struct {
	Production     bool
	RateLimit      bool
	TokenTTL       time.Duration
	FavoritesLimit int
}

// Server assembles the fiber app: session transport, the authorization
// middleware chain, and the account, favorites, and quote handlers.
type Server struct {
	app      *fiber.App
	cfg      Config
	repo     auth.RepositoryManager
	auther   *auth.Auther
	provider quotes.Provider
	logger   auth.Logger
}

func New(cfg Config, repo auth.RepositoryManager, auther *auth.Auther, provider quotes.Provider) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = auth.DefaultTokenTTL
	}
	if cfg.FavoritesLimit <= 0 {
		cfg.FavoritesLimit = authware.DefaultFavoritesLimit
	}

	s := &Server{
		cfg:      cfg,
		repo:     repo,
		auther:   auther,
		provider: provider,
		logger:   auth.NewDefaultLogger("SERVER"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "stockpeek",
		ErrorHandler: s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(logger.New())

	s.registerRoutes()

	return s
}

func (s *Server) WithLogger(logger auth.Logger) *Server {
	s.logger = logger
	return s
}

// App exposes the underlying fiber app, mostly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	required := authware.New(authware.Config{
		Verifier: s.auther.TokenService(),
		Loader:   s.auther,
	})
	optional := authware.Optional(authware.Config{
		Verifier: s.auther.TokenService(),
		Loader:   s.auther,
	})

	api := s.app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.rateLimiter(3, time.Hour), s.handleRegister)
	authGroup.Post("/login", s.rateLimiter(5, 15*time.Minute), s.handleLogin)
	authGroup.Post("/logout", s.handleLogout)
	authGroup.Get("/status", s.handleStatus)
	authGroup.Get("/verify", required, s.handleVerify)

	user := api.Group("/user", required)
	user.Get("/profile", s.handleProfileGet)
	user.Put("/profile", s.handleProfileUpdate)
	user.Get("/stats", s.handleUserStats)
	user.Put("/password", s.handleChangePassword)
	user.Post("/upgrade-premium", s.handleUpgradePremium)
	user.Post("/downgrade-premium", s.handleDowngradePremium)
	user.Delete("/account", s.handleDeleteAccount)

	// static paths before the :symbol routes so "stats" is never read
	// as a ticker
	fav := api.Group("/favorites", required)
	fav.Get("/stats", s.handleFavoriteStats)
	fav.Get("/search", s.handleFavoriteSearch)
	fav.Get("/export", authware.RequirePremium(), s.handleFavoritesExport)
	fav.Get("/", s.handleFavoritesList)
	fav.Post("/", authware.FavoritesQuota(s.repo.Favorites(), s.cfg.FavoritesLimit), s.handleFavoriteAdd)
	fav.Delete("/", s.handleFavoritesClear)
	fav.Get("/:symbol/check", s.handleFavoriteCheck)
	fav.Delete("/:symbol", s.handleFavoriteRemove)

	api.Get("/quotes/:symbol", optional, s.handleQuote)
}

// rateLimiter builds a best-effort per-IP limiter. Counters live in process
// memory and reset on restart; that is the accepted level of protection for
// these endpoints.
func (s *Server) rateLimiter(max int, window time.Duration) fiber.Handler {
	if !s.cfg.RateLimit {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "too many attempts, please try again later",
			})
		},
	})
}
