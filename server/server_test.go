package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/quotes"
	"github.com/stockpeek/stockpeek/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, auth.CreateSchema(context.Background(), db))
	t.Cleanup(func() { db.Close() })

	repo := auth.NewRepositoryManager(db)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour, "stockpeek", nil)
	auther := auth.NewAuthenticator(repo, tokens).WithBcryptCost(4)

	return server.New(server.Config{
		TokenTTL: time.Hour,
	}, repo, auther, quotes.NewStaticProvider())
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func registerPayload(email string) map[string]any {
	return map[string]any{
		"email":           email,
		"password":        "password123",
		"confirmPassword": "password123",
		"firstName":       "Ada",
		"lastName":        "Lovelace",
	}
}

// registerAccount creates an account through the API and returns its
// session token.
func registerAccount(t *testing.T, srv *server.Server, email string) string {
	t.Helper()

	res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/register", registerPayload(email)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	cookie := sessionCookie(res)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)

	return cookie.Value
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/register", registerPayload("ada@example.com")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	cookie := sessionCookie(res)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure, "secure flag stays off outside production")

	body := decode(t, res)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "token", "the cookie is the only token transport")

	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, false, user["isPremium"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "passwordHash")
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(p map[string]any)
	}{
		{"bad email", func(p map[string]any) { p["email"] = "not-an-email" }},
		{"short password", func(p map[string]any) { p["password"] = "a1"; p["confirmPassword"] = "a1" }},
		{"digitless password", func(p map[string]any) { p["password"] = "onlyletters"; p["confirmPassword"] = "onlyletters" }},
		{"mismatched confirm", func(p map[string]any) { p["confirmPassword"] = "different123" }},
		{"short first name", func(p map[string]any) { p["firstName"] = "A" }},
		{"numeric last name", func(p map[string]any) { p["lastName"] = "L0velace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := registerPayload("ada@example.com")
			tt.mutate(payload)

			res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/register", payload))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

			body := decode(t, res)
			assert.Equal(t, auth.TextCodeValidation, body["code"])
		})
	}
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	srv := newTestServer(t)
	registerAccount(t, srv, "ada@example.com")

	res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/register", registerPayload("ADA@Example.COM")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	body := decode(t, res)
	assert.Equal(t, auth.TextCodeDuplicateEmail, body["code"])
}

func TestLoginEnumerationResistance(t *testing.T) {
	srv := newTestServer(t)
	registerAccount(t, srv, "known@example.com")

	attempt := func(email, password string) (int, map[string]any) {
		res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
			"email":    email,
			"password": password,
		}))
		require.NoError(t, err)
		return res.StatusCode, decode(t, res)
	}

	unknownStatus, unknownBody := attempt("unknown@example.com", "password123")
	wrongStatus, wrongBody := attempt("known@example.com", "wrong-password1")

	assert.Equal(t, fiber.StatusUnauthorized, unknownStatus)
	assert.Equal(t, fiber.StatusUnauthorized, wrongStatus)
	assert.Equal(t, unknownBody, wrongBody, "unknown email and wrong password must be indistinguishable")
}

func TestLoginSuccess(t *testing.T) {
	srv := newTestServer(t)
	registerAccount(t, srv, "ada@example.com")

	res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ADA@example.com",
		"password": "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.NotNil(t, sessionCookie(res))

	body := decode(t, res)
	assert.NotContains(t, body, "token")

	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
}

func TestLogoutIsIdempotent(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 2; i++ {
		res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/logout", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)

		cookie := sessionCookie(res)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.Expires.Before(time.Now()))
	}
}

func TestStatusNeverErrors(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	tests := []struct {
		name          string
		request       func() *http.Request
		authenticated bool
	}{
		{
			name:          "anonymous",
			request:       func() *http.Request { return jsonRequest(http.MethodGet, "/api/auth/status", nil) },
			authenticated: false,
		},
		{
			name: "garbage token",
			request: func() *http.Request {
				return withSession(jsonRequest(http.MethodGet, "/api/auth/status", nil), "garbage")
			},
			authenticated: false,
		},
		{
			name: "valid session",
			request: func() *http.Request {
				return withSession(jsonRequest(http.MethodGet, "/api/auth/status", nil), token)
			},
			authenticated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := srv.App().Test(tt.request())
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, res.StatusCode)

			body := decode(t, res)
			assert.Equal(t, tt.authenticated, body["authenticated"])

			if tt.authenticated {
				user := body["data"].(map[string]any)["user"].(map[string]any)
				assert.Equal(t, "ada@example.com", user["email"])
			} else {
				assert.NotContains(t, body, "data")
			}
		})
	}
}

func TestVerifyRequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	res, err := srv.App().Test(jsonRequest(http.MethodGet, "/api/auth/verify", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	res, err = srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/auth/verify", nil), token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestBearerHeaderFallbackAndCookiePrecedence(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	t.Run("bearer header works without cookie", func(t *testing.T) {
		req := jsonRequest(http.MethodGet, "/api/auth/verify", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("valid cookie beats garbage header", func(t *testing.T) {
		req := withSession(jsonRequest(http.MethodGet, "/api/auth/verify", nil), token)
		req.Header.Set("Authorization", "Bearer garbage")

		res, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("garbage cookie loses even with valid header", func(t *testing.T) {
		req := withSession(jsonRequest(http.MethodGet, "/api/auth/verify", nil), "garbage")
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode, "cookie wins over header by precedence")
	})
}

func TestPremiumGateFlipsWithUpgrade(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	exportReq := func() *http.Request {
		return withSession(jsonRequest(http.MethodGet, "/api/favorites/export", nil), token)
	}

	res, err := srv.App().Test(exportReq())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	body := decode(t, res)
	assert.Equal(t, auth.TextCodePremiumRequired, body["code"])
	assert.Equal(t, true, body["premium_required"])

	res, err = srv.App().Test(withSession(jsonRequest(http.MethodPost, "/api/user/upgrade-premium", nil), token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	// same token: the gate reloads the account, so the old session sees
	// the new tier immediately
	res, err = srv.App().Test(exportReq())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = srv.App().Test(withSession(jsonRequest(http.MethodPost, "/api/user/downgrade-premium", nil), token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = srv.App().Test(exportReq())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func addFavorite(t *testing.T, srv *server.Server, token, symbol string) *http.Response {
	t.Helper()

	res, err := srv.App().Test(withSession(jsonRequest(http.MethodPost, "/api/favorites/", map[string]any{
		"symbol":       symbol,
		"company_name": symbol + " Corp.",
	}), token))
	require.NoError(t, err)
	return res
}

func TestFavoritesQuotaLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	// favorites_info echoes the numbers the gate saw before the insert
	symbols := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	for i, sym := range symbols {
		res := addFavorite(t, srv, token, sym)
		require.Equal(t, fiber.StatusCreated, res.StatusCode)

		body := decode(t, res)
		info := body["favorites_info"].(map[string]any)
		assert.EqualValues(t, i, info["current_count"])
		assert.EqualValues(t, 5, info["limit"])
		assert.EqualValues(t, 5-i, info["remaining"])
	}

	t.Run("sixth add is rejected with counts", func(t *testing.T) {
		res := addFavorite(t, srv, token, "NVDA")
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

		body := decode(t, res)
		assert.Equal(t, auth.TextCodeQuotaExceeded, body["code"])
		assert.Equal(t, true, body["premium_required"])
		assert.EqualValues(t, 5, body["current_count"])
		assert.EqualValues(t, 5, body["limit"])
	})

	t.Run("removing frees a slot", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodDelete, "/api/favorites/TSLA", nil), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		res = addFavorite(t, srv, token, "NVDA")
		assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	})

	t.Run("premium has no cap", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodPost, "/api/user/upgrade-premium", nil), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		res = addFavorite(t, srv, token, "TSLA")
		assert.Equal(t, fiber.StatusCreated, res.StatusCode)

		body := decode(t, res)
		assert.NotContains(t, body, "favorites_info")

		res, err = srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/favorites/stats", nil), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		stats := decode(t, res)["data"].(map[string]any)
		assert.Nil(t, stats["limit"])
		assert.Nil(t, stats["remaining"])
	})
}

func TestFavoritesEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	require.Equal(t, fiber.StatusCreated, addFavorite(t, srv, token, "AAPL").StatusCode)
	require.Equal(t, fiber.StatusCreated, addFavorite(t, srv, token, "MSFT").StatusCode)

	t.Run("duplicate favorite", func(t *testing.T) {
		res := addFavorite(t, srv, token, "aapl")
		assert.Equal(t, fiber.StatusConflict, res.StatusCode)
		assert.Equal(t, auth.TextCodeDuplicateFav, decode(t, res)["code"])
	})

	t.Run("list", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/favorites/", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.EqualValues(t, 2, decode(t, res)["count"])
	})

	t.Run("check", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/favorites/AAPL/check", nil), token))
		require.NoError(t, err)
		body := decode(t, res)
		assert.Equal(t, true, body["is_favorite"])

		res, err = srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/favorites/NVDA/check", nil), token))
		require.NoError(t, err)
		body = decode(t, res)
		assert.Equal(t, false, body["is_favorite"])
	})

	t.Run("search", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/favorites/search?q=aap", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.EqualValues(t, 1, decode(t, res)["count"])

		res, err = srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/favorites/search", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("remove missing symbol", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodDelete, "/api/favorites/NVDA", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
		assert.Equal(t, auth.TextCodeFavoriteNotFound, decode(t, res)["code"])
	})

	t.Run("clear all", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodDelete, "/api/favorites/", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.EqualValues(t, 2, decode(t, res)["removed_count"])
	})
}

func TestUserProfileAndPassword(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")

	t.Run("profile get", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/user/profile", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("profile update", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodPut, "/api/user/profile", map[string]any{
			"firstName": "Augusta",
			"lastName":  "Byron",
		}), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		user := decode(t, res)["data"].(map[string]any)
		assert.Equal(t, "Augusta", user["firstName"])
	})

	t.Run("stats", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/user/stats", nil), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		stats := decode(t, res)["data"].(map[string]any)
		assert.EqualValues(t, 0, stats["favorites_count"])
		assert.Equal(t, false, stats["is_premium"])
	})

	t.Run("change password requires the current one", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodPut, "/api/user/password", map[string]any{
			"currentPassword": "wrong-password1",
			"newPassword":     "newpassword456",
			"confirmPassword": "newpassword456",
		}), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, auth.TextCodeIncorrectPass, decode(t, res)["code"])

		res, err = srv.App().Test(withSession(jsonRequest(http.MethodPut, "/api/user/password", map[string]any{
			"currentPassword": "password123",
			"newPassword":     "newpassword456",
			"confirmPassword": "newpassword456",
		}), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)

		res, err = srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "ada@example.com",
			"password": "newpassword456",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}

func TestDeleteAccount(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")
	require.Equal(t, fiber.StatusCreated, addFavorite(t, srv, token, "AAPL").StatusCode)

	t.Run("wrong password refused", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodDelete, "/api/user/account", map[string]any{
			"password": "wrong-password1",
		}), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, auth.TextCodeIncorrectPass, decode(t, res)["code"])
	})

	t.Run("delete then token fails closed", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodDelete, "/api/user/account", map[string]any{
			"password": "password123",
		}), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		// the token still verifies, but the user reload fails
		res, err = srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/auth/verify", nil), token))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, auth.TextCodeUserNotFound, decode(t, res)["code"])

		// and the email is free to register again
		res, err = srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/register", registerPayload("ada@example.com")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	})
}

func TestQuotes(t *testing.T) {
	srv := newTestServer(t)
	token := registerAccount(t, srv, "ada@example.com")
	require.Equal(t, fiber.StatusCreated, addFavorite(t, srv, token, "AAPL").StatusCode)

	t.Run("anonymous lookup", func(t *testing.T) {
		res, err := srv.App().Test(jsonRequest(http.MethodGet, "/api/quotes/aapl", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		body := decode(t, res)
		quote := body["data"].(map[string]any)
		assert.Equal(t, "AAPL", quote["symbol"])
		assert.NotContains(t, body, "is_favorite")
	})

	t.Run("authenticated lookup includes favorite flag", func(t *testing.T) {
		res, err := srv.App().Test(withSession(jsonRequest(http.MethodGet, "/api/quotes/AAPL", nil), token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, true, decode(t, res)["is_favorite"])
	})

	t.Run("unknown symbol", func(t *testing.T) {
		res, err := srv.App().Test(jsonRequest(http.MethodGet, "/api/quotes/ZZZZ", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}

func TestRateLimits(t *testing.T) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, auth.CreateSchema(context.Background(), db))
	t.Cleanup(func() { db.Close() })

	repo := auth.NewRepositoryManager(db)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour, "stockpeek", nil)
	auther := auth.NewAuthenticator(repo, tokens).WithBcryptCost(4)

	srv := server.New(server.Config{
		TokenTTL:  time.Hour,
		RateLimit: true,
	}, repo, auther, quotes.NewStaticProvider())

	t.Run("login capped at five per window", func(t *testing.T) {
		var last int
		for i := 0; i < 6; i++ {
			res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
				"email":    "nobody@example.com",
				"password": "password123",
			}))
			require.NoError(t, err)
			last = res.StatusCode
			if i < 5 {
				assert.Equal(t, fiber.StatusUnauthorized, last)
			}
		}
		assert.Equal(t, fiber.StatusTooManyRequests, last)
	})

	t.Run("register capped at three per window", func(t *testing.T) {
		var last int
		for i := 0; i < 4; i++ {
			res, err := srv.App().Test(jsonRequest(http.MethodPost, "/api/auth/register",
				registerPayload(fmt.Sprintf("user%d@example.com", i))))
			require.NoError(t, err)
			last = res.StatusCode
			if i < 3 {
				assert.Equal(t, fiber.StatusCreated, last)
			}
		}
		assert.Equal(t, fiber.StatusTooManyRequests, last)
	})
}
