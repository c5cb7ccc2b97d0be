package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration, read from environment variables.
type Config struct {
	HTTPAddr   string        `mapstructure:"http_addr"`
	DBDSN      string        `mapstructure:"db_dsn"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	JWTIssuer  string        `mapstructure:"jwt_issuer"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Production bool          `mapstructure:"production"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
	RateLimit  bool          `mapstructure:"rate_limit"`
}

// Load reads configuration from the environment. The signing secret has no
// default on purpose: a process that would sign tokens with an empty or
// baked-in secret must not come up at all.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":3000")
	v.SetDefault("db_dsn", "file:stockpeek.db")
	v.SetDefault("jwt_issuer", "stockpeek")
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("production", false)
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("rate_limit", true)

	v.AutomaticEnv()

	// map HTTP_ADDR style env vars onto the lowercased keys
	for _, key := range []string{
		"http_addr", "db_dsn", "jwt_secret", "jwt_issuer",
		"token_ttl", "production", "bcrypt_cost", "rate_limit",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if c.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}

	return &c, nil
}
