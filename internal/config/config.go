package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	FriendshipDirectoryURL *url.URL
	AccountDirectoryURL    *url.URL
	UpstreamTimeout        time.Duration
	FanoutLimit            int

	RateLimitRPS      float64
	RateLimitBurst    int
	TrustProxyHeaders bool

	JWTSecret      string
	JWTIssuer      string
	ClerkSecretKey string

	MetricsUser    string
	MetricsPass    string
	PprofSecret    string
	AllowedOrigins []string

	LogLevel string
}

// Load reads configuration from the process environment, after merging a
// local .env file when one exists.
func Load() (Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "3333")
	v.SetDefault("UPSTREAM_TIMEOUT", "5s")
	v.SetDefault("FANOUT_LIMIT", 8)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	var err error

	cfg.Port = v.GetString("PORT")

	cfg.FriendshipDirectoryURL, err = parseBaseURL(v.GetString("FRIENDSHIP_DIRECTORY_URL"))
	if err != nil {
		return Config{}, fmt.Errorf("FRIENDSHIP_DIRECTORY_URL: %w", err)
	}
	cfg.AccountDirectoryURL, err = parseBaseURL(v.GetString("ACCOUNT_DIRECTORY_URL"))
	if err != nil {
		return Config{}, fmt.Errorf("ACCOUNT_DIRECTORY_URL: %w", err)
	}

	cfg.UpstreamTimeout, err = time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.FanoutLimit = v.GetInt("FANOUT_LIMIT")
	if cfg.FanoutLimit < 1 {
		return Config{}, errors.New("FANOUT_LIMIT must be at least 1")
	}

	cfg.RateLimitRPS = v.GetFloat64("RATE_LIMIT_RPS")
	cfg.RateLimitBurst = v.GetInt("RATE_LIMIT_BURST")
	cfg.TrustProxyHeaders = v.GetBool("TRUST_PROXY_HEADERS")

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	cfg.ClerkSecretKey = v.GetString("CLERK_SECRET_KEY")
	if cfg.JWTSecret == "" && cfg.ClerkSecretKey == "" {
		return Config{}, errors.New("either JWT_SECRET or CLERK_SECRET_KEY must be set")
	}

	cfg.MetricsUser = v.GetString("METRICS_USER")
	cfg.MetricsPass = v.GetString("METRICS_PASS")
	cfg.PprofSecret = v.GetString("PPROF_SECRET")
	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	cfg.LogLevel = v.GetString("LOG_LEVEL")

	return cfg, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("not set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
