package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	TokenTTL     int // seconds
	BcryptCost   int

	// DevEntitlementOverride enables the X-Pavlonic-Entitlement header for
	// local development. Resolved once at startup and immutable for the
	// process lifetime; disabled in every deployed configuration.
	DevEntitlementOverride bool
}

const (
	defaultPort       = 8080
	defaultTokenTTL   = 86400
	defaultBcryptCost = 12
)

// ParseFlags validates flags with environment variable fallback
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("pavlonic-api", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env)")

	// Dev-only toggles
	fs.BoolVar(&cfg.DevEntitlementOverride, "dev-entitlement-override", false,
		"Honor the X-Pavlonic-Entitlement header (local dev only)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	cfg.TokenTTL = defaultTokenTTL
	if ttlStr := os.Getenv("TOKEN_TTL_SECONDS"); ttlStr != "" {
		ttl, err := strconv.Atoi(ttlStr)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("invalid TOKEN_TTL_SECONDS env variable")
		}
		cfg.TokenTTL = ttl
	}

	cfg.BcryptCost = defaultBcryptCost
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil || cost < 4 || cost > 17 {
			return Config{}, errors.New("BCRYPT_COST must be between 4 and 17")
		}
		cfg.BcryptCost = cost
	}

	if !cfg.DevEntitlementOverride {
		cfg.DevEntitlementOverride = os.Getenv("DEV_ENTITLEMENT_OVERRIDE") == "true"
	}

	return cfg, nil
}
