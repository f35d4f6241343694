// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/rankstuff/db"
	"github.com/danielhkuo/rankstuff/ranking"
)

const (
	DefaultPort          = 3318
	DefaultTokenTTL      = 60 * time.Minute
	DefaultCloseInterval = time.Minute
	DefaultCORSOrigins   = "http://localhost:3000,http://localhost:4200"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	StrictBallots bool
	CloseInterval time.Duration
}

// BallotPolicy maps StrictBallots to the ranking policy.
func (c Config) BallotPolicy() ranking.BallotPolicy {
	if c.StrictBallots {
		return ranking.PolicyStrict
	}
	return ranking.PolicyPermissive
}

// ParseFlags reads flags, falls back to environment variables, and
// validates the result.
func ParseFlags(args []string) (Config, error) {
	var (
		cfg     Config
		origins string
	)

	fs := flag.NewFlagSet("rankstuff", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or memory)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", DefaultTokenTTL, "Access token lifetime")

	fs.StringVar(&origins, "cors-origins", "", "Comma-separated allowed CORS origins")
	fs.BoolVar(&cfg.StrictBallots, "strict-ballots", false, "Reject out-of-range or repeated ranks")
	fs.DurationVar(&cfg.CloseInterval, "close-interval", DefaultCloseInterval, "Auto-close sweep interval (0 disables)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = db.TypeSQLite
		}
	}
	switch cfg.DatabaseType {
	case db.TypePostgres, db.TypeSQLite, db.TypeMemory:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != db.TypeMemory {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if !set["token-ttl"] {
		if v := os.Getenv("TOKEN_TTL"); v != "" {
			ttl, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL env variable")
			}
			cfg.TokenTTL = ttl
		}
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("token TTL must be positive")
	}

	if !set["cors-origins"] {
		origins = os.Getenv("CORS_ORIGINS")
		if origins == "" {
			origins = DefaultCORSOrigins
		}
	}
	cfg.CORSOrigins = splitList(origins)

	if !set["strict-ballots"] {
		if v := os.Getenv("STRICT_BALLOTS"); v != "" {
			strict, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid STRICT_BALLOTS env variable")
			}
			cfg.StrictBallots = strict
		}
	}

	if !set["close-interval"] {
		if v := os.Getenv("CLOSE_INTERVAL"); v != "" {
			interval, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid CLOSE_INTERVAL env variable")
			}
			cfg.CloseInterval = interval
		}
	}
	if cfg.CloseInterval < 0 {
		return Config{}, errors.New("close interval cannot be negative")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
