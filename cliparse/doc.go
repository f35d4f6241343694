// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (required unless DatabaseType is memory)
  - DatabaseType: postgres, sqlite or memory (default: sqlite)
  - JWTSecret: HMAC secret for access tokens (required)
  - TokenTTL: access token lifetime (default: 60m)
  - CORSOrigins: allowed browser origins
  - StrictBallots: ranks within 1..n, each rank and each option used at most once
  - CloseInterval: how often polls past closes_at are closed (0 disables)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-jwt-secret      JWT signing secret
	-token-ttl       Access token lifetime
	-cors-origins    Comma-separated origins
	-strict-ballots  Strict ballot validation
	-close-interval  Auto-close sweep interval

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	JWT_SECRET     → -jwt-secret
	TOKEN_TTL      → -token-ttl
	CORS_ORIGINS   → -cors-origins
	STRICT_BALLOTS → -strict-ballots
	CLOSE_INTERVAL → -close-interval

CLI flags take precedence over environment variables. main loads a .env
file before ParseFlags runs, so values there behave like real environment
variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing for postgres or sqlite
  - JWT_SECRET is missing
  - the database type is unknown
  - a duration or boolean cannot be parsed
*/
package cliparse
