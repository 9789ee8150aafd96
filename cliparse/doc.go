// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with environment
variable fallback.

# Required Settings

  - DATABASE_URL (-d): sqlite file path/DSN or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): access token signing secret

# Optional Settings

  - PORT (-p): server port (default: 8080)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - TOKEN_TTL_SECONDS: access token lifetime (default: 86400)
  - BCRYPT_COST: password hash cost, 4..17 (default: 12)
  - DEV_ENTITLEMENT_OVERRIDE (--dev-entitlement-override): honor the
    X-Pavlonic-Entitlement header; local dev only, default disabled

The dev override is resolved exactly once here and carried as an immutable
Config field - there is no runtime-mutable global behind it.
*/
package cliparse
