// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pavlonic evidence API server.

Pavlonic serves structured evidence records - studies and curated technique
rollups - through a read-only API whose visible result detail depends on the
caller's plan-derived access tier.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=pavlonic.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 8080 -d pavlonic.db --jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): access token signing secret

Optional settings:

  - PORT (-p): server port (default: 8080)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - TOKEN_TTL_SECONDS: token lifetime (default: 86400)
  - BCRYPT_COST: password hash cost (default: 12)
  - DEV_ENTITLEMENT_OVERRIDE: honor the legacy entitlement header (dev only)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, studies, techniques)
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, JSON helpers, CORS, cache headers
  - session: bearer credential → account resolution (fail closed)
  - entitlement: plan → tier policy and result visibility filter
  - rollup: curated evidence table resolution
  - store: record store lookups
  - auth: password hashing and access tokens
  - models: request/response and domain types
  - db: schema creation and demo seed
  - cliparse: configuration parsing

Companion binaries live under cmd/: cmd/seed loads the demo content and
cmd/setplan performs the administrative plan change.

See package documentation for each component.
*/
package main
