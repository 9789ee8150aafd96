// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pavlonic API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: registration, login, identity inspection
  - StudyHandler: tier-filtered study retrieval
  - TechniqueHandler: rollup-resolved technique retrieval

Handlers are created via constructor functions that accept *sql.DB and Config:

	authHandler := handlers.NewAuthHandler(db, cfg)

# Request Flow

Read endpoints resolve the request state in a fixed order before touching
any result detail:

	request → session.Resolve → entitlement.TierForRequest → fetch → filter/rollup → response

Every identity failure on the read path converges to the anonymous session
and therefore the public tier; only /v1/auth/me turns identity failures
into a 401.

# Caching

Authenticated responses carry Cache-Control: no-store and
Vary: Authorization via middleware.SetEntitlementCacheHeaders.
*/
package handlers
