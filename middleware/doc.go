// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides request logging, JSON helpers, CORS, and
cache-control headers for entitlement-varying responses.

SetEntitlementCacheHeaders sets Cache-Control: no-store and
Vary: Authorization on authenticated responses; anonymous responses carry
no entitlement-specific detail and stay cacheable.
*/
package middleware
