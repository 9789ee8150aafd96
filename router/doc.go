// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the HTTP routes using Go 1.22+ method and path
patterns.

	POST /v1/auth/register
	POST /v1/auth/login
	GET  /v1/auth/me
	GET  /v1/studies/{study_id}
	GET  /v1/techniques/{id_or_slug}
	GET  /health

All application routes are wrapped with request logging.
*/
package router
