// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session resolves a request's bearer credential into identity state.

	sess := session.Resolve(db, []byte(cfg.JWTSecret), r)

Resolve never returns an error. Absent credentials are the normal anonymous
path; invalid, expired, or orphaned credentials degrade to the same
anonymous session. The returned plan key is read fresh from the account
record on every request.
*/
package session
