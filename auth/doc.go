// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential primitives: password hashing and signed
access tokens.

# Passwords

Passwords are hashed with bcrypt (salted, slow by design):

	hash, err := auth.HashPassword(password, cfg.BcryptCost)
	ok := auth.CheckPassword(password, hash)

# Access Tokens

Access tokens are HS256 JWTs carrying identity only (account id, issued-at,
expiry). Plan and entitlement data are deliberately excluded so an
administrative plan change is visible on the next request without
re-authentication:

	token, err := auth.GenerateToken(userID, secret, ttl)
	userID, err := auth.VerifyToken(token, secret)

There is no refresh mechanism; expiry forces re-authentication.

# Failure Collapsing

VerifyToken returns the single sentinel ErrInvalidToken for every failure
mode (malformed, bad signature, expired, missing subject). Callers on the
read path treat that as anonymous, never as an error to surface.

# Bearer Extraction

	token := auth.ParseBearerToken(r.Header.Get("Authorization"))

Returns "" for absent or malformed headers; anonymous is a normal state.
*/
package auth
