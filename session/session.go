// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"net/http"

	"github.com/pavlonic/evidence-api/auth"
	"github.com/pavlonic/evidence-api/store"
)

// Session is the resolved identity state of one request. A zero Session is
// the anonymous session.
type Session struct {
	Authenticated bool
	AccountID     string
	PlanKey       string
}

// Resolve extracts and verifies the request's bearer credential and
// resolves it to the account's current plan key.
//
// Every ambiguity on this path collapses to anonymous: a missing header is
// the normal unauthenticated case, and a malformed, unsigned, or expired
// token - or a token for an account that no longer exists - degrades to
// anonymous rather than surfacing an error. No failure mode can yield an
// elevated session.
//
// The plan key is read from the database on every call so an
// administrative plan change takes effect on the next request. Client
// entitlement headers are never read here.
func Resolve(db *sql.DB, secret []byte, r *http.Request) Session {
	token := auth.ParseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return Session{}
	}

	accountID, err := auth.VerifyToken(token, secret)
	if err != nil {
		return Session{}
	}

	acct, err := store.GetAccountByID(db, accountID)
	if err != nil {
		return Session{}
	}

	return Session{
		Authenticated: true,
		AccountID:     acct.UserID,
		PlanKey:       acct.PlanKey,
	}
}
