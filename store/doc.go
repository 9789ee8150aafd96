// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence collaborator for the API: simple lookup and
insert helpers over *sql.DB. The engine performs no writes to study,
outcome, result, or technique content; the only writes here are account
registration, login timestamps, and the administrative plan change.

# Account Operations

	GetAccountByEmail(db, email)
	GetAccountByID(db, userID)
	InsertAccount(db, acct)
	UpdateAccountPlan(db, email, planKey)
	TouchLastLogin(db, userID)

# Content Operations

	GetStudy(db, studyID)                      - study + outcomes + raw results
	GetTechnique(db, idOrSlug)                 - id checked before slug
	GetResultIndexForTechnique(db, technique)  - fresh per-request index

All helpers return store.ErrNotFound for missing records and
store.ErrDuplicateAccount for registration conflicts. Queries use $N
placeholders, which both lib/pq and modernc.org/sqlite accept.
*/
package store
