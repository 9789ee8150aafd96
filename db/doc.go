// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the database schema and the deterministic demo seed.

CreateSchema is idempotent (IF NOT EXISTS) and portable between sqlite and
postgres; the application writes all timestamps itself.

Seed clears the content tables and inserts the synthetic demo study 0001
and the spaced-practice technique, validating the curated tables document
before insert. Account rows are never touched by seeding.
*/
package db
