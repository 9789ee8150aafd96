// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. Timestamps are always
// written by the application, so the DDL stays portable between sqlite and
// postgres.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    plan_key TEXT NOT NULL DEFAULT 'free',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    last_login_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- Studies
CREATE TABLE IF NOT EXISTS studies (
    study_id TEXT PRIMARY KEY,
    is_synthetic BOOLEAN NOT NULL,
    title TEXT NOT NULL,
    authors TEXT NOT NULL,
    year INTEGER NOT NULL,
    venue TEXT NOT NULL,
    doi TEXT,
    source_url TEXT,
    study_type TEXT NOT NULL
);

-- Outcomes
CREATE TABLE IF NOT EXISTS outcomes (
    study_id TEXT NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
    outcome_id TEXT NOT NULL,
    label TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('performance', 'learning')),
    PRIMARY KEY (study_id, outcome_id)
);

-- Results
CREATE TABLE IF NOT EXISTS results (
    study_id TEXT NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
    result_id TEXT NOT NULL,
    outcome_id TEXT NOT NULL,
    result_label TEXT NOT NULL,
    result_description TEXT,
    effect_type TEXT,
    effect_value REAL,
    effect_direction TEXT,
    effect_provenance TEXT,
    significance_type TEXT,
    significance_value REAL,
    significance_provenance TEXT,
    reliability_rating TEXT,
    reliability_provenance TEXT,
    notes TEXT,
    PRIMARY KEY (study_id, result_id)
);

CREATE INDEX IF NOT EXISTS idx_results_outcome ON results(study_id, outcome_id);

-- Techniques
CREATE TABLE IF NOT EXISTS techniques (
    technique_id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    tables_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_techniques_slug ON techniques(slug);
`
