// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pavlonic/evidence-api/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateAccount = errors.New("account already exists")
)

// isUniqueViolation matches the driver-specific unique constraint errors
// for both supported database types
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Accounts

// GetAccountByEmail looks up an account by its normalized email.
func GetAccountByEmail(db *sql.DB, email string) (*models.Account, error) {
	return scanAccount(db.QueryRow(`
		SELECT user_id, email, password_hash, plan_key, created_at, updated_at, last_login_at
		FROM users
		WHERE email = $1
	`, email))
}

// GetAccountByID looks up an account by id.
func GetAccountByID(db *sql.DB, userID string) (*models.Account, error) {
	return scanAccount(db.QueryRow(`
		SELECT user_id, email, password_hash, plan_key, created_at, updated_at, last_login_at
		FROM users
		WHERE user_id = $1
	`, userID))
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var acct models.Account
	var lastLogin sql.NullTime
	err := row.Scan(
		&acct.UserID, &acct.Email, &acct.PasswordHash, &acct.PlanKey,
		&acct.CreatedAt, &acct.UpdatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	if lastLogin.Valid {
		acct.LastLoginAt = &lastLogin.Time
	}
	return &acct, nil
}

// InsertAccount persists a new account. The unique index on email is the
// final arbiter against concurrent registration races.
func InsertAccount(db *sql.DB, acct *models.Account) error {
	_, err := db.Exec(`
		INSERT INTO users (user_id, email, password_hash, plan_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, acct.UserID, acct.Email, acct.PasswordHash, acct.PlanKey, acct.CreatedAt, acct.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateAccountPlan sets the plan key for the account with the given
// normalized email. This is the only write path for plan_key - an explicit
// administrative action, never a request handler.
func UpdateAccountPlan(db *sql.DB, email, planKey string) (oldPlan string, err error) {
	acct, err := GetAccountByEmail(db, email)
	if err != nil {
		return "", err
	}

	res, err := db.Exec(`
		UPDATE users SET plan_key = $1, updated_at = $2 WHERE user_id = $3
	`, planKey, time.Now().UTC(), acct.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to update plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n != 1 {
		return "", ErrNotFound
	}
	return acct.PlanKey, nil
}

// TouchLastLogin records a successful authentication time.
func TouchLastLogin(db *sql.DB, userID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`
		UPDATE users SET last_login_at = $1, updated_at = $2 WHERE user_id = $3
	`, now, now, userID)
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}

// Studies

// GetStudy loads a study with its outcomes and unfiltered results.
// Result visibility filtering is the caller's concern.
func GetStudy(db *sql.DB, studyID string) (*models.Study, error) {
	var study models.Study
	var authorsJSON string
	var doi, sourceURL sql.NullString
	err := db.QueryRow(`
		SELECT study_id, is_synthetic, title, authors, year, venue, doi, source_url, study_type
		FROM studies
		WHERE study_id = $1
	`, studyID).Scan(
		&study.StudyID, &study.IsSynthetic, &study.Citation.Title, &authorsJSON,
		&study.Citation.Year, &study.Citation.Venue, &doi, &sourceURL, &study.StudyType,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query study: %w", err)
	}
	study.Citation.Authors = deserializeAuthors(authorsJSON)
	study.Citation.DOI = doi.String
	study.Citation.SourceURL = sourceURL.String

	rows, err := db.Query(`
		SELECT outcome_id, label, kind
		FROM outcomes
		WHERE study_id = $1
		ORDER BY outcome_id
	`, studyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	study.Outcomes = []models.Outcome{}
	for rows.Next() {
		var outcome models.Outcome
		if err := rows.Scan(&outcome.OutcomeID, &outcome.Label, &outcome.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		study.Outcomes = append(study.Outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outcomes: %w", err)
	}

	results, err := queryResults(db, `
		SELECT result_id, outcome_id, result_label, result_description,
		       effect_type, effect_value, effect_direction, effect_provenance,
		       significance_type, significance_value, significance_provenance,
		       reliability_rating, reliability_provenance, notes
		FROM results
		WHERE study_id = $1
		ORDER BY result_id
	`, studyID)
	if err != nil {
		return nil, err
	}
	study.Results = results

	return &study, nil
}

func deserializeAuthors(authorsJSON string) []string {
	var authors []string
	if err := json.Unmarshal([]byte(authorsJSON), &authors); err != nil {
		// Comma-delimited fallback for hand-entered rows
		for _, part := range strings.Split(authorsJSON, ",") {
			if p := strings.TrimSpace(part); p != "" {
				authors = append(authors, p)
			}
		}
	}
	if authors == nil {
		authors = []string{}
	}
	return authors
}

func queryResults(db *sql.DB, query string, args ...interface{}) ([]models.Result, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []models.Result{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

// scanResult assembles a Result from nullable sub-record columns. A
// sub-record materializes only when its type/rating column is present;
// otherwise the field stays nil ("not reported").
func scanResult(rows *sql.Rows) (*models.Result, error) {
	var result models.Result
	var description, notes sql.NullString
	var effectType, effectDirection, effectProv sql.NullString
	var effectValue sql.NullFloat64
	var sigType, sigProv sql.NullString
	var sigValue sql.NullFloat64
	var relRating, relProv sql.NullString

	err := rows.Scan(
		&result.ResultID, &result.OutcomeID, &result.ResultLabel, &description,
		&effectType, &effectValue, &effectDirection, &effectProv,
		&sigType, &sigValue, &sigProv,
		&relRating, &relProv, &notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}

	result.ResultDescription = description.String
	result.Notes = notes.String
	if effectType.Valid {
		result.Effect = &models.Effect{
			Type:       effectType.String,
			Value:      effectValue.Float64,
			Direction:  effectDirection.String,
			Provenance: effectProv.String,
		}
	}
	if sigType.Valid {
		result.Significance = &models.Significance{
			Type:       sigType.String,
			Value:      sigValue.Float64,
			Provenance: sigProv.String,
		}
	}
	if relRating.Valid {
		result.Reliability = &models.Reliability{
			Rating:     relRating.String,
			Provenance: relProv.String,
		}
	}
	return &result, nil
}

// Techniques

// GetTechnique loads a technique by internal id or human slug. The id is
// checked before the slug so a pathological id/slug collision resolves
// deterministically.
func GetTechnique(db *sql.DB, idOrSlug string) (*models.Technique, error) {
	technique, err := queryTechnique(db, "technique_id", idOrSlug)
	if err == ErrNotFound {
		technique, err = queryTechnique(db, "slug", idOrSlug)
	}
	return technique, err
}

func queryTechnique(db *sql.DB, column, value string) (*models.Technique, error) {
	var technique models.Technique
	var tablesJSON sql.NullString
	err := db.QueryRow(`
		SELECT technique_id, slug, title, summary, tables_json
		FROM techniques
		WHERE `+column+` = $1
	`, value).Scan(
		&technique.TechniqueID, &technique.Slug, &technique.Title,
		&technique.Summary, &tablesJSON,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query technique: %w", err)
	}

	technique.Tables = []models.EvidenceTable{}
	if tablesJSON.Valid && tablesJSON.String != "" {
		if err := json.Unmarshal([]byte(tablesJSON.String), &technique.Tables); err != nil {
			return nil, fmt.Errorf("failed to parse technique tables: %w", err)
		}
		if err := models.ValidateTables(technique.Tables); err != nil {
			return nil, fmt.Errorf("invalid technique tables: %w", err)
		}
	}
	return &technique, nil
}
