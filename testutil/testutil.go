// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pavlonic/evidence-api/auth"
	"github.com/pavlonic/evidence-api/cliparse"
	"github.com/pavlonic/evidence-api/db"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A pooled second connection would see a different empty :memory: DB
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8080,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
		TokenTTL:     3600,
		BcryptCost:   4, // bcrypt.MinCost keeps tests fast
	}
}

// SeedEvidence loads the demo study and technique into the test database
func SeedEvidence(t *testing.T, conn *sql.DB) {
	t.Helper()
	if err := db.Seed(conn); err != nil {
		t.Fatalf("Failed to seed evidence: %v", err)
	}
}

// CreateTestAccount inserts an account directly and returns its id
func CreateTestAccount(t *testing.T, conn *sql.DB, cfg cliparse.Config, email, password, planKey string) string {
	t.Helper()

	hash, err := auth.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO users (user_id, email, password_hash, plan_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, auth.NormalizeEmail(email), hash, planKey, now, now)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return userID
}

// TokenFor issues a valid access token for an account id
func TokenFor(t *testing.T, cfg cliparse.Config, userID string) string {
	t.Helper()

	token, err := auth.GenerateToken(userID, []byte(cfg.JWTSecret), time.Duration(cfg.TokenTTL)*time.Second)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return token
}

// ExpiredTokenFor issues an already-expired access token for an account id
func ExpiredTokenFor(t *testing.T, cfg cliparse.Config, userID string) string {
	t.Helper()

	token, err := auth.GenerateToken(userID, []byte(cfg.JWTSecret), -time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate expired test token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// BearerHeaders builds an Authorization header map for a token
func BearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// SetPlan performs the administrative plan change for a test account
func SetPlan(t *testing.T, conn *sql.DB, email, planKey string) {
	t.Helper()
	res, err := conn.Exec(`UPDATE users SET plan_key = $1 WHERE email = $2`,
		planKey, auth.NormalizeEmail(email))
	if err != nil {
		t.Fatalf("Failed to set plan: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("Expected to update 1 account, updated %d", n)
	}
}
