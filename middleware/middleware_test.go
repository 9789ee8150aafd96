// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pavlonic/evidence-api/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusNotFound, "Study not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if resp.Error != "Not Found" {
		t.Errorf("Expected error 'Not Found', got %q", resp.Error)
	}
	if resp.Message != "Study not found" {
		t.Errorf("Unexpected message: %q", resp.Message)
	}
}

func TestParseJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.c"}`))
	var req models.LoginRequest
	if err := ParseJSONBody(r, &req); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if req.Email != "a@b.c" {
		t.Errorf("Unexpected email: %s", req.Email)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	if err := ParseJSONBody(r, &req); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestSetEntitlementCacheHeaders(t *testing.T) {
	// Authenticated responses are marked uncacheable and vary on the
	// credential.
	w := httptest.NewRecorder()
	SetEntitlementCacheHeaders(w, true)
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Expected Cache-Control no-store, got %q", w.Header().Get("Cache-Control"))
	}
	if w.Header().Get("Vary") != "Authorization" {
		t.Errorf("Expected Vary Authorization, got %q", w.Header().Get("Vary"))
	}

	// Anonymous responses stay cacheable.
	w = httptest.NewRecorder()
	SetEntitlementCacheHeaders(w, false)
	if w.Header().Get("Cache-Control") != "" {
		t.Error("Expected no Cache-Control header for anonymous responses")
	}
	if w.Header().Get("Vary") != "" {
		t.Error("Expected no Vary header for anonymous responses")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Origin", "https://viewer.example.org")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Header().Get("Access-Control-Allow-Origin") != "https://viewer.example.org" {
		t.Errorf("Unexpected allow-origin: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected wrapped handler to run, got status %d", w.Code)
	}

	// Preflight short-circuits.
	r = httptest.NewRequest("OPTIONS", "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
}
