// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Plan key constants (persisted on accounts)
const (
	PlanFree      = "free"
	PlanBasicPaid = "basic_paid"
)

// AccessTier is the derived, request-scoped authorization level.
// It is never stored.
type AccessTier string

const (
	TierPublic AccessTier = "public"
	TierPaid   AccessTier = "paid"
)

// Outcome kind constants
const (
	KindPerformance = "performance"
	KindLearning    = "learning"
)

// Provenance constants for effect/significance/reliability sub-records.
// "reported" values are public-safe aggregates; "computed" and "entered"
// mark expanded-only detail.
const (
	ProvenanceReported = "reported"
	ProvenanceComputed = "computed"
	ProvenanceEntered  = "entered"
)

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response types

type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	PlanKey string `json:"plan_key"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type MeResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	PlanKey string `json:"plan_key"`
}

// Domain types

type Account struct {
	UserID       string     `json:"user_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	PlanKey      string     `json:"plan_key"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
	LastLoginAt  *time.Time `json:"-"`
}

type Citation struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      int      `json:"year"`
	Venue     string   `json:"venue"`
	DOI       string   `json:"doi,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

type Outcome struct {
	OutcomeID string `json:"outcome_id"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
}

// Effect, Significance, and Reliability are optional structured sub-records
// on a Result. An absent sub-record means "not reported" and is omitted from
// JSON rather than serialized as null.

type Effect struct {
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Direction  string  `json:"direction"`
	Provenance string  `json:"provenance"`
}

type Significance struct {
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Provenance string  `json:"provenance"`
}

type Reliability struct {
	Rating     string `json:"rating"`
	Provenance string `json:"provenance"`
}

type Result struct {
	ResultID          string        `json:"result_id"`
	OutcomeID         string        `json:"outcome_id"`
	ResultLabel       string        `json:"result_label"`
	ResultDescription string        `json:"result_description,omitempty"`
	Effect            *Effect       `json:"effect,omitempty"`
	Significance      *Significance `json:"significance,omitempty"`
	Reliability       *Reliability  `json:"reliability,omitempty"`
	Notes             string        `json:"notes,omitempty"`
}

type Study struct {
	StudyID     string    `json:"study_id"`
	IsSynthetic bool      `json:"is_synthetic"`
	Citation    Citation  `json:"citation"`
	StudyType   string    `json:"study_type"`
	Outcomes    []Outcome `json:"outcomes"`
	Results     []Result  `json:"results"`
}

// StudyResponse is the tier-filtered study payload.
type StudyResponse struct {
	Study
	ViewerEntitlement AccessTier `json:"viewer_entitlement"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
