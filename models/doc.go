// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the Pavlonic API.

# Type Categories

  - Request types: RegisterRequest, LoginRequest
  - Response types: RegisterResponse, LoginResponse, MeResponse, StudyResponse,
    RenderedTechnique, ErrorResponse
  - Domain types: Account, Study, Outcome, Result, Technique

# Access Tiers

AccessTier is derived per request from the account's persisted plan key and is
never stored:

	public → aggregate result detail only
	paid   → full result detail, channel counts

# Curated Evidence Tables

A Technique carries hand-authored evidence tables (EvidenceTable → EvidenceRow →
Channel). Channels reference individual results by "study_id:result_id" tokens.
ValidateTables checks the document shape at load time; resolution against the
result index happens per request in the rollup package.

# Optional Sub-records

Effect, Significance, and Reliability on a Result are pointers: nil means the
value was not reported and the field is omitted from JSON entirely.
*/
package models
