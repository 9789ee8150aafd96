// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pavlonic/evidence-api/auth"
	"github.com/pavlonic/evidence-api/cliparse"
	"github.com/pavlonic/evidence-api/middleware"
	"github.com/pavlonic/evidence-api/models"
	"github.com/pavlonic/evidence-api/store"
)

// Generic messages - never hint which factor failed.
const (
	msgLoginFailed      = "Invalid email or password"
	msgNotAuthenticated = "Not authenticated"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A password is required")
		return
	}

	if _, err := store.GetAccountByEmail(h.db, email); err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	} else if err != store.ErrNotFound {
		slog.Error("failed to check existing account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	now := time.Now().UTC()
	acct := &models.Account{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		PlanKey:      models.PlanFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.InsertAccount(h.db, acct); err != nil {
		if err == store.ErrDuplicateAccount {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		UserID:  acct.UserID,
		Email:   acct.Email,
		PlanKey: acct.PlanKey,
	})
}

// Login handles POST /v1/auth/login
// Unknown email and wrong password converge on one generic 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	acct, err := store.GetAccountByEmail(h.db, auth.NormalizeEmail(req.Email))
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgLoginFailed)
		return
	}
	if err != nil {
		slog.Error("failed to look up account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !auth.CheckPassword(req.Password, acct.PasswordHash) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgLoginFailed)
		return
	}

	token, err := auth.GenerateToken(acct.UserID, []byte(h.cfg.JWTSecret), time.Duration(h.cfg.TokenTTL)*time.Second)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := store.TouchLastLogin(h.db, acct.UserID); err != nil {
		// Login still succeeds; the timestamp is advisory.
		slog.Error("failed to record login time", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   h.cfg.TokenTTL,
	})
}

// Me handles GET /v1/auth/me
// Unlike the read endpoints, a missing or invalid token here is a strict
// 401 - this endpoint exists to inspect identity, not content.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := auth.ParseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	accountID, err := auth.VerifyToken(token, []byte(h.cfg.JWTSecret))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	acct, err := store.GetAccountByID(h.db, accountID)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}
	if err != nil {
		slog.Error("failed to look up account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.SetEntitlementCacheHeaders(w, true)
	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		UserID:  acct.UserID,
		Email:   acct.Email,
		PlanKey: acct.PlanKey,
	})
}
