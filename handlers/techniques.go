// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/pavlonic/evidence-api/cliparse"
	"github.com/pavlonic/evidence-api/entitlement"
	"github.com/pavlonic/evidence-api/middleware"
	"github.com/pavlonic/evidence-api/rollup"
	"github.com/pavlonic/evidence-api/session"
	"github.com/pavlonic/evidence-api/store"
)

type TechniqueHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTechniqueHandler(db *sql.DB, cfg cliparse.Config) *TechniqueHandler {
	return &TechniqueHandler{db: db, cfg: cfg}
}

// GetTechnique handles GET /v1/techniques/{id_or_slug}
// An unknown technique is a 404; dangling refs inside a known technique
// are not - they degrade to unresolved display.
func (h *TechniqueHandler) GetTechnique(w http.ResponseWriter, r *http.Request) {
	idOrSlug := r.PathValue("id_or_slug")
	if idOrSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "technique id or slug is required")
		return
	}

	sess := session.Resolve(h.db, []byte(h.cfg.JWTSecret), r)
	tier := entitlement.TierForRequest(sess, h.cfg, r)

	technique, err := store.GetTechnique(h.db, idOrSlug)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Technique not found")
		return
	}
	if err != nil {
		slog.Error("failed to query technique", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	index, err := store.GetResultIndexForTechnique(h.db, technique)
	if err != nil {
		slog.Error("failed to build result index", "technique", technique.TechniqueID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rendered := rollup.ResolveTechnique(technique, index, tier)

	middleware.SetEntitlementCacheHeaders(w, sess.Authenticated)
	middleware.JSONResponse(w, http.StatusOK, rendered)
}
