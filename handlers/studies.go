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
	"github.com/pavlonic/evidence-api/models"
	"github.com/pavlonic/evidence-api/session"
	"github.com/pavlonic/evidence-api/store"
)

type StudyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewStudyHandler(db *sql.DB, cfg cliparse.Config) *StudyHandler {
	return &StudyHandler{db: db, cfg: cfg}
}

// GetStudy handles GET /v1/studies/{study_id}
// The access tier is fully resolved before any result detail is selected;
// the visibility filter then reduces results for the public tier.
func (h *StudyHandler) GetStudy(w http.ResponseWriter, r *http.Request) {
	studyID := r.PathValue("study_id")
	if studyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "study_id is required")
		return
	}

	sess := session.Resolve(h.db, []byte(h.cfg.JWTSecret), r)
	tier := entitlement.TierForRequest(sess, h.cfg, r)

	study, err := store.GetStudy(h.db, studyID)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Study not found")
		return
	}
	if err != nil {
		slog.Error("failed to query study", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	study.Results = entitlement.FilterResults(study.Results, tier)

	middleware.SetEntitlementCacheHeaders(w, sess.Authenticated)
	middleware.JSONResponse(w, http.StatusOK, models.StudyResponse{
		Study:             *study,
		ViewerEntitlement: tier,
	})
}
