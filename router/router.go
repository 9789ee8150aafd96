// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/pavlonic/evidence-api/cliparse"
	"github.com/pavlonic/evidence-api/handlers"
	"github.com/pavlonic/evidence-api/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	studyHandler := handlers.NewStudyHandler(db, cfg)
	techniqueHandler := handlers.NewTechniqueHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity
	mux.HandleFunc("POST /v1/auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /v1/auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /v1/auth/me", middleware.WithLogging(authHandler.Me))

	// Evidence retrieval (public, tier-filtered)
	mux.HandleFunc("GET /v1/studies/{study_id}", middleware.WithLogging(studyHandler.GetStudy))
	mux.HandleFunc("GET /v1/techniques/{id_or_slug}", middleware.WithLogging(techniqueHandler.GetTechnique))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pavlonic API v1"))
	})

	return mux
}
