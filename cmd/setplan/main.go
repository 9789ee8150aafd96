// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command setplan is the administrative plan change: it sets one account's
// plan key by normalized email. This is the only supported write path for
// plan_key - the API itself never mutates entitlement state. The change
// takes effect on the account's next request because tiers are re-derived
// from the persisted plan key every time.
//
//	setplan -d pavlonic.db -email demo@example.com -plan basic_paid
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/pavlonic/evidence-api/auth"
	"github.com/pavlonic/evidence-api/models"
	"github.com/pavlonic/evidence-api/store"
)

func main() {
	godotenv.Load()

	databaseURL := flag.String("d", os.Getenv("DATABASE_URL"), "Database URL")
	databaseType := flag.String("t", envOr("DATABASE_TYPE", "sqlite"), "Database type (sqlite or postgres)")
	email := flag.String("email", "", "Account email")
	plan := flag.String("plan", "", "New plan key (free or basic_paid)")
	flag.Parse()

	if *databaseURL == "" {
		slog.Error("database URL required (use -d or DATABASE_URL env)")
		os.Exit(1)
	}
	if *email == "" {
		slog.Error("-email is required")
		os.Exit(1)
	}
	if *plan != models.PlanFree && *plan != models.PlanBasicPaid {
		slog.Error("-plan must be one of: free, basic_paid", "got", *plan)
		os.Exit(1)
	}

	driver := "sqlite"
	if *databaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, *databaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	normalized := auth.NormalizeEmail(*email)
	oldPlan, err := store.UpdateAccountPlan(dbConn, normalized, *plan)
	if err == store.ErrNotFound {
		slog.Error("no account for email", "email", normalized)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("plan update failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Updated plan_key for %s: %s -> %s\n", normalized, oldPlan, *plan)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
