// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command seed loads the deterministic demo content (study 0001 and the
// spaced-practice technique) into the configured database. Running it
// twice yields identical rows; account data is never modified.
package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/pavlonic/evidence-api/db"
)

func main() {
	godotenv.Load()

	databaseURL := flag.String("d", os.Getenv("DATABASE_URL"), "Database URL")
	databaseType := flag.String("t", envOr("DATABASE_TYPE", "sqlite"), "Database type (sqlite or postgres)")
	flag.Parse()

	if *databaseURL == "" {
		slog.Error("database URL required (use -d or DATABASE_URL env)")
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

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}

	if err := db.Seed(dbConn); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	var studies, results, techniques int64
	dbConn.QueryRow(`SELECT COUNT(*) FROM studies`).Scan(&studies)
	dbConn.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&results)
	dbConn.QueryRow(`SELECT COUNT(*) FROM techniques`).Scan(&techniques)

	slog.Info("Seed complete",
		"studies", humanize.Comma(studies),
		"results", humanize.Comma(results),
		"techniques", humanize.Comma(techniques),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
