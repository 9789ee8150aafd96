// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pavlonic/evidence-api/db"
	"github.com/pavlonic/evidence-api/models"
	"github.com/pavlonic/evidence-api/testutil"
)

func TestAccountLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	now := time.Now().UTC()
	acct := &models.Account{
		UserID:       uuid.NewString(),
		Email:        "alice@example.com",
		PasswordHash: "hash",
		PlanKey:      models.PlanFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := InsertAccount(conn, acct); err != nil {
		t.Fatalf("InsertAccount failed: %v", err)
	}

	byEmail, err := GetAccountByEmail(conn, "alice@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if byEmail.UserID != acct.UserID {
		t.Errorf("Expected user %s, got %s", acct.UserID, byEmail.UserID)
	}
	if byEmail.LastLoginAt != nil {
		t.Error("Expected no last login on a fresh account")
	}

	byID, err := GetAccountByID(conn, acct.UserID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("Unexpected email: %s", byID.Email)
	}

	if err := TouchLastLogin(conn, acct.UserID); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}
	byID, err = GetAccountByID(conn, acct.UserID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if byID.LastLoginAt == nil {
		t.Error("Expected last login recorded")
	}
}

func TestAccountNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	if _, err := GetAccountByEmail(conn, "nobody@example.com"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := GetAccountByID(conn, "no-such-id"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInsertAccountDuplicateEmail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	now := time.Now().UTC()
	first := &models.Account{
		UserID: uuid.NewString(), Email: "dup@example.com", PasswordHash: "h",
		PlanKey: models.PlanFree, CreatedAt: now, UpdatedAt: now,
	}
	if err := InsertAccount(conn, first); err != nil {
		t.Fatalf("InsertAccount failed: %v", err)
	}

	second := &models.Account{
		UserID: uuid.NewString(), Email: "dup@example.com", PasswordHash: "h",
		PlanKey: models.PlanFree, CreatedAt: now, UpdatedAt: now,
	}
	if err := InsertAccount(conn, second); err != ErrDuplicateAccount {
		t.Errorf("Expected ErrDuplicateAccount, got %v", err)
	}
}

func TestUpdateAccountPlan(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	testutil.CreateTestAccount(t, conn, cfg, "carol@example.com", "pw", models.PlanFree)

	oldPlan, err := UpdateAccountPlan(conn, "carol@example.com", models.PlanBasicPaid)
	if err != nil {
		t.Fatalf("UpdateAccountPlan failed: %v", err)
	}
	if oldPlan != models.PlanFree {
		t.Errorf("Expected old plan free, got %s", oldPlan)
	}

	acct, err := GetAccountByEmail(conn, "carol@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if acct.PlanKey != models.PlanBasicPaid {
		t.Errorf("Expected plan basic_paid, got %s", acct.PlanKey)
	}

	if _, err := UpdateAccountPlan(conn, "missing@example.com", models.PlanFree); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetStudy(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	testutil.SeedEvidence(t, conn)

	study, err := GetStudy(conn, db.DemoStudyID)
	if err != nil {
		t.Fatalf("GetStudy failed: %v", err)
	}

	if !study.IsSynthetic {
		t.Error("Expected demo study flagged synthetic")
	}
	if study.Citation.DOI == "" || study.Citation.SourceURL == "" {
		t.Error("Expected citation links populated")
	}
	if len(study.Citation.Authors) != 2 {
		t.Errorf("Expected 2 authors, got %d", len(study.Citation.Authors))
	}
	if len(study.Outcomes) != 2 {
		t.Errorf("Expected 2 outcomes, got %d", len(study.Outcomes))
	}
	if len(study.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(study.Results))
	}

	// R1 carries every sub-record; R3 is effect-only with NULL significance
	// and reliability columns.
	r1 := study.Results[0]
	if r1.Effect == nil || r1.Significance == nil || r1.Reliability == nil {
		t.Error("Expected R1 fully populated")
	}
	if r1.Significance.Provenance != models.ProvenanceComputed {
		t.Errorf("Unexpected significance provenance: %s", r1.Significance.Provenance)
	}

	r3 := study.Results[2]
	if r3.Effect == nil {
		t.Error("Expected R3 effect present")
	}
	if r3.Significance != nil || r3.Reliability != nil {
		t.Error("Expected R3 significance and reliability absent, not zero-valued")
	}
}

func TestGetStudyNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	if _, err := GetStudy(conn, "9999"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetTechniqueByIDAndSlug(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	testutil.SeedEvidence(t, conn)

	byID, err := GetTechnique(conn, db.DemoTechniqueID)
	if err != nil {
		t.Fatalf("GetTechnique by id failed: %v", err)
	}
	bySlug, err := GetTechnique(conn, db.DemoTechniqueSlug)
	if err != nil {
		t.Fatalf("GetTechnique by slug failed: %v", err)
	}

	if byID.TechniqueID != bySlug.TechniqueID {
		t.Error("Expected id and slug lookups to resolve the same technique")
	}
	if len(byID.Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(byID.Tables))
	}
	if len(byID.Tables[0].Rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(byID.Tables[0].Rows))
	}

	if _, err := GetTechnique(conn, "no-such-technique"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetResultIndexForTechnique(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	testutil.SeedEvidence(t, conn)

	technique, err := GetTechnique(conn, db.DemoTechniqueID)
	if err != nil {
		t.Fatalf("GetTechnique failed: %v", err)
	}

	index, err := GetResultIndexForTechnique(conn, technique)
	if err != nil {
		t.Fatalf("GetResultIndexForTechnique failed: %v", err)
	}

	// The demo technique references R1, R2, and R3 of the demo study.
	for _, token := range []string{"0001:R1", "0001:R2", "0001:R3"} {
		entry, ok := index[token]
		if !ok {
			t.Errorf("Expected %s in index", token)
			continue
		}
		if entry.StudyID != db.DemoStudyID {
			t.Errorf("%s: unexpected study id %s", token, entry.StudyID)
		}
		if entry.DOI == "" {
			t.Errorf("%s: expected study DOI carried into the index", token)
		}
	}
	if len(index) != 3 {
		t.Errorf("Expected 3 indexed results, got %d", len(index))
	}
}

func TestGetResultIndexSkipsDanglingRefs(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	testutil.SeedEvidence(t, conn)

	technique := &models.Technique{
		TechniqueID: "tq-dangling",
		Slug:        "dangling",
		Tables: []models.EvidenceTable{
			{
				TableID: "t1",
				Rows: []models.EvidenceRow{
					{
						RowID:       "r1",
						Performance: models.Channel{Refs: []string{"0001:R1", "0001:R9"}},
						Learning:    models.Channel{Refs: []string{"9999:R1"}},
					},
				},
			},
		},
	}

	index, err := GetResultIndexForTechnique(conn, technique)
	if err != nil {
		t.Fatalf("GetResultIndexForTechnique failed: %v", err)
	}

	if _, ok := index["0001:R1"]; !ok {
		t.Error("Expected resolvable ref in index")
	}
	if _, ok := index["0001:R9"]; ok {
		t.Error("Missing result must be absent from index, not errored")
	}
	if _, ok := index["9999:R1"]; ok {
		t.Error("Missing study must be absent from index, not errored")
	}
	if len(index) != 1 {
		t.Errorf("Expected 1 indexed result, got %d", len(index))
	}
}

func TestGetResultIndexEmptyTechnique(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	index, err := GetResultIndexForTechnique(conn, &models.Technique{TechniqueID: "tq-empty"})
	if err != nil {
		t.Fatalf("GetResultIndexForTechnique failed: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("Expected empty index, got %d entries", len(index))
	}
}
