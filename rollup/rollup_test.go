// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rollup

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pavlonic/evidence-api/models"
)

func testTechnique() *models.Technique {
	return &models.Technique{
		TechniqueID: "tq-test",
		Slug:        "test-technique",
		Title:       "Test technique",
		Summary:     "A technique for testing.",
		Tables: []models.EvidenceTable{
			{
				TableID:    "table-1",
				TableLabel: "Main evidence",
				Rows: []models.EvidenceRow{
					{
						RowID:            "overall",
						RowLabel:         "Overall",
						SummaryStatement: "Overall summary.",
						Performance: models.Channel{
							EffectSizeLabel:  "Medium",
							ReliabilityLabel: "High",
							Counts:           &models.ChannelCounts{Studies: 2, Participants: 200, MetaAnalyses: 1},
							Refs:             []string{"0001:R2", "0001:R1"},
						},
						Learning: models.Channel{
							EffectSizeLabel: "Small",
							Refs:            []string{"0001:R1"},
						},
					},
					{
						RowID:    "subgroup",
						RowLabel: "Subgroup",
						Performance: models.Channel{
							Refs: []string{"0001:R9"},
						},
						Learning: models.Channel{
							Counts: &models.ChannelCounts{Studies: 1, Participants: 40},
							Refs:   []string{"0001:R1", "0001:R9"},
						},
					},
				},
			},
		},
	}
}

func testIndex() ResultIndex {
	return ResultIndex{
		"0001:R1": {
			StudyID:   "0001",
			DOI:       "10.0000/test.0001",
			SourceURL: "https://example.org/studies/0001",
			Result:    models.Result{ResultID: "R1", OutcomeID: "O1", ResultLabel: "First result"},
		},
		"0001:R2": {
			StudyID: "0001",
			Result:  models.Result{ResultID: "R2", OutcomeID: "O2", ResultLabel: "Second result"},
		},
	}
}

func TestInternalLink(t *testing.T) {
	if got := InternalLink("0001", "R1"); got != "/studies/0001#results/R1" {
		t.Errorf("Unexpected internal link: %s", got)
	}
}

func TestResolveTechniquePaid(t *testing.T) {
	rendered := ResolveTechnique(testTechnique(), testIndex(), models.TierPaid)

	if rendered.TechniqueID != "tq-test" || rendered.Slug != "test-technique" {
		t.Error("Technique identity not carried through")
	}
	if rendered.ViewerEntitlement != models.TierPaid {
		t.Errorf("Expected viewer_entitlement paid, got %s", rendered.ViewerEntitlement)
	}

	overall := rendered.Tables[0].Rows[0]

	// Authored ref order is preserved verbatim, R2 before R1.
	perfRefs := overall.Performance.Refs
	if len(perfRefs) != 2 || perfRefs[0] != "0001:R2" || perfRefs[1] != "0001:R1" {
		t.Errorf("Expected authored ref order [0001:R2 0001:R1], got %v", perfRefs)
	}

	if overall.Performance.Counts == nil {
		t.Fatal("Expected counts present at paid tier")
	}
	if overall.Performance.Counts.Participants != 200 {
		t.Errorf("Expected participants 200, got %d", overall.Performance.Counts.Participants)
	}

	// Both channels referencing 0001:R1 share a single resolved entry.
	if len(rendered.ResolvedResults) != 2 {
		t.Fatalf("Expected 2 resolved results, got %d", len(rendered.ResolvedResults))
	}
	r1, ok := rendered.ResolvedResults["0001:R1"]
	if !ok {
		t.Fatal("Expected 0001:R1 resolved")
	}
	if r1.InternalLink != "/studies/0001#results/R1" {
		t.Errorf("Unexpected internal link: %s", r1.InternalLink)
	}
	if r1.DOI != "10.0000/test.0001" {
		t.Errorf("Expected DOI carried from the study, got %q", r1.DOI)
	}
	if r1.ResultLabel != "First result" {
		t.Errorf("Unexpected result label: %s", r1.ResultLabel)
	}
}

func TestResolveTechniquePublicStripsCounts(t *testing.T) {
	rendered := ResolveTechnique(testTechnique(), testIndex(), models.TierPublic)

	if rendered.ViewerEntitlement != models.TierPublic {
		t.Errorf("Expected viewer_entitlement public, got %s", rendered.ViewerEntitlement)
	}

	for _, table := range rendered.Tables {
		for _, row := range table.Rows {
			if row.Performance.Counts != nil || row.Learning.Counts != nil {
				t.Errorf("Row %s: expected counts withheld at public tier", row.RowID)
			}
		}
	}

	// Everything else renders identically to paid: labels, refs, and the
	// resolved results map.
	paid := ResolveTechnique(testTechnique(), testIndex(), models.TierPaid)
	overall := rendered.Tables[0].Rows[0]
	if overall.Performance.EffectSizeLabel != "Medium" {
		t.Error("Expected curated labels at public tier")
	}
	if len(rendered.ResolvedResults) != len(paid.ResolvedResults) {
		t.Error("Expected identical resolved results across tiers")
	}
}

func TestResolveTechniqueDanglingRefs(t *testing.T) {
	rendered := ResolveTechnique(testTechnique(), testIndex(), models.TierPaid)

	// 0001:R9 is dangling. The overall row is clean; the subgroup row
	// records the token once despite both channels referencing it.
	overall := rendered.Tables[0].Rows[0]
	if len(overall.Unresolved) != 0 {
		t.Errorf("Expected no unresolved refs on overall row, got %v", overall.Unresolved)
	}

	subgroup := rendered.Tables[0].Rows[1]
	if len(subgroup.Unresolved) != 1 || subgroup.Unresolved[0] != "0001:R9" {
		t.Errorf("Expected unresolved [0001:R9], got %v", subgroup.Unresolved)
	}

	// The dangling token stays in the channel ref list but never appears in
	// the resolved map.
	if subgroup.Performance.Refs[0] != "0001:R9" {
		t.Error("Expected dangling ref retained in channel refs")
	}
	if _, ok := rendered.ResolvedResults["0001:R9"]; ok {
		t.Error("Dangling ref must not appear in resolved_results")
	}
}

func TestResolveTechniqueDeterministic(t *testing.T) {
	technique := testTechnique()
	index := testIndex()

	first, err := json.Marshal(ResolveTechnique(technique, index, models.TierPaid))
	if err != nil {
		t.Fatalf("Failed to marshal rendering: %v", err)
	}
	second, err := json.Marshal(ResolveTechnique(technique, index, models.TierPaid))
	if err != nil {
		t.Fatalf("Failed to marshal rendering: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Expected identical bytes for repeated resolution")
	}
}

func TestResolveTechniqueDoesNotMutateInput(t *testing.T) {
	technique := testTechnique()
	ResolveTechnique(technique, testIndex(), models.TierPublic)

	// Counts, refs, and unresolved on the authored document are untouched.
	row := technique.Tables[0].Rows[0]
	if row.Performance.Counts == nil {
		t.Error("Authored counts were mutated")
	}
	if row.Unresolved != nil {
		t.Error("Authored rows must not gain unresolved sets")
	}
}

func TestResolveTechniqueEmptyTables(t *testing.T) {
	technique := &models.Technique{TechniqueID: "tq-empty", Slug: "empty"}
	rendered := ResolveTechnique(technique, ResultIndex{}, models.TierPublic)

	if len(rendered.Tables) != 0 {
		t.Errorf("Expected no tables, got %d", len(rendered.Tables))
	}
	if len(rendered.ResolvedResults) != 0 {
		t.Errorf("Expected empty resolved results, got %d", len(rendered.ResolvedResults))
	}

	// An empty map still serializes as {}, not null.
	payload, err := json.Marshal(rendered)
	if err != nil {
		t.Fatalf("Failed to marshal rendering: %v", err)
	}
	if !bytes.Contains(payload, []byte(`"resolved_results":{}`)) {
		t.Errorf("Expected resolved_results to serialize as an object: %s", payload)
	}
}
