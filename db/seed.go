// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pavlonic/evidence-api/models"
)

// Demo content identifiers
const (
	DemoStudyID       = "0001"
	DemoTechniqueID   = "tq-0001"
	DemoTechniqueSlug = "spaced-practice"
)

// DemoStudy returns the synthetic seed study.
func DemoStudy() models.Study {
	return models.Study{
		StudyID:     DemoStudyID,
		IsSynthetic: true,
		Citation: models.Citation{
			Title:     "Distributed practice and retention: a synthetic demonstration study",
			Authors:   []string{"A. Researcher", "B. Collaborator"},
			Year:      2024,
			Venue:     "Journal of Synthetic Evidence",
			DOI:       "10.0000/synthetic.0001",
			SourceURL: "https://example.org/studies/0001",
		},
		StudyType: "randomized_controlled_trial",
		Outcomes: []models.Outcome{
			{OutcomeID: "O1", Label: "Skill execution speed", Kind: models.KindPerformance},
			{OutcomeID: "O2", Label: "Retention at four weeks", Kind: models.KindLearning},
		},
		Results: []models.Result{
			{
				ResultID:          "R1",
				OutcomeID:         "O1",
				ResultLabel:       "Execution speed vs massed practice",
				ResultDescription: "Spaced group completed the task battery faster at post-test.",
				Effect:            &models.Effect{Type: "cohens_d", Value: 0.31, Direction: "positive", Provenance: models.ProvenanceReported},
				Significance:      &models.Significance{Type: "p_value", Value: 0.04, Provenance: models.ProvenanceComputed},
				Reliability:       &models.Reliability{Rating: "medium", Provenance: models.ProvenanceEntered},
				Notes:             "Effect attenuated after adjusting for baseline speed.",
			},
			{
				ResultID:          "R2",
				OutcomeID:         "O2",
				ResultLabel:       "Retention vs massed practice",
				ResultDescription: "Spaced group retained more of the trained material.",
				Effect:            &models.Effect{Type: "cohens_d", Value: 0.52, Direction: "positive", Provenance: models.ProvenanceReported},
				Significance:      &models.Significance{Type: "p_value", Value: 0.01, Provenance: models.ProvenanceComputed},
				Reliability:       &models.Reliability{Rating: "high", Provenance: models.ProvenanceEntered},
				Notes:             "Largest effect in the low-prior-knowledge subgroup.",
			},
			{
				ResultID:    "R3",
				OutcomeID:   "O2",
				ResultLabel: "Transfer to untrained material",
				Effect:      &models.Effect{Type: "cohens_d", Value: 0.18, Direction: "positive", Provenance: models.ProvenanceReported},
				// Significance and reliability not reported for this row.
			},
		},
	}
}

// DemoTechnique returns the curated seed technique referencing DemoStudy.
func DemoTechnique() models.Technique {
	return models.Technique{
		TechniqueID: DemoTechniqueID,
		Slug:        DemoTechniqueSlug,
		Title:       "Spaced practice",
		Summary:     "Practice distributed over time to improve retention.",
		Tables: []models.EvidenceTable{
			{
				TableID:    "table-1",
				TableLabel: "Spaced practice evidence",
				Rows: []models.EvidenceRow{
					{
						RowID:            "overall",
						RowLabel:         "Overall",
						SummaryStatement: "Overall evidence favors spaced practice in this synthetic demo.",
						Performance: models.Channel{
							EffectSizeLabel:  "Small positive",
							ReliabilityLabel: "Medium",
							Counts:           &models.ChannelCounts{Studies: 1, Participants: 120, MetaAnalyses: 0},
							Refs:             []string{"0001:R1"},
						},
						Learning: models.Channel{
							EffectSizeLabel:  "Medium positive",
							ReliabilityLabel: "High",
							Counts:           &models.ChannelCounts{Studies: 1, Participants: 120, MetaAnalyses: 0},
							Refs:             []string{"0001:R2"},
						},
					},
					{
						RowID:            "transfer",
						RowLabel:         "Transfer outcomes",
						SummaryStatement: "Transfer outcomes show benefits in synthetic data.",
						Performance: models.Channel{
							EffectSizeLabel:  "Small positive",
							ReliabilityLabel: "Medium",
							Refs:             []string{"0001:R1"},
						},
						Learning: models.Channel{
							EffectSizeLabel:  "Small positive",
							ReliabilityLabel: "Medium",
							Counts:           &models.ChannelCounts{Studies: 1, Participants: 120, MetaAnalyses: 0},
							Refs:             []string{"0001:R3"},
						},
					},
				},
			},
		},
	}
}

// Seed clears the content tables and inserts the demo study and technique.
// Deterministic: seeding twice yields identical rows. Account rows are
// never touched.
func Seed(db *sql.DB) error {
	for _, table := range []string{"results", "outcomes", "techniques", "studies"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := SeedStudy(db, DemoStudy()); err != nil {
		return err
	}
	return SeedTechnique(db, DemoTechnique())
}

// SeedStudy inserts one study with its outcomes and results.
func SeedStudy(db *sql.DB, study models.Study) error {
	authors, err := json.Marshal(study.Citation.Authors)
	if err != nil {
		return fmt.Errorf("failed to serialize authors: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO studies (study_id, is_synthetic, title, authors, year, venue, doi, source_url, study_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, study.StudyID, study.IsSynthetic, study.Citation.Title, string(authors),
		study.Citation.Year, study.Citation.Venue,
		nullable(study.Citation.DOI), nullable(study.Citation.SourceURL), study.StudyType)
	if err != nil {
		return fmt.Errorf("failed to insert study: %w", err)
	}

	for _, outcome := range study.Outcomes {
		_, err := db.Exec(`
			INSERT INTO outcomes (study_id, outcome_id, label, kind)
			VALUES ($1, $2, $3, $4)
		`, study.StudyID, outcome.OutcomeID, outcome.Label, outcome.Kind)
		if err != nil {
			return fmt.Errorf("failed to insert outcome %s: %w", outcome.OutcomeID, err)
		}
	}

	for _, result := range study.Results {
		if err := insertResult(db, study.StudyID, result); err != nil {
			return err
		}
	}
	return nil
}

func insertResult(db *sql.DB, studyID string, result models.Result) error {
	var effectType, effectDirection, effectProv interface{}
	var effectValue interface{}
	if result.Effect != nil {
		effectType = result.Effect.Type
		effectValue = result.Effect.Value
		effectDirection = result.Effect.Direction
		effectProv = result.Effect.Provenance
	}
	var sigType, sigProv, sigValue interface{}
	if result.Significance != nil {
		sigType = result.Significance.Type
		sigValue = result.Significance.Value
		sigProv = result.Significance.Provenance
	}
	var relRating, relProv interface{}
	if result.Reliability != nil {
		relRating = result.Reliability.Rating
		relProv = result.Reliability.Provenance
	}

	_, err := db.Exec(`
		INSERT INTO results (study_id, result_id, outcome_id, result_label, result_description,
			effect_type, effect_value, effect_direction, effect_provenance,
			significance_type, significance_value, significance_provenance,
			reliability_rating, reliability_provenance, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, studyID, result.ResultID, result.OutcomeID, result.ResultLabel,
		nullable(result.ResultDescription),
		effectType, effectValue, effectDirection, effectProv,
		sigType, sigValue, sigProv,
		relRating, relProv, nullable(result.Notes))
	if err != nil {
		return fmt.Errorf("failed to insert result %s: %w", result.ResultID, err)
	}
	return nil
}

// SeedTechnique validates and inserts one technique.
func SeedTechnique(db *sql.DB, technique models.Technique) error {
	if err := models.ValidateTables(technique.Tables); err != nil {
		return fmt.Errorf("invalid technique tables: %w", err)
	}
	tables, err := json.Marshal(technique.Tables)
	if err != nil {
		return fmt.Errorf("failed to serialize tables: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO techniques (technique_id, slug, title, summary, tables_json)
		VALUES ($1, $2, $3, $4, $5)
	`, technique.TechniqueID, technique.Slug, technique.Title, technique.Summary, string(tables))
	if err != nil {
		return fmt.Errorf("failed to insert technique: %w", err)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
