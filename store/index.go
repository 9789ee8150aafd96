// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pavlonic/evidence-api/models"
	"github.com/pavlonic/evidence-api/rollup"
)

// GetResultIndexForTechnique builds a fresh result index covering every
// reference token in the technique's curated tables. Tokens that reference
// missing results are simply absent from the index - the rollup engine
// treats them as dangling.
func GetResultIndexForTechnique(db *sql.DB, technique *models.Technique) (rollup.ResultIndex, error) {
	tokens := collectRefTokens(technique.Tables)
	index := rollup.ResultIndex{}
	if len(tokens) == 0 {
		return index, nil
	}

	// One batched query per referenced study keeps placeholder handling
	// identical across both drivers.
	byStudy := map[string][]string{}
	for _, token := range tokens {
		studyID, resultID, ok := models.SplitRefToken(token)
		if !ok {
			continue
		}
		byStudy[studyID] = append(byStudy[studyID], resultID)
	}

	for studyID, resultIDs := range byStudy {
		var doi, sourceURL sql.NullString
		err := db.QueryRow(`
			SELECT doi, source_url FROM studies WHERE study_id = $1
		`, studyID).Scan(&doi, &sourceURL)
		if err == sql.ErrNoRows {
			continue // dangling study reference
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query study for index: %w", err)
		}

		placeholders := make([]string, len(resultIDs))
		args := make([]interface{}, 0, len(resultIDs)+1)
		args = append(args, studyID)
		for i, resultID := range resultIDs {
			placeholders[i] = "$" + strconv.Itoa(i+2)
			args = append(args, resultID)
		}

		results, err := queryResults(db, `
			SELECT result_id, outcome_id, result_label, result_description,
			       effect_type, effect_value, effect_direction, effect_provenance,
			       significance_type, significance_value, significance_provenance,
			       reliability_rating, reliability_provenance, notes
			FROM results
			WHERE study_id = $1 AND result_id IN (`+strings.Join(placeholders, ", ")+`)
			ORDER BY result_id
		`, args...)
		if err != nil {
			return nil, err
		}

		for _, result := range results {
			index[models.MakeRefToken(studyID, result.ResultID)] = rollup.IndexedResult{
				StudyID:   studyID,
				DOI:       doi.String,
				SourceURL: sourceURL.String,
				Result:    result,
			}
		}
	}

	return index, nil
}

func collectRefTokens(tables []models.EvidenceTable) []string {
	seen := map[string]bool{}
	var tokens []string
	for _, table := range tables {
		for _, row := range table.Rows {
			for _, channel := range []models.Channel{row.Performance, row.Learning} {
				for _, ref := range channel.Refs {
					if !seen[ref] {
						seen[ref] = true
						tokens = append(tokens, ref)
					}
				}
			}
		}
	}
	return tokens
}
