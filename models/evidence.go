// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
)

// Technique is a curated rollup of study results. Tables is hand-authored
// editorial data, not derived from the results it references.
type Technique struct {
	TechniqueID string          `json:"technique_id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Tables      []EvidenceTable `json:"tables"`
}

// EvidenceTable is one curated table of evidence rows.
type EvidenceTable struct {
	TableID    string        `json:"table_id"`
	TableLabel string        `json:"table_label"`
	Rows       []EvidenceRow `json:"rows"`
}

// EvidenceRow carries one performance channel and one learning channel.
// Unresolved lists reference tokens that did not resolve against the
// result index; it is populated at resolution time, never authored.
type EvidenceRow struct {
	RowID            string   `json:"row_id"`
	RowLabel         string   `json:"row_label"`
	SummaryStatement string   `json:"summary_statement"`
	Performance      Channel  `json:"performance"`
	Learning         Channel  `json:"learning"`
	Unresolved       []string `json:"unresolved,omitempty"`
}

// Channel holds curated summary labels, optional pass-through counts, and
// an ordered list of reference tokens ("study_id:result_id"). Ref order is
// authored editorial intent and is preserved verbatim.
type Channel struct {
	EffectSizeLabel  string         `json:"effect_size_label"`
	ReliabilityLabel string         `json:"reliability_label"`
	Counts           *ChannelCounts `json:"counts,omitempty"`
	Refs             []string       `json:"refs"`
}

// ChannelCounts are curated aggregates (not computed from results).
type ChannelCounts struct {
	Studies      int `json:"studies"`
	Participants int `json:"participants"`
	MetaAnalyses int `json:"meta_analyses"`
}

// ResolvedResultRef is a reference token joined against the underlying
// result and study records to produce a navigable citation.
type ResolvedResultRef struct {
	ResultID     string `json:"result_id"`
	StudyID      string `json:"study_id"`
	ResultLabel  string `json:"result_label"`
	InternalLink string `json:"internal_link"`
	DOI          string `json:"doi,omitempty"`
	SourceURL    string `json:"source_url,omitempty"`
}

// RenderedTechnique is the render-ready technique payload.
type RenderedTechnique struct {
	TechniqueID       string                       `json:"technique_id"`
	Slug              string                       `json:"slug"`
	Title             string                       `json:"title"`
	Summary           string                       `json:"summary"`
	ViewerEntitlement AccessTier                   `json:"viewer_entitlement"`
	Tables            []EvidenceTable              `json:"tables"`
	ResolvedResults   map[string]ResolvedResultRef `json:"resolved_results"`
}

// MakeRefToken builds the "study_id:result_id" reference token.
func MakeRefToken(studyID, resultID string) string {
	return studyID + ":" + resultID
}

// SplitRefToken splits a reference token into study and result IDs.
// Returns false for tokens that are not of the "study:result" form.
func SplitRefToken(token string) (studyID, resultID string, ok bool) {
	studyID, resultID, found := strings.Cut(token, ":")
	if !found || studyID == "" || resultID == "" {
		return "", "", false
	}
	return studyID, resultID, true
}

// ValidateTables checks a curated tables document at load time.
// Reference tokens are strings, not typed foreign keys: token form is
// validated here, but whether a token resolves is decided at render time.
func ValidateTables(tables []EvidenceTable) error {
	for ti, table := range tables {
		if table.TableID == "" {
			return fmt.Errorf("table %d: table_id is required", ti)
		}
		for ri, row := range table.Rows {
			if row.RowID == "" {
				return fmt.Errorf("table %s row %d: row_id is required", table.TableID, ri)
			}
			for _, channel := range []struct {
				name string
				ch   Channel
			}{
				{KindPerformance, row.Performance},
				{KindLearning, row.Learning},
			} {
				for _, ref := range channel.ch.Refs {
					if _, _, ok := SplitRefToken(ref); !ok {
						return fmt.Errorf("table %s row %s %s: malformed ref %q",
							table.TableID, row.RowID, channel.name, ref)
					}
				}
				if c := channel.ch.Counts; c != nil {
					if c.Studies < 0 || c.Participants < 0 || c.MetaAnalyses < 0 {
						return fmt.Errorf("table %s row %s %s: negative counts",
							table.TableID, row.RowID, channel.name)
					}
				}
			}
		}
	}
	return nil
}
