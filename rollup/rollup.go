// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rollup

import (
	"github.com/pavlonic/evidence-api/models"
)

// IndexedResult is one entry in a ResultIndex: a result joined with the
// citation fields of its owning study.
type IndexedResult struct {
	StudyID   string
	DOI       string
	SourceURL string
	Result    models.Result
}

// ResultIndex maps a reference token ("study_id:result_id") to its
// underlying record. Tokens missing from the index are dangling references.
type ResultIndex map[string]IndexedResult

// InternalLink computes the deterministic deep link to a study page at a
// result's anchor.
func InternalLink(studyID, resultID string) string {
	return "/studies/" + studyID + "#results/" + resultID
}

// ResolveTechnique renders a technique's curated tables against a result
// index. Resolution is pure and deterministic: the same technique and
// index always yield the same output, and re-resolving never mutates the
// input technique.
//
// Per channel, authored ref order is preserved verbatim. A ref that is not
// in the index is retained in the row's unresolved set and surfaces with
// no link; dangling references never abort rendering. Channel counts are
// pass-through curated values included only at the paid tier.
func ResolveTechnique(technique *models.Technique, index ResultIndex, tier models.AccessTier) *models.RenderedTechnique {
	rendered := &models.RenderedTechnique{
		TechniqueID:       technique.TechniqueID,
		Slug:              technique.Slug,
		Title:             technique.Title,
		Summary:           technique.Summary,
		ViewerEntitlement: tier,
		Tables:            make([]models.EvidenceTable, 0, len(technique.Tables)),
		ResolvedResults:   map[string]models.ResolvedResultRef{},
	}

	for _, table := range technique.Tables {
		out := models.EvidenceTable{
			TableID:    table.TableID,
			TableLabel: table.TableLabel,
			Rows:       make([]models.EvidenceRow, 0, len(table.Rows)),
		}
		for _, row := range table.Rows {
			outRow := models.EvidenceRow{
				RowID:            row.RowID,
				RowLabel:         row.RowLabel,
				SummaryStatement: row.SummaryStatement,
			}
			outRow.Performance = resolveChannel(row.Performance, index, tier, rendered.ResolvedResults, &outRow.Unresolved)
			outRow.Learning = resolveChannel(row.Learning, index, tier, rendered.ResolvedResults, &outRow.Unresolved)
			out.Rows = append(out.Rows, outRow)
		}
		rendered.Tables = append(rendered.Tables, out)
	}

	return rendered
}

// resolveChannel copies a curated channel, applies the tier gate to its
// counts, and folds its refs into the shared resolved-results map. Each
// token resolves to exactly one ResolvedResultRef no matter how many rows
// or channels reference it.
func resolveChannel(channel models.Channel, index ResultIndex, tier models.AccessTier,
	resolved map[string]models.ResolvedResultRef, unresolved *[]string) models.Channel {

	out := models.Channel{
		EffectSizeLabel:  channel.EffectSizeLabel,
		ReliabilityLabel: channel.ReliabilityLabel,
		Refs:             make([]string, 0, len(channel.Refs)),
	}
	if tier == models.TierPaid && channel.Counts != nil {
		counts := *channel.Counts
		out.Counts = &counts
	}

	for _, ref := range channel.Refs {
		out.Refs = append(out.Refs, ref)

		if _, done := resolved[ref]; done {
			continue
		}
		entry, ok := index[ref]
		if !ok {
			*unresolved = appendUnique(*unresolved, ref)
			continue
		}
		resolved[ref] = models.ResolvedResultRef{
			ResultID:     entry.Result.ResultID,
			StudyID:      entry.StudyID,
			ResultLabel:  entry.Result.ResultLabel,
			InternalLink: InternalLink(entry.StudyID, entry.Result.ResultID),
			DOI:          entry.DOI,
			SourceURL:    entry.SourceURL,
		}
	}

	return out
}

func appendUnique(tokens []string, token string) []string {
	for _, t := range tokens {
		if t == token {
			return tokens
		}
	}
	return append(tokens, token)
}
