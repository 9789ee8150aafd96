// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package rollup resolves curated technique evidence tables into render-ready
payloads.

# Resolution

	index, _ := store.GetResultIndexForTechnique(db, technique)
	rendered := rollup.ResolveTechnique(technique, index, tier)

Resolution walks table → row → channel in authored order, preserves every
ref token verbatim, and joins each token against the result index once. The
resolved_results map is shared across all rows and channels so a token
resolves to a single ResolvedResultRef object.

# Failure Policy

Dangling references (tokens absent from the index) are collected into the
owning row's unresolved set and render with no link; they never abort a
request. A technique with no tables renders an empty table list.

# Tier Gate

The only tier-sensitive output is channel counts: curated pass-through
aggregates included at paid tier and omitted at public tier. Everything
else renders identically for every tier.
*/
package rollup
