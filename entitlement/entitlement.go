// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package entitlement

import (
	"net/http"
	"strings"

	"github.com/pavlonic/evidence-api/cliparse"
	"github.com/pavlonic/evidence-api/models"
	"github.com/pavlonic/evidence-api/session"
)

// OverrideHeader is the legacy client-supplied entitlement header. It is
// accepted syntactically on every request but only consulted when the
// process was started with the dev override flag.
const OverrideHeader = "X-Pavlonic-Entitlement"

// TierOf maps a persisted plan key to an access tier. The function is
// total and pure: every input, including unknown and empty plan keys,
// maps to a tier, and nothing maps to paid except basic_paid. That
// totality is the fail-closed guarantee.
func TierOf(planKey string) models.AccessTier {
	switch planKey {
	case models.PlanBasicPaid:
		return models.TierPaid
	case models.PlanFree:
		return models.TierPublic
	default:
		return models.TierPublic
	}
}

// TierForRequest derives the request's access tier from a resolved
// session. Anonymous sessions are public without consulting the plan
// mapping. The override header participates only under the immutable
// startup flag; in every deployed configuration it is inert.
func TierForRequest(sess session.Session, cfg cliparse.Config, r *http.Request) models.AccessTier {
	if cfg.DevEntitlementOverride {
		switch strings.ToLower(strings.TrimSpace(r.Header.Get(OverrideHeader))) {
		case string(models.TierPaid):
			return models.TierPaid
		case string(models.TierPublic):
			return models.TierPublic
		}
	}

	if !sess.Authenticated {
		return models.TierPublic
	}
	return TierOf(sess.PlanKey)
}

// FilterResults applies the result visibility rules for a tier.
//
// public: each result keeps its top-level effect summary; significance and
// reliability sub-records whose provenance marks them as expanded-only
// detail are stripped, along with free-text notes.
//
// paid: results pass through unmodified.
//
// The same filter runs wherever result detail surfaces, so a result never
// shows more through one path than another for the same tier.
func FilterResults(results []models.Result, tier models.AccessTier) []models.Result {
	if tier == models.TierPaid {
		return results
	}

	filtered := make([]models.Result, 0, len(results))
	for _, result := range results {
		out := result
		if out.Significance != nil && isExpandedOnly(out.Significance.Provenance) {
			out.Significance = nil
		}
		if out.Reliability != nil && isExpandedOnly(out.Reliability.Provenance) {
			out.Reliability = nil
		}
		out.Notes = ""
		filtered = append(filtered, out)
	}
	return filtered
}

// isExpandedOnly reports whether a provenance tag marks expanded-only
// detail. Unknown tags are treated as expanded-only: ambiguity resolves to
// least privilege.
func isExpandedOnly(provenance string) bool {
	return provenance != models.ProvenanceReported
}
