// Copyright (c) 2025 Pavlonic.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package entitlement maps persisted plan state to request-scoped access
tiers and filters result detail accordingly.

# Policy

	free       → public
	basic_paid → paid
	anything else, missing, or anonymous → public

TierOf never fails; there is no code path that yields an undefined or
elevated tier.

# Visibility Filter

FilterResults reduces results to aggregate detail at the public tier
(expanded-only significance/reliability sub-records and notes stripped) and
passes them through untouched at the paid tier. Every field visible at
public is present and identical at paid.

# Legacy Override Header

X-Pavlonic-Entitlement is read only when the process was started with the
dev override flag from cliparse. The flag is immutable for the process
lifetime and disabled by default, so the header is inert in every deployed
configuration; it survives only so tests can assert that inertness.
*/
package entitlement
