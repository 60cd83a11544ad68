// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package aliasrule

import "github.com/altalias-project/altalias/lib/ref"

// Allowed decides whether a candidate alias may be published in a
// room.
//
// A nil set means the room has no configured allow-list; the candidate
// is then allowed only when its localpart equals the localpart of an
// alias the room already publishes (the canonical alias or any
// alternate). Existing entries that are not parseable aliases are
// skipped, not treated as errors: the published alias record is owned
// by the homeserver and other clients, and may hold entries this bot
// considers malformed.
//
// A non-nil set, even an empty one, is authoritative: the candidate is
// allowed exactly when a rule matches the entire alias string within
// the set's time budget.
func Allowed(set *RuleSet, alias ref.RoomAlias, existing []string) bool {
	if set == nil {
		return localpartMatchesAny(alias.Localpart(), existing)
	}
	return set.Matches(alias.String())
}

func localpartMatchesAny(localpart string, existing []string) bool {
	for _, raw := range existing {
		published, err := ref.ParseRoomAlias(raw)
		if err != nil {
			continue
		}
		if published.Localpart() == localpart {
			return true
		}
	}
	return false
}
