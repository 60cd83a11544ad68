// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package aliasrule

import (
	"testing"

	"github.com/altalias-project/altalias/lib/clock"
	"github.com/altalias-project/altalias/lib/ref"
)

func TestAllowedLocalpartFallback(t *testing.T) {
	tests := []struct {
		name     string
		alias    string
		existing []string
		want     bool
	}{
		{
			name:     "matches canonical alias localpart",
			alias:    "#room:other.org",
			existing: []string{"#room:example.org"},
			want:     true,
		},
		{
			name:     "matches an alternate alias localpart",
			alias:    "#weekly:other.org",
			existing: []string{"#room:example.org", "#weekly:example.org"},
			want:     true,
		},
		{
			name:     "different localpart",
			alias:    "#new:other.org",
			existing: []string{"#room:example.org"},
			want:     false,
		},
		{
			name:     "no existing aliases",
			alias:    "#room:other.org",
			existing: nil,
			want:     false,
		},
		{
			name:     "malformed existing entries are skipped",
			alias:    "#room:other.org",
			existing: []string{"", "not-an-alias", "#noserver", "#room:example.org"},
			want:     true,
		},
		{
			name:     "malformed entries alone never match",
			alias:    "#room:other.org",
			existing: []string{"room:example.org", "#room"},
			want:     false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			alias := ref.MustParseRoomAlias(test.alias)
			got := Allowed(nil, alias, test.existing)
			if got != test.want {
				t.Errorf("Allowed(nil, %q, %v) = %v, want %v",
					test.alias, test.existing, got, test.want)
			}
		})
	}
}

func TestAllowedWithRules(t *testing.T) {
	set := NewRuleSet(mustCompileAll(t, `#test.*:example\.org`), clock.Real(), discardLogger())
	existing := []string{"#room:example.org"}

	// A matching rule allows the alias even though the localpart does
	// not appear among the existing aliases.
	if !Allowed(set, ref.MustParseRoomAlias("#test-1:example.org"), existing) {
		t.Error("alias matching a rule was denied")
	}

	// With rules configured, localpart equality no longer applies.
	if Allowed(set, ref.MustParseRoomAlias("#room:other.org"), existing) {
		t.Error("localpart fallback applied despite configured rules")
	}
}

func TestAllowedEmptyConfiguredSetDeniesEverything(t *testing.T) {
	// A room configured with an empty formats list is authoritative:
	// it denies all aliases, including ones the localpart fallback
	// would have allowed.
	set := NewRuleSet(nil, clock.Real(), discardLogger())
	existing := []string{"#room:example.org"}

	if Allowed(set, ref.MustParseRoomAlias("#room:other.org"), existing) {
		t.Error("empty configured set allowed an alias")
	}
}
