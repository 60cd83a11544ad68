// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"reflect"
	"testing"

	"github.com/altalias-project/altalias/lib/ref"
)

func TestCanonicalAliasAliases(t *testing.T) {
	tests := []struct {
		name    string
		content CanonicalAliasContent
		want    []string
	}{
		{
			name:    "empty record",
			content: CanonicalAliasContent{},
			want:    nil,
		},
		{
			name:    "canonical only",
			content: CanonicalAliasContent{Alias: "#room:example.org"},
			want:    []string{"#room:example.org"},
		},
		{
			name: "canonical first, then alternates in order",
			content: CanonicalAliasContent{
				Alias:      "#room:example.org",
				AltAliases: []string{"#b:example.org", "#a:example.org"},
			},
			want: []string{"#room:example.org", "#b:example.org", "#a:example.org"},
		},
		{
			name: "alternates without a canonical",
			content: CanonicalAliasContent{
				AltAliases: []string{"#a:example.org"},
			},
			want: []string{"#a:example.org"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.content.Aliases()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("Aliases() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestWithAltAlias(t *testing.T) {
	original := CanonicalAliasContent{
		Alias:      "#room:example.org",
		AltAliases: []string{"#old:example.org"},
	}
	added := ref.MustParseRoomAlias("#new:example.org")

	updated := original.WithAltAlias(added)

	if !updated.HasAltAlias(added) {
		t.Error("updated record should contain the new alias")
	}
	if updated.Alias != original.Alias {
		t.Errorf("canonical alias changed: %q", updated.Alias)
	}
	wantAlts := []string{"#old:example.org", "#new:example.org"}
	if !reflect.DeepEqual(updated.AltAliases, wantAlts) {
		t.Errorf("AltAliases = %v, want %v", updated.AltAliases, wantAlts)
	}

	// The receiver must be untouched.
	if len(original.AltAliases) != 1 {
		t.Errorf("original was mutated: %v", original.AltAliases)
	}
	if original.HasAltAlias(added) {
		t.Error("original should not contain the new alias")
	}
}
