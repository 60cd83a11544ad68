// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseRoomAlias(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantLocalpart string
		wantServer    string
		wantErr       string
	}{
		{"simple", "#general:example.org", "general", "example.org", ""},
		{"single char localpart", "#a:b", "a", "b", ""},
		{"localpart with dashes", "#team-a:example.org", "team-a", "example.org", ""},
		{"server with port", "#room:example.org:8448", "room", "example.org:8448", ""},
		{"empty", "", "", "", "empty"},
		{"missing sigil", "general:example.org", "", "", "must start with"},
		{"wrong sigil", "@general:example.org", "", "", "must start with"},
		{"missing separator", "#general", "", "", "missing the ':server' separator"},
		{"empty localpart", "#:example.org", "", "", "empty localpart"},
		{"empty server", "#general:", "", "", "empty server"},
		{"bare sigil", "#", "", "", "missing the ':server' separator"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			alias, err := ParseRoomAlias(test.input)
			if test.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseRoomAlias(%q): expected error, got %q", test.input, alias)
				}
				if !strings.Contains(err.Error(), test.wantErr) {
					t.Errorf("ParseRoomAlias(%q): error %q does not contain %q", test.input, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRoomAlias(%q) failed: %v", test.input, err)
			}
			if alias.Localpart() != test.wantLocalpart {
				t.Errorf("Localpart: got %q, want %q", alias.Localpart(), test.wantLocalpart)
			}
			if alias.Server() != test.wantServer {
				t.Errorf("Server: got %q, want %q", alias.Server(), test.wantServer)
			}
			if alias.String() != test.input {
				t.Errorf("String: got %q, want %q", alias.String(), test.input)
			}
		})
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"@alice:example.org", false},
		{"@a:b", false},
		{"", true},
		{"alice:example.org", true},
		{"#alice:example.org", true},
		{"@alice", true},
		{"@:example.org", true},
		{"@alice:", true},
	}

	for _, test := range tests {
		userID, err := ParseUserID(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseUserID(%q): expected error, got %q", test.input, userID)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseUserID(%q) failed: %v", test.input, err)
			continue
		}
		if userID.String() != test.input {
			t.Errorf("String: got %q, want %q", userID.String(), test.input)
		}
	}
}

func TestUserIDParts(t *testing.T) {
	userID := MustParseUserID("@alice:example.org")
	if userID.Localpart() != "alice" {
		t.Errorf("Localpart: got %q, want alice", userID.Localpart())
	}
	if userID.Server() != "example.org" {
		t.Errorf("Server: got %q, want example.org", userID.Server())
	}
}

func TestParseRoomID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"!abc:example.org", false},
		{"", true},
		{"abc:example.org", true},
		{"!abc", true},
		{"!:example.org", true},
		{"!abc:", true},
	}

	for _, test := range tests {
		roomID, err := ParseRoomID(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseRoomID(%q): expected error, got %q", test.input, roomID)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRoomID(%q) failed: %v", test.input, err)
		}
	}
}

func TestParseEventID(t *testing.T) {
	if _, err := ParseEventID("$abc123"); err != nil {
		t.Errorf("ParseEventID($abc123) failed: %v", err)
	}
	for _, invalid := range []string{"", "abc", "$"} {
		if _, err := ParseEventID(invalid); err == nil {
			t.Errorf("ParseEventID(%q): expected error", invalid)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Room   RoomID    `json:"room_id"`
		Alias  RoomAlias `json:"alias"`
		Sender UserID    `json:"sender"`
	}

	original := payload{
		Room:   MustParseRoomID("!room:example.org"),
		Alias:  MustParseRoomAlias("#general:example.org"),
		Sender: MustParseUserID("@alice:example.org"),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestJSONRejectsInvalid(t *testing.T) {
	var alias RoomAlias
	if err := json.Unmarshal([]byte(`"not-an-alias"`), &alias); err == nil {
		t.Error("expected invalid alias to fail unmarshal")
	}
}

func TestZeroValues(t *testing.T) {
	if !(RoomAlias{}).IsZero() || !(RoomID{}).IsZero() || !(UserID{}).IsZero() || !(EventID{}).IsZero() {
		t.Error("zero values should report IsZero")
	}
	if (MustParseRoomAlias("#a:b")).IsZero() {
		t.Error("parsed alias should not report IsZero")
	}
}
