// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	data, err := ReadResponse(strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", data)
	}
}

func TestDecodeResponse(t *testing.T) {
	var decoded struct {
		OK bool `json:"ok"`
	}
	if err := DecodeResponse(strings.NewReader(`{"ok":true}`), &decoded); err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if !decoded.OK {
		t.Error("expected ok=true")
	}
}

func TestDecodeResponseInvalidJSON(t *testing.T) {
	var decoded map[string]any
	if err := DecodeResponse(strings.NewReader("not json"), &decoded); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
