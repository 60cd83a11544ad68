// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/altalias-project/altalias/lib/ref"
)

// testSession creates a DirectSession against an httptest homeserver.
func testSession(t *testing.T, handler http.Handler) *DirectSession {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{HomeserverURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	session, err := client.SessionFromToken(ref.MustParseUserID("@altalias:test.local"), "syt_test_token")
	if err != nil {
		t.Fatalf("SessionFromToken failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestResolveAlias(t *testing.T) {
	t.Run("existing alias", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wantPath := "/_matrix/client/v3/directory/room/" + "%23room:test.local"
			if request.URL.EscapedPath() != wantPath {
				t.Errorf("path = %s, want %s", request.URL.EscapedPath(), wantPath)
			}
			if got := request.Header.Get("Authorization"); got != "Bearer syt_test_token" {
				t.Errorf("Authorization = %q", got)
			}
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(ResolveAliasResponse{
				RoomID:  ref.MustParseRoomID("!abc:test.local"),
				Servers: []string{"test.local"},
			})
		}))

		roomID, err := session.ResolveAlias(context.Background(), ref.MustParseRoomAlias("#room:test.local"))
		if err != nil {
			t.Fatalf("ResolveAlias failed: %v", err)
		}
		if roomID.String() != "!abc:test.local" {
			t.Errorf("roomID = %s", roomID)
		}
	})

	t.Run("unknown alias", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusNotFound)
			json.NewEncoder(writer).Encode(MatrixError{
				Code:    ErrCodeNotFound,
				Message: "Room alias not found.",
			})
		}))

		_, err := session.ResolveAlias(context.Background(), ref.MustParseRoomAlias("#missing:test.local"))
		if !IsMatrixError(err, ErrCodeNotFound) {
			t.Errorf("expected M_NOT_FOUND, got %v", err)
		}
	})
}

func TestGetStateEvent(t *testing.T) {
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.URL.EscapedPath(), "/state/m.room.canonical_alias/") {
			t.Errorf("unexpected path: %s", request.URL.EscapedPath())
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"alias": "#room:test.local", "alt_aliases": ["#other:test.local"]}`))
	}))

	raw, err := session.GetStateEvent(context.Background(),
		ref.MustParseRoomID("!abc:test.local"), "m.room.canonical_alias", "")
	if err != nil {
		t.Fatalf("GetStateEvent failed: %v", err)
	}

	var content struct {
		Alias      string   `json:"alias"`
		AltAliases []string `json:"alt_aliases"`
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if content.Alias != "#room:test.local" || len(content.AltAliases) != 1 {
		t.Errorf("content = %+v", content)
	}
}

func TestSendStateEvent(t *testing.T) {
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", request.Method)
		}
		var content struct {
			Alias      string   `json:"alias"`
			AltAliases []string `json:"alt_aliases"`
		}
		if err := json.NewDecoder(request.Body).Decode(&content); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(content.AltAliases) != 1 || content.AltAliases[0] != "#new:test.local" {
			t.Errorf("alt_aliases = %v", content.AltAliases)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(SendEventResponse{
			EventID: ref.MustParseEventID("$state1"),
		})
	}))

	eventID, err := session.SendStateEvent(context.Background(),
		ref.MustParseRoomID("!abc:test.local"), "m.room.canonical_alias", "",
		map[string]any{"alias": "#room:test.local", "alt_aliases": []string{"#new:test.local"}})
	if err != nil {
		t.Fatalf("SendStateEvent failed: %v", err)
	}
	if eventID.String() != "$state1" {
		t.Errorf("eventID = %s", eventID)
	}
}

func TestSendMessageUsesUniqueTransactionIDs(t *testing.T) {
	var transactionIDs []string
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		parts := strings.Split(request.URL.EscapedPath(), "/")
		transactionIDs = append(transactionIDs, parts[len(parts)-1])
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(SendEventResponse{
			EventID: ref.MustParseEventID("$msg1"),
		})
	}))

	roomID := ref.MustParseRoomID("!abc:test.local")
	for i := 0; i < 3; i++ {
		if _, err := session.SendMessage(context.Background(), roomID, NewNotice("hello")); err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	for _, id := range transactionIDs {
		if seen[id] {
			t.Errorf("transaction ID %q reused", id)
		}
		seen[id] = true
		if !strings.HasPrefix(id, "altalias-") {
			t.Errorf("transaction ID %q missing prefix", id)
		}
	}
}

func TestSync(t *testing.T) {
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		if query.Get("since") != "batch-1" {
			t.Errorf("since = %q", query.Get("since"))
		}
		if query.Get("timeout") != "30000" {
			t.Errorf("timeout = %q", query.Get("timeout"))
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{
			"next_batch": "batch-2",
			"rooms": {
				"join": {
					"!abc:test.local": {
						"timeline": {
							"events": [{
								"event_id": "$evt1",
								"type": "m.room.message",
								"sender": "@user:test.local",
								"content": {"msgtype": "m.text", "body": "!altalias allowed"}
							}]
						}
					}
				}
			}
		}`))
	}))

	response, err := session.Sync(context.Background(), SyncOptions{
		Since:      "batch-1",
		Timeout:    30000,
		SetTimeout: true,
	})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if response.NextBatch != "batch-2" {
		t.Errorf("NextBatch = %q", response.NextBatch)
	}
	joined, ok := response.Rooms.Join[ref.MustParseRoomID("!abc:test.local")]
	if !ok {
		t.Fatal("joined room missing from response")
	}
	if len(joined.Timeline.Events) != 1 {
		t.Fatalf("timeline events = %d", len(joined.Timeline.Events))
	}
	event := joined.Timeline.Events[0]
	if event.Sender.String() != "@user:test.local" {
		t.Errorf("sender = %s", event.Sender)
	}
	if event.Content["body"] != "!altalias allowed" {
		t.Errorf("body = %v", event.Content["body"])
	}
}

func TestGetStateTyped(t *testing.T) {
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"users": {"@admin:test.local": 100}, "state_default": 50}`))
	}))

	type powerLevels struct {
		Users        map[string]int `json:"users"`
		StateDefault *int           `json:"state_default"`
	}
	levels, err := GetState[powerLevels](context.Background(), session,
		ref.MustParseRoomID("!abc:test.local"), "m.room.power_levels", "")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if levels.Users["@admin:test.local"] != 100 {
		t.Errorf("levels = %+v", levels)
	}
}

func TestBuildSyncFilter(t *testing.T) {
	filter := BuildSyncFilter()

	var parsed map[string]any
	if err := json.Unmarshal([]byte(filter), &parsed); err != nil {
		t.Fatalf("filter is not valid JSON: %v", err)
	}
	room, ok := parsed["room"].(map[string]any)
	if !ok {
		t.Fatal("filter missing room section")
	}
	timeline, ok := room["timeline"].(map[string]any)
	if !ok {
		t.Fatal("filter missing timeline section")
	}
	types, ok := timeline["types"].([]any)
	if !ok || len(types) != 1 || types[0] != "m.room.message" {
		t.Errorf("timeline types = %v", timeline["types"])
	}
}
