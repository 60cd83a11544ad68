// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/altalias-project/altalias/lib/clock"
	"github.com/altalias-project/altalias/lib/ref"
	"github.com/altalias-project/altalias/lib/testutil"
	"github.com/altalias-project/altalias/messaging"
)

// stubSession implements messaging.Session with per-method function
// fields. Methods without a configured function fail loudly.
type stubSession struct {
	syncFunc func(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error)
	joinFunc func(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error)
}

func (s *stubSession) UserID() ref.UserID { return ref.MustParseUserID("@altalias:test.local") }

func (s *stubSession) Close() error { return nil }

func (s *stubSession) CloseIdleConnections() {}

func (s *stubSession) WhoAmI(ctx context.Context) (ref.UserID, error) {
	return s.UserID(), nil
}

func (s *stubSession) ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error) {
	panic("stubSession: ResolveAlias not configured")
}

func (s *stubSession) GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string) (json.RawMessage, error) {
	panic("stubSession: GetStateEvent not configured")
}

func (s *stubSession) SendStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) (ref.EventID, error) {
	panic("stubSession: SendStateEvent not configured")
}

func (s *stubSession) SendEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, content any) (ref.EventID, error) {
	panic("stubSession: SendEvent not configured")
}

func (s *stubSession) SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error) {
	panic("stubSession: SendMessage not configured")
}

func (s *stubSession) JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error) {
	if s.joinFunc == nil {
		panic("stubSession: JoinRoom not configured")
	}
	return s.joinFunc(ctx, roomID)
}

func (s *stubSession) JoinedRooms(ctx context.Context) ([]ref.RoomID, error) {
	return nil, nil
}

func (s *stubSession) Sync(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error) {
	if s.syncFunc == nil {
		panic("stubSession: Sync not configured")
	}
	return s.syncFunc(ctx, options)
}

func TestInitialSync(t *testing.T) {
	session := &stubSession{
		syncFunc: func(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error) {
			if options.Since != "" {
				t.Errorf("initial sync sent since token %q", options.Since)
			}
			if options.SetTimeout {
				t.Error("initial sync should not long-poll")
			}
			return &messaging.SyncResponse{NextBatch: "batch-1"}, nil
		},
	}

	since, response, err := InitialSync(context.Background(), session, "")
	if err != nil {
		t.Fatalf("InitialSync: %v", err)
	}
	if since != "batch-1" {
		t.Errorf("since = %q, want batch-1", since)
	}
	if response == nil {
		t.Fatal("response = nil")
	}
}

func TestRunSyncLoopAdvancesSinceToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sinceTokens := make(chan string, 3)
	batch := 0
	session := &stubSession{
		syncFunc: func(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error) {
			sinceTokens <- options.Since
			batch++
			if batch == 3 {
				cancel()
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &messaging.SyncResponse{NextBatch: fmt.Sprintf("batch-%d", batch)}, nil
		},
	}

	handled := make(chan *messaging.SyncResponse, 3)
	handler := func(ctx context.Context, response *messaging.SyncResponse) {
		handled <- response
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunSyncLoop(ctx, session, SyncConfig{}, "batch-0", handler, clock.Real(), discardLogger())
	}()
	testutil.RequireClosed(t, done, 5*time.Second, "sync loop shutdown")

	want := []string{"batch-0", "batch-1", "batch-2"}
	for _, token := range want {
		got := testutil.RequireReceive(t, sinceTokens, time.Second, "since token")
		if got != token {
			t.Errorf("since = %q, want %q", got, token)
		}
	}
	if len(handled) != 2 {
		t.Errorf("handler called %d times, want 2", len(handled))
	}
}

func TestRunSyncLoopBacksOffOnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.Fake(time.Unix(1700000000, 0))
	attempts := make(chan int, 4)
	attempt := 0
	session := &stubSession{
		syncFunc: func(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error) {
			attempt++
			attempts <- attempt
			if attempt < 3 {
				return nil, fmt.Errorf("connection refused")
			}
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunSyncLoop(ctx, session, SyncConfig{}, "", func(context.Context, *messaging.SyncResponse) {}, clk, discardLogger())
	}()

	// First attempt fails; the loop waits 1s on the fake clock.
	testutil.RequireReceive(t, attempts, 5*time.Second, "first attempt")
	clk.WaitForTimers(1)
	clk.Advance(time.Second)

	// Second attempt fails too; backoff doubles to 2s.
	testutil.RequireReceive(t, attempts, 5*time.Second, "second attempt")
	clk.WaitForTimers(1)
	clk.Advance(2 * time.Second)

	testutil.RequireReceive(t, attempts, 5*time.Second, "third attempt")
	testutil.RequireClosed(t, done, 5*time.Second, "sync loop shutdown")
}

func TestAcceptInvites(t *testing.T) {
	joined := make(map[ref.RoomID]bool)
	session := &stubSession{
		joinFunc: func(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error) {
			if roomID.String() == "!broken:test.local" {
				return ref.RoomID{}, fmt.Errorf("forbidden")
			}
			joined[roomID] = true
			return roomID, nil
		},
	}

	invites := map[ref.RoomID]messaging.InvitedRoom{
		ref.MustParseRoomID("!a:test.local"):      {},
		ref.MustParseRoomID("!broken:test.local"): {},
		ref.MustParseRoomID("!b:test.local"):      {},
	}
	accepted := AcceptInvites(context.Background(), session, invites, discardLogger())

	if len(accepted) != 2 {
		t.Errorf("accepted %d rooms, want 2", len(accepted))
	}
	if !joined[ref.MustParseRoomID("!a:test.local")] || !joined[ref.MustParseRoomID("!b:test.local")] {
		t.Errorf("joined = %v", joined)
	}
}
