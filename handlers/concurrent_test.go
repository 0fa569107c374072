// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/wesanta/auth"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/testutil"
)

// TestConcurrentJoinsRespectCap verifies that simultaneous joins racing
// for the last free slots never push a room past the participant limit.
func TestConcurrentJoinsRespectCap(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewJoinHandler(st, cfg)

	room, _ := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})

	// Fill the room to 5 below the cap, then race 15 joiners for the
	// 5 remaining slots.
	prefill := models.MaxParticipants - 5
	for i := 0; i < prefill; i++ {
		testutil.AddTestParticipant(t, st, room.ID, "Filler", "")
	}

	numJoiners := 15
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numJoiners; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			identity, _ := auth.GenerateIdentityToken()
			body := models.JoinRoomRequest{
				InviteToken: room.InviteToken,
				Name:        fmt.Sprintf("Racer %d", idx),
			}
			req := testutil.MakeRequest("POST", "/rooms/"+room.ID+"/join", body, testutil.IdentityHeaders(identity))
			req.SetPathValue("id", room.ID)
			w := httptest.NewRecorder()

			handler.Join(w, req)

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != 5 {
		t.Errorf("Expected exactly 5 successful joins, got %d", successCount.Load())
	}
	if int(conflictCount.Load()) != numJoiners-5 {
		t.Errorf("Expected %d capacity conflicts, got %d", numJoiners-5, conflictCount.Load())
	}

	count, err := st.CountParticipants(room.ID)
	if err != nil {
		t.Fatalf("Failed to count participants: %v", err)
	}
	if count != models.MaxParticipants {
		t.Errorf("Expected exactly %d participants, got %d", models.MaxParticipants, count)
	}
}

// TestConcurrentShufflesSingleWinner verifies that simultaneous shuffle
// requests produce exactly one winner and one assignment set.
func TestConcurrentShufflesSingleWinner(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler, _ := newTestAdminHandler(t, st)

	room, adminToken := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})
	for i := 0; i < 5; i++ {
		testutil.AddTestParticipant(t, st, room.ID, fmt.Sprintf("Member %d", i), "")
	}

	numShufflers := 10
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numShufflers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/rooms/"+room.ID+"/shuffle", nil, testutil.IdentityHeaders(adminToken))
			req.SetPathValue("id", room.ID)
			w := httptest.NewRecorder()

			handler.Shuffle(w, req)

			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful shuffle, got %d", successCount.Load())
	}
	if int(conflictCount.Load()) != numShufflers-1 {
		t.Errorf("Expected %d conflicts, got %d", numShufflers-1, conflictCount.Load())
	}

	assignments, err := st.AssignmentsForRoom(room.ID)
	if err != nil {
		t.Fatalf("Failed to load assignments: %v", err)
	}
	if len(assignments) != 5 {
		t.Errorf("Expected 5 assignments, got %d", len(assignments))
	}
}

// TestConcurrentRejoinsSingleRow verifies that one identity racing itself
// still ends up with a single participant row.
func TestConcurrentRejoinsSingleRow(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewJoinHandler(st, cfg)

	room, _ := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})
	identity, _ := auth.GenerateIdentityToken()

	numAttempts := 10
	var okCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := models.JoinRoomRequest{
				InviteToken: room.InviteToken,
				Name:        fmt.Sprintf("Same Person %d", idx),
			}
			req := testutil.MakeRequest("POST", "/rooms/"+room.ID+"/join", body, testutil.IdentityHeaders(identity))
			req.SetPathValue("id", room.ID)
			w := httptest.NewRecorder()

			handler.Join(w, req)

			if w.Code == http.StatusCreated || w.Code == http.StatusOK {
				okCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	count, err := st.CountParticipants(room.ID)
	if err != nil {
		t.Fatalf("Failed to count participants: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 participant row for a racing identity, got %d", count)
	}
	// Losers of the unique (room_id, identity_token) race must be
	// folded into the rejoin path, not surfaced as server errors.
	if int(okCount.Load()) != numAttempts {
		t.Errorf("Expected all %d joins to succeed, got %d", numAttempts, okCount.Load())
	}
}
