// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/wesanta/auth"
	"github.com/danielhkuo/wesanta/cliparse"
	"github.com/danielhkuo/wesanta/db"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/store"
)

// SetupTestStore creates a fresh in-memory SQLite store with the full
// schema. Every test gets its own database; no cleanup between tests is
// needed beyond closing the handle.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	conn, err := store.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store.New(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3319,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		BaseURL:      "https://wesanta.test",
		EmailFrom:    "WeSanta <noreply@wesanta.test>",
	}
}

// RoomOptions tweaks the room created by CreateTestRoom.
type RoomOptions struct {
	AllowWishlist bool
	RequireEmail  bool
	Shuffled      bool
}

// CreateTestRoom inserts a room and returns it together with the
// organizer's identity token (the room's admin secret).
func CreateTestRoom(t *testing.T, st *store.Store, opts RoomOptions) (*models.Room, string) {
	t.Helper()

	adminToken, err := auth.GenerateIdentityToken()
	if err != nil {
		t.Fatalf("Failed to generate admin token: %v", err)
	}
	roomID, _ := auth.GenerateID(16)
	inviteToken, _ := auth.GenerateID(10)

	room := &models.Room{
		ID:            roomID,
		Name:          "Test Room",
		InviteToken:   inviteToken,
		AdminToken:    adminToken,
		AllowWishlist: opts.AllowWishlist,
		RequireEmail:  opts.RequireEmail,
		Locale:        "en",
		CreatedAt:     time.Now().UTC(),
	}
	if err := st.CreateRoom(room); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	if opts.Shuffled {
		now := time.Now().UTC()
		// Three members so the shuffle is legal.
		for i := 0; i < 3; i++ {
			AddTestParticipant(t, st, roomID, "Member", "")
		}
		if _, err := st.ShuffleRoom(roomID, now); err != nil {
			t.Fatalf("Failed to shuffle test room: %v", err)
		}
		room.ShuffledAt = &now
	}

	return room, adminToken
}

// AddTestParticipant joins a participant to a room. A non-empty identity
// token marks a self-joined participant; empty means organizer-added.
// Returns the participant ID.
func AddTestParticipant(t *testing.T, st *store.Store, roomID, name, identityToken string) string {
	t.Helper()

	p := &models.Participant{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if identityToken != "" {
		p.IdentityToken = &identityToken
	}
	if err := st.TryAddParticipant(p); err != nil {
		t.Fatalf("Failed to add test participant: %v", err)
	}

	return p.ID
}

// SetTestEmail gives an existing participant an email address.
func SetTestEmail(t *testing.T, st *store.Store, participantID, email string) {
	t.Helper()

	p, err := st.ParticipantByID(participantID)
	if err != nil {
		t.Fatalf("Failed to load participant: %v", err)
	}
	if err := st.UpdateParticipant(p.ID, p.Name, &email, p.Wishlist); err != nil {
		t.Fatalf("Failed to set participant email: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// IdentityHeaders returns the header map that authenticates as the given
// identity token.
func IdentityHeaders(token string) map[string]string {
	return map[string]string{auth.IdentityHeader: token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
