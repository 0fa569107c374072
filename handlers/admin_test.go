// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/resend/resend-go/v2"

	"github.com/danielhkuo/wesanta/auth"
	"github.com/danielhkuo/wesanta/mailer"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/store"
	"github.com/danielhkuo/wesanta/testutil"
)

// fakeEmailClient records sends instead of talking to Resend. The mutex
// matters: the post-shuffle dispatch runs on a background goroutine.
type fakeEmailClient struct {
	mu      sync.Mutex
	sent    []*resend.SendEmailRequest
	batches [][]*resend.SendEmailRequest
	fail    bool
}

func (f *fakeEmailClient) Send(req *resend.SendEmailRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("fake send failure")
	}
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeEmailClient) SendBatch(reqs []*resend.SendEmailRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("fake batch failure")
	}
	f.batches = append(f.batches, reqs)
	return nil
}

func (f *fakeEmailClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeEmailClient) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func newTestAdminHandler(t *testing.T, st *store.Store) (*AdminHandler, *fakeEmailClient) {
	t.Helper()
	cfg := testutil.GetTestConfig()
	fake := &fakeEmailClient{}
	m := mailer.NewWithClient(st, fake, cfg.EmailFrom, cfg.BaseURL)
	return NewAdminHandler(st, cfg, m), fake
}

func adminRequest(t *testing.T, method, path string, body interface{}, identity string, pathValues map[string]string) *http.Request {
	t.Helper()
	req := testutil.MakeRequest(method, path, body, testutil.IdentityHeaders(identity))
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

func TestGetAdminRoom(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler, _ := newTestAdminHandler(t, st)

	room, adminToken := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})
	memberToken, _ := auth.GenerateIdentityToken()
	testutil.AddTestParticipant(t, st, room.ID, "Self Joined", memberToken)
	testutil.AddTestParticipant(t, st, room.ID, "Hand Added", "")

	t.Run("organizer sees roster and invite", func(t *testing.T) {
		req := adminRequest(t, "GET", "/rooms/"+room.ID+"/admin", nil, adminToken, map[string]string{"id": room.ID})
		w := httptest.NewRecorder()
		handler.GetAdminRoom(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var view models.AdminRoomView
		testutil.AssertJSON(t, w, &view)
		if view.InviteToken != room.InviteToken {
			t.Error("Expected the invite token in the admin view")
		}
		if len(view.Participants) != 2 {
			t.Fatalf("Expected 2 participants, got %d", len(view.Participants))
		}
		if !view.Participants[0].SelfJoined {
			t.Error("Expected first participant to be marked self-joined")
		}
		if view.Participants[1].SelfJoined {
			t.Error("Expected hand-added participant to not be marked self-joined")
		}
		for _, p := range view.Participants {
			if p.TargetName != nil {
				t.Error("Targets must not appear before the shuffle")
			}
		}
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		req := adminRequest(t, "GET", "/rooms/"+room.ID+"/admin", nil, memberToken, map[string]string{"id": room.ID})
		w := httptest.NewRecorder()
		handler.GetAdminRoom(w, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("unknown room gets 404", func(t *testing.T) {
		req := adminRequest(t, "GET", "/rooms/nope/admin", nil, adminToken, map[string]string{"id": "nope"})
		w := httptest.NewRecorder()
		handler.GetAdminRoom(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestAddParticipant(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler, _ := newTestAdminHandler(t, st)

	room, adminToken := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})

	t.Run("organizer adds by hand", func(t *testing.T) {
		req := adminRequest(t, "POST", "/rooms/"+room.ID+"/participants",
			models.AddParticipantRequest{Name: "Grandma", Email: "gran@example.com"},
			adminToken, map[string]string{"id": room.ID})
		w := httptest.NewRecorder()
		handler.AddParticipant(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AddParticipantResponse
		testutil.AssertJSON(t, w, &resp)

		p, err := st.ParticipantByID(resp.ParticipantID)
		if err != nil {
			t.Fatalf("Participant not persisted: %v", err)
		}
		if p.IdentityToken != nil {
			t.Error("Hand-added participants must not carry an identity token")
		}
	})

	t.Run("invalid email gets field error", func(t *testing.T) {
		req := adminRequest(t, "POST", "/rooms/"+room.ID+"/participants",
			models.AddParticipantRequest{Name: "Typo", Email: "not-an-email"},
			adminToken, map[string]string{"id": room.ID})
		w := httptest.NewRecorder()
		handler.AddParticipant(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		stranger, _ := auth.GenerateIdentityToken()
		req := adminRequest(t, "POST", "/rooms/"+room.ID+"/participants",
			models.AddParticipantRequest{Name: "Sneaky"},
			stranger, map[string]string{"id": room.ID})
		w := httptest.NewRecorder()
		handler.AddParticipant(w, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("shuffled room gets 409", func(t *testing.T) {
		shuffled, token := testutil.CreateTestRoom(t, st, testutil.RoomOptions{Shuffled: true})
		req := adminRequest(t, "POST", "/rooms/"+shuffled.ID+"/participants",
			models.AddParticipantRequest{Name: "Late"},
			token, map[string]string{"id": shuffled.ID})
		w := httptest.NewRecorder()
		handler.AddParticipant(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestShuffle(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler, _ := newTestAdminHandler(t, st)

	room, adminToken := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})

	shuffleReq := func(identity string) *httptest.ResponseRecorder {
		req := adminRequest(t, "POST", "/rooms/"+room.ID+"/shuffle", nil, identity, map[string]string{"id": room.ID})
		w := httptest.NewRecorder()
		handler.Shuffle(w, req)
		return w
	}

	t.Run("too few participants gets 409", func(t *testing.T) {
		testutil.AddTestParticipant(t, st, room.ID, "Only One", "")
		testutil.AssertStatus(t, shuffleReq(adminToken), http.StatusConflict)

		// The failed attempt must leave the room open.
		reloaded, err := st.RoomByID(room.ID)
		if err != nil {
			t.Fatalf("Failed to reload room: %v", err)
		}
		if reloaded.Shuffled() {
			t.Error("Room must stay open after a failed shuffle")
		}
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		stranger, _ := auth.GenerateIdentityToken()
		testutil.AssertStatus(t, shuffleReq(stranger), http.StatusForbidden)
	})

	t.Run("successful shuffle", func(t *testing.T) {
		testutil.AddTestParticipant(t, st, room.ID, "Second", "")
		testutil.AddTestParticipant(t, st, room.ID, "Third", "")

		w := shuffleReq(adminToken)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ShuffleResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.AssignmentsCount != 3 {
			t.Errorf("Expected 3 assignments, got %d", resp.AssignmentsCount)
		}

		assignments, err := st.AssignmentsForRoom(room.ID)
		if err != nil {
			t.Fatalf("Failed to load assignments: %v", err)
		}
		if len(assignments) != 3 {
			t.Errorf("Expected 3 persisted assignments, got %d", len(assignments))
		}
		for _, a := range assignments {
			if a.SantaID == a.TargetID {
				t.Error("A participant drew themself")
			}
		}
	})

	t.Run("second shuffle gets 409", func(t *testing.T) {
		testutil.AssertStatus(t, shuffleReq(adminToken), http.StatusConflict)
	})
}

func TestResendNotification(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler, fake := newTestAdminHandler(t, st)

	room, adminToken := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})
	withEmail := testutil.AddTestParticipant(t, st, room.ID, "Has Email", "")
	testutil.SetTestEmail(t, st, withEmail, "santa@example.com")
	noEmail := testutil.AddTestParticipant(t, st, room.ID, "No Email", "")
	testutil.AddTestParticipant(t, st, room.ID, "Third Wheel", "")

	resendReq := func(participantID string) *httptest.ResponseRecorder {
		path := "/rooms/" + room.ID + "/participants/" + participantID + "/resend"
		req := adminRequest(t, "POST", path, nil, adminToken,
			map[string]string{"id": room.ID, "participantID": participantID})
		w := httptest.NewRecorder()
		handler.ResendNotification(w, req)
		return w
	}

	t.Run("before shuffle gets 409", func(t *testing.T) {
		testutil.AssertStatus(t, resendReq(withEmail), http.StatusConflict)
	})

	if _, err := st.ShuffleRoom(room.ID, room.CreatedAt.Add(1)); err != nil {
		t.Fatalf("Failed to shuffle: %v", err)
	}

	t.Run("sends and counts up to the limit", func(t *testing.T) {
		for i := 1; i <= models.MaxNotifications; i++ {
			w := resendReq(withEmail)
			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.ResendResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.NotificationsSent != i {
				t.Errorf("Expected counter %d, got %d", i, resp.NotificationsSent)
			}
		}
		if fake.sentCount() != models.MaxNotifications {
			t.Errorf("Expected %d emails sent, got %d", models.MaxNotifications, fake.sentCount())
		}

		// One past the limit.
		testutil.AssertStatus(t, resendReq(withEmail), http.StatusConflict)
		if fake.sentCount() != models.MaxNotifications {
			t.Error("Over-limit resend must not send email")
		}
	})

	t.Run("participant without email gets 409", func(t *testing.T) {
		testutil.AssertStatus(t, resendReq(noEmail), http.StatusConflict)
	})

	t.Run("participant from another room gets 404", func(t *testing.T) {
		other, _ := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})
		foreign := testutil.AddTestParticipant(t, st, other.ID, "Foreigner", "")
		testutil.AssertStatus(t, resendReq(foreign), http.StatusNotFound)
	})

}

func TestResendFailureDoesNotCount(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler, fake := newTestAdminHandler(t, st)

	room, adminToken := testutil.CreateTestRoom(t, st, testutil.RoomOptions{})
	withEmail := testutil.AddTestParticipant(t, st, room.ID, "Has Email", "")
	testutil.SetTestEmail(t, st, withEmail, "santa@example.com")
	testutil.AddTestParticipant(t, st, room.ID, "Second", "")
	testutil.AddTestParticipant(t, st, room.ID, "Third", "")

	if _, err := st.ShuffleRoom(room.ID, room.CreatedAt.Add(1)); err != nil {
		t.Fatalf("Failed to shuffle: %v", err)
	}

	fake.setFail(true)

	path := "/rooms/" + room.ID + "/participants/" + withEmail + "/resend"
	req := adminRequest(t, "POST", path, nil, adminToken,
		map[string]string{"id": room.ID, "participantID": withEmail})
	w := httptest.NewRecorder()
	handler.ResendNotification(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	p, err := st.ParticipantByID(withEmail)
	if err != nil {
		t.Fatalf("Failed to load participant: %v", err)
	}
	if p.NotificationsSent != 0 {
		t.Errorf("Failed send must not increment the counter, got %d", p.NotificationsSent)
	}
}
