// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/testutil"
)

func TestQuickShuffle(t *testing.T) {
	handler := NewQuickShuffleHandler()

	quickShuffle := func(names []string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/shuffle", models.QuickShuffleRequest{Names: names}, nil)
		w := httptest.NewRecorder()
		handler.QuickShuffle(w, req)
		return w
	}

	t.Run("valid draw", func(t *testing.T) {
		names := []string{"Alice", "Bob", "Carol", "Dave"}
		w := quickShuffle(names)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.QuickShuffleResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Assignments) != len(names) {
			t.Fatalf("Expected %d assignments, got %d", len(names), len(resp.Assignments))
		}

		receivers := map[string]bool{}
		for _, a := range resp.Assignments {
			if a.Giver == a.Receiver {
				t.Errorf("%q drew themself", a.Giver)
			}
			if receivers[a.Receiver] {
				t.Errorf("%q receives twice", a.Receiver)
			}
			receivers[a.Receiver] = true
		}
	})

	t.Run("duplicates and blanks collapse", func(t *testing.T) {
		w := quickShuffle([]string{"Alice", " alice ", "", "Bob", "BOB", "Carol"})
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.QuickShuffleResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Assignments) != 3 {
			t.Fatalf("Expected 3 assignments after dedupe, got %d", len(resp.Assignments))
		}
	})

	t.Run("too few names gets field error", func(t *testing.T) {
		w := quickShuffle([]string{"OnlyOne"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.FieldErrors["names"]) == 0 {
			t.Error("Expected a field error on names")
		}
	})

	t.Run("bad JSON gets 400", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/shuffle", nil)
		w := httptest.NewRecorder()
		handler.QuickShuffle(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
