// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/wesanta/middleware"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/shuffle"
	"github.com/danielhkuo/wesanta/validate"
)

type QuickShuffleHandler struct{}

func NewQuickShuffleHandler() *QuickShuffleHandler {
	return &QuickShuffleHandler{}
}

// QuickShuffle handles POST /shuffle
// The standalone draw tool: names in, pairings out, nothing stored.
func (h *QuickShuffleHandler) QuickShuffle(w http.ResponseWriter, r *http.Request) {
	var req models.QuickShuffleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pairs, err := shuffle.QuickDraw(req.Names)
	if errors.Is(err, shuffle.ErrTooFewParticipants) {
		middleware.ValidationErrorResponse(w, validate.FieldErrors{
			"names": {"at least 2 distinct names are required"},
		})
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to shuffle")
		return
	}

	assignments := make([]models.QuickShufflePair, len(pairs))
	for i, p := range pairs {
		assignments[i] = models.QuickShufflePair{Giver: p.Santa, Receiver: p.Target}
	}
	middleware.JSONResponse(w, http.StatusOK, models.QuickShuffleResponse{Assignments: assignments})
}
