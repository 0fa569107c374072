// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/wesanta/auth"
	"github.com/danielhkuo/wesanta/cliparse"
	"github.com/danielhkuo/wesanta/metrics"
	"github.com/danielhkuo/wesanta/middleware"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/store"
	"github.com/danielhkuo/wesanta/validate"
)

type JoinHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewJoinHandler(st *store.Store, cfg cliparse.Config) *JoinHandler {
	return &JoinHandler{st: st, cfg: cfg}
}

// Join handles POST /rooms/{id}/join
//
// Joining is an upsert keyed on the caller's identity token: a first
// join creates a participant (subject to the room cap), a repeat join
// updates name/email/wishlist in place. Both paths are rejected once
// the room is shuffled.
func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room id is required")
		return
	}

	identity, err := auth.Identity(w, r)
	if err != nil {
		slog.Error("failed to establish identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
		return
	}

	var req models.JoinRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	room, err := h.st.RoomByID(roomID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invalid invite link")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	// Wrong invite token gets the same response as a missing room.
	if !auth.TokensMatch(req.InviteToken, room.InviteToken) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invalid invite link")
		return
	}

	if room.Shuffled() {
		middleware.ErrorResponse(w, http.StatusConflict, "The draw has already happened. Registration is closed.")
		return
	}

	input, errs := validate.ParticipantForm(req.Name, req.Email, req.Wishlist, room.AllowWishlist, room.RequireEmail)
	if !errs.OK() {
		middleware.ValidationErrorResponse(w, errs)
		return
	}

	existing, err := h.st.ParticipantByToken(roomID, identity)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if existing != nil {
		// Rejoin: update in place, no new row.
		if err := h.st.UpdateParticipant(existing.ID, input.Name, input.Email, input.Wishlist); err != nil {
			if errors.Is(err, store.ErrRoomShuffled) {
				middleware.ErrorResponse(w, http.StatusConflict, "The draw has already happened. Registration is closed.")
				return
			}
			slog.Error("failed to update participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
			return
		}

		slog.Info("participant rejoined", "room_id", roomID, "participant_id", existing.ID)
		middleware.JSONResponse(w, http.StatusOK, models.JoinRoomResponse{
			ParticipantID: existing.ID,
			RoomID:        roomID,
			Rejoined:      true,
		})
		return
	}

	participant := &models.Participant{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		Name:          input.Name,
		Email:         input.Email,
		Wishlist:      input.Wishlist,
		IdentityToken: &identity,
		CreatedAt:     time.Now().UTC(),
	}

	switch err := h.st.TryAddParticipant(participant); {
	case err == nil:
		// fall through to success response
	case errors.Is(err, store.ErrRoomFull):
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("Participant limit reached (%d). Contact the organizer.", models.MaxParticipants))
		return
	case errors.Is(err, store.ErrRoomShuffled):
		middleware.ErrorResponse(w, http.StatusConflict, "The draw has already happened. Registration is closed.")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Invalid invite link")
		return
	default:
		// A racing join with the same identity can claim the
		// (room_id, identity_token) slot between our lookup and the
		// insert; the loser falls back to the rejoin path.
		racer, lookupErr := h.st.ParticipantByToken(roomID, identity)
		if lookupErr == nil {
			if updErr := h.st.UpdateParticipant(racer.ID, input.Name, input.Email, input.Wishlist); updErr == nil {
				slog.Info("participant rejoined", "room_id", roomID, "participant_id", racer.ID)
				middleware.JSONResponse(w, http.StatusOK, models.JoinRoomResponse{
					ParticipantID: racer.ID,
					RoomID:        roomID,
					Rejoined:      true,
				})
				return
			}
		}
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
		return
	}

	metrics.ParticipantsJoined.Inc()
	slog.Info("participant joined", "room_id", roomID, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinRoomResponse{
		ParticipantID: participant.ID,
		RoomID:        roomID,
		Rejoined:      false,
	})
}

// MyAssignment handles GET /rooms/{id}/assignment
// Shows the caller who they drew, once the room is shuffled.
func (h *JoinHandler) MyAssignment(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room id is required")
		return
	}

	identity, err := auth.Identity(w, r)
	if err != nil {
		slog.Error("failed to establish identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load assignment")
		return
	}

	room, err := h.st.RoomByID(roomID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	participant, err := h.st.ParticipantByToken(roomID, identity)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusForbidden, "You are not a participant of this room")
		return
	}
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !room.Shuffled() {
		middleware.ErrorResponse(w, http.StatusConflict, "The draw has not happened yet")
		return
	}

	target, err := h.st.TargetForSanta(participant.ID)
	if errors.Is(err, store.ErrNotFound) {
		// A shuffled room without an assignment for a member is a broken
		// invariant, not a user error.
		slog.Error("shuffled room has no assignment for participant",
			"room_id", roomID, "participant_id", participant.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load assignment")
		return
	}
	if err != nil {
		slog.Error("failed to query assignment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AssignmentView{
		TargetName:     target.Name,
		TargetWishlist: target.Wishlist,
	})
}
