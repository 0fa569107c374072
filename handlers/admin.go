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
	"github.com/danielhkuo/wesanta/mailer"
	"github.com/danielhkuo/wesanta/metrics"
	"github.com/danielhkuo/wesanta/middleware"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/store"
	"github.com/danielhkuo/wesanta/validate"
)

type AdminHandler struct {
	st     *store.Store
	cfg    cliparse.Config
	mailer *mailer.Mailer
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config, m *mailer.Mailer) *AdminHandler {
	return &AdminHandler{st: st, cfg: cfg, mailer: m}
}

// requireAdmin loads the room and checks the caller's identity against
// the admin token. Unknown rooms are 404; known rooms with the wrong
// identity are 403.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) *models.Room {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room id is required")
		return nil
	}

	identity, err := auth.Identity(w, r)
	if err != nil {
		slog.Error("failed to establish identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to authorize request")
		return nil
	}

	room, err := h.st.RoomByID(roomID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return nil
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil
	}

	if !auth.TokensMatch(identity, room.AdminToken) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the organizer can perform this action")
		return nil
	}
	return room
}

// GetAdminRoom handles GET /rooms/{id}/admin
// The organizer's view: invite link, full participant roster, and each
// participant's target once the draw has run.
func (h *AdminHandler) GetAdminRoom(w http.ResponseWriter, r *http.Request) {
	room := h.requireAdmin(w, r)
	if room == nil {
		return
	}

	participants, err := h.st.ParticipantsForRoom(room.ID)
	if err != nil {
		slog.Error("failed to query participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var targets map[string]string
	if room.Shuffled() {
		targets, err = h.st.TargetNamesBySanta(room.ID)
		if err != nil {
			slog.Error("failed to query assignment targets", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	roster := make([]models.AdminParticipant, len(participants))
	for i, p := range participants {
		ap := models.AdminParticipant{
			ID:                p.ID,
			Name:              p.Name,
			Email:             p.Email,
			Wishlist:          p.Wishlist,
			NotificationsSent: p.NotificationsSent,
			SelfJoined:        p.IdentityToken != nil,
		}
		if name, ok := targets[p.ID]; ok {
			ap.TargetName = &name
		}
		roster[i] = ap
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminRoomView{
		RoomView: models.RoomView{
			ID:                room.ID,
			Name:              room.Name,
			AllowWishlist:     room.AllowWishlist,
			RequireEmail:      room.RequireEmail,
			Locale:            room.Locale,
			ShuffledAt:        room.ShuffledAt,
			ParticipantsCount: len(participants),
			IsAdmin:           true,
		},
		InviteToken:  room.InviteToken,
		InviteURL:    h.cfg.BaseURL + "/room/" + room.ID + "/join?invite=" + room.InviteToken,
		Participants: roster,
	})
}

// AddParticipant handles POST /rooms/{id}/participants
// The organizer adds someone by hand. Manually added participants have
// no identity token; they cannot log in, but they can receive email.
func (h *AdminHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	room := h.requireAdmin(w, r)
	if room == nil {
		return
	}

	if room.Shuffled() {
		middleware.ErrorResponse(w, http.StatusConflict, "The draw has already happened. Registration is closed.")
		return
	}

	var req models.AddParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	input, errs := validate.ParticipantForm(req.Name, req.Email, req.Wishlist, room.AllowWishlist, room.RequireEmail)
	if !errs.OK() {
		middleware.ValidationErrorResponse(w, errs)
		return
	}

	participant := &models.Participant{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		Name:      input.Name,
		Email:     input.Email,
		Wishlist:  input.Wishlist,
		CreatedAt: time.Now().UTC(),
	}

	switch err := h.st.TryAddParticipant(participant); {
	case err == nil:
	case errors.Is(err, store.ErrRoomFull):
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("Participant limit reached (%d).", models.MaxParticipants))
		return
	case errors.Is(err, store.ErrRoomShuffled):
		middleware.ErrorResponse(w, http.StatusConflict, "The draw has already happened. Registration is closed.")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	default:
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add participant")
		return
	}

	metrics.ParticipantsJoined.Inc()
	slog.Info("participant added by organizer", "room_id", room.ID, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddParticipantResponse{
		ParticipantID: participant.ID,
	})
}

// Shuffle handles POST /rooms/{id}/shuffle
//
// Runs the one-shot draw. The claim-and-assign happens in a single
// store transaction, so concurrent shuffle requests resolve to exactly
// one winner. Email dispatch runs in the background; its outcome does
// not affect the response.
func (h *AdminHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	room := h.requireAdmin(w, r)
	if room == nil {
		return
	}

	now := time.Now().UTC()
	assignments, err := h.st.ShuffleRoom(room.ID, now)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrAlreadyShuffled):
		middleware.ErrorResponse(w, http.StatusConflict, "The draw has already happened")
		return
	case errors.Is(err, store.ErrNotEnoughParticipants):
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("At least %d participants are required to shuffle", models.MinShuffleParticipants))
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	default:
		slog.Error("failed to shuffle room", "room_id", room.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to shuffle room")
		return
	}

	metrics.ShufflesCompleted.Inc()
	slog.Info("room shuffled", "room_id", room.ID, "assignments", len(assignments))

	go h.mailer.DispatchAssignments(room.ID)

	middleware.JSONResponse(w, http.StatusOK, models.ShuffleResponse{
		ShuffledAt:       now,
		AssignmentsCount: len(assignments),
	})
}

// ResendNotification handles POST /rooms/{id}/participants/{participantID}/resend
// Re-sends one participant's assignment email, up to the per-participant
// limit.
func (h *AdminHandler) ResendNotification(w http.ResponseWriter, r *http.Request) {
	room := h.requireAdmin(w, r)
	if room == nil {
		return
	}

	participantID := r.PathValue("participantID")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id is required")
		return
	}

	participant, err := h.st.ParticipantByID(participantID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && participant.RoomID != room.ID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
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
	if participant.Email == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Participant has no email address")
		return
	}
	if participant.NotificationsSent >= models.MaxNotifications {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("Notification limit reached (%d per participant)", models.MaxNotifications))
		return
	}

	target, err := h.st.TargetForSanta(participant.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusConflict, "Participant has no assignment")
		return
	}
	if err != nil {
		slog.Error("failed to query assignment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.mailer.Resend(room, participant, target); err != nil {
		// The mailer reserves the counter slot itself; a concurrent
		// resend may have taken the last one after our check above.
		if errors.Is(err, store.ErrNotificationLimit) {
			middleware.ErrorResponse(w, http.StatusConflict,
				fmt.Sprintf("Notification limit reached (%d per participant)", models.MaxNotifications))
			return
		}
		slog.Error("failed to resend notification", "room_id", room.ID, "participant_id", participant.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to send notification")
		return
	}

	slog.Info("notification resent", "room_id", room.ID, "participant_id", participant.ID)

	sent := participant.NotificationsSent + 1
	if updated, err := h.st.ParticipantByID(participant.ID); err == nil {
		sent = updated.NotificationsSent
	}
	middleware.JSONResponse(w, http.StatusOK, models.ResendResponse{
		NotificationsSent: sent,
	})
}
