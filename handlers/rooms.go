// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/wesanta/auth"
	"github.com/danielhkuo/wesanta/cliparse"
	"github.com/danielhkuo/wesanta/metrics"
	"github.com/danielhkuo/wesanta/middleware"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/store"
	"github.com/danielhkuo/wesanta/validate"
)

type RoomHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewRoomHandler(st *store.Store, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{st: st, cfg: cfg}
}

// CreateRoom handles POST /rooms
// The caller's identity token becomes the room's admin secret.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Identity(w, r)
	if err != nil {
		slog.Error("failed to establish identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name, errs := validate.RoomName(req.Name)
	if !errs.OK() {
		middleware.ValidationErrorResponse(w, errs)
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	roomID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate room ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}
	inviteToken, err := auth.GenerateID(10)
	if err != nil {
		slog.Error("failed to generate invite token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	room := &models.Room{
		ID:            roomID,
		Name:          name,
		InviteToken:   inviteToken,
		AdminToken:    identity,
		AllowWishlist: req.AllowWishlist,
		RequireEmail:  req.RequireEmail,
		Locale:        locale,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.st.CreateRoom(room); err != nil {
		slog.Error("failed to insert room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	metrics.RoomsCreated.Inc()
	slog.Info("room created", "room_id", roomID, "name", name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		RoomID:      roomID,
		InviteToken: inviteToken,
		InviteURL:   h.inviteURL(roomID, inviteToken),
	})
}

// GetRoom handles GET /rooms/{id}
// Visible to the organizer, to joined participants, and to anyone
// presenting the invite token (?invite=...). Everyone else gets a 404:
// room existence is not revealed to strangers.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room id is required")
		return
	}

	identity, err := auth.Identity(w, r)
	if err != nil {
		slog.Error("failed to establish identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load room")
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

	isAdmin := auth.TokensMatch(identity, room.AdminToken)
	isParticipant := false
	if !isAdmin {
		if _, err := h.st.ParticipantByToken(roomID, identity); err == nil {
			isParticipant = true
		} else if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to query participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}
	hasInvite := auth.TokensMatch(r.URL.Query().Get("invite"), room.InviteToken)

	if !isAdmin && !isParticipant && !hasInvite {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	count, err := h.st.CountParticipants(roomID)
	if err != nil {
		slog.Error("failed to count participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomView{
		ID:                room.ID,
		Name:              room.Name,
		AllowWishlist:     room.AllowWishlist,
		RequireEmail:      room.RequireEmail,
		Locale:            room.Locale,
		ShuffledAt:        room.ShuffledAt,
		ParticipantsCount: count,
		IsAdmin:           isAdmin,
		IsParticipant:     isParticipant,
	})
}

// MyRooms handles GET /rooms/mine
// Lists rooms this identity organizes or joined, newest first.
func (h *RoomHandler) MyRooms(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Identity(w, r)
	if err != nil {
		slog.Error("failed to establish identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load rooms")
		return
	}

	rooms, err := h.st.RoomsForToken(identity)
	if err != nil {
		slog.Error("failed to query user rooms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyRoomsResponse{Rooms: rooms})
}

// RoomsCount handles GET /rooms/count
// Total rooms ever created, for the landing page counter.
func (h *RoomHandler) RoomsCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.st.CountRooms()
	if err != nil {
		slog.Error("failed to count rooms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomsCountResponse{Count: count})
}

func (h *RoomHandler) inviteURL(roomID, inviteToken string) string {
	return h.cfg.BaseURL + "/room/" + roomID + "/join?invite=" + inviteToken
}
