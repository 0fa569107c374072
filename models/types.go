// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Room limits
const (
	MaxParticipants        = 100
	MinShuffleParticipants = 3
	MaxNotifications       = 3
)

// Request types

type CreateRoomRequest struct {
	Name          string `json:"name"`
	AllowWishlist bool   `json:"allow_wishlist"`
	RequireEmail  bool   `json:"require_email"`
	Locale        string `json:"locale"`
}

type JoinRoomRequest struct {
	InviteToken string `json:"invite_token"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Wishlist    string `json:"wishlist"`
}

type AddParticipantRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Wishlist string `json:"wishlist"`
}

type QuickShuffleRequest struct {
	Names []string `json:"names"`
}

// Response types

type CreateRoomResponse struct {
	RoomID      string `json:"room_id"`
	InviteToken string `json:"invite_token"`
	InviteURL   string `json:"invite_url"`
}

type JoinRoomResponse struct {
	ParticipantID string `json:"participant_id"`
	RoomID        string `json:"room_id"`
	Rejoined      bool   `json:"rejoined"`
}

type AddParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
}

type ShuffleResponse struct {
	ShuffledAt       time.Time `json:"shuffled_at"`
	AssignmentsCount int       `json:"assignments_count"`
}

type ResendResponse struct {
	NotificationsSent int `json:"notifications_sent"`
}

type AssignmentView struct {
	TargetName     string  `json:"target_name"`
	TargetWishlist *string `json:"target_wishlist,omitempty"`
}

type QuickShufflePair struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

type QuickShuffleResponse struct {
	Assignments []QuickShufflePair `json:"assignments"`
}

type MyRoomsResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

type RoomsCountResponse struct {
	Count int `json:"count"`
}

type ErrorResponse struct {
	Error       string              `json:"error"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// Domain types

type Room struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	InviteToken   string     `json:"-"` // Only exposed to the admin
	AdminToken    string     `json:"-"` // Never expose in JSON
	AllowWishlist bool       `json:"allow_wishlist"`
	RequireEmail  bool       `json:"require_email"`
	Locale        string     `json:"locale"`
	CreatedAt     time.Time  `json:"created_at"`
	ShuffledAt    *time.Time `json:"shuffled_at,omitempty"`
}

// Shuffled reports whether the room has left the open state. The
// transition is one-way: shuffled_at is set exactly once and never
// cleared.
func (r *Room) Shuffled() bool {
	return r.ShuffledAt != nil
}

type Participant struct {
	ID                string    `json:"id"`
	RoomID            string    `json:"room_id"`
	Name              string    `json:"name"`
	Email             *string   `json:"email,omitempty"`
	Wishlist          *string   `json:"wishlist,omitempty"`
	IdentityToken     *string   `json:"-"` // Never expose in JSON
	NotificationsSent int       `json:"notifications_sent"`
	CreatedAt         time.Time `json:"created_at"`
}

type Assignment struct {
	ID       string `json:"id"`
	RoomID   string `json:"room_id"`
	SantaID  string `json:"santa_id"`
	TargetID string `json:"target_id"`
}

// RoomSummary is one entry in a user's room list: rooms they organize
// plus rooms they joined as a participant.
type RoomSummary struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	CreatedAt         time.Time  `json:"created_at"`
	ShuffledAt        *time.Time `json:"shuffled_at,omitempty"`
	IsAdmin           bool       `json:"is_admin"`
	ParticipantsCount int        `json:"participants_count"`
}

// RoomView is the public shape of a room shown to invitees and members.
type RoomView struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	AllowWishlist     bool       `json:"allow_wishlist"`
	RequireEmail      bool       `json:"require_email"`
	Locale            string     `json:"locale"`
	ShuffledAt        *time.Time `json:"shuffled_at,omitempty"`
	ParticipantsCount int        `json:"participants_count"`
	IsAdmin           bool       `json:"is_admin"`
	IsParticipant     bool       `json:"is_participant"`
}

// AdminRoomView adds the fields only the organizer may see.
type AdminRoomView struct {
	RoomView
	InviteToken  string             `json:"invite_token"`
	InviteURL    string             `json:"invite_url"`
	Participants []AdminParticipant `json:"participants"`
}

// AdminParticipant is a participant row in the admin view. Target fields
// are populated only after the shuffle.
type AdminParticipant struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             *string `json:"email,omitempty"`
	Wishlist          *string `json:"wishlist,omitempty"`
	NotificationsSent int     `json:"notifications_sent"`
	SelfJoined        bool    `json:"self_joined"`
	TargetName        *string `json:"target_name,omitempty"`
}
