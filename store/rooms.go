// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/danielhkuo/wesanta/models"
)

// CreateRoom inserts a new room in the open state.
func (s *Store) CreateRoom(room *models.Room) error {
	_, err := s.db.Exec(`
		INSERT INTO room (id, name, invite_token, admin_token, allow_wishlist, require_email, locale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, room.ID, room.Name, room.InviteToken, room.AdminToken, room.AllowWishlist, room.RequireEmail, room.Locale, room.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

// RoomByID looks up a room. Returns ErrNotFound for unknown ids.
func (s *Store) RoomByID(id string) (*models.Room, error) {
	var room models.Room
	var shuffledAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, name, invite_token, admin_token, allow_wishlist, require_email, locale, created_at, shuffled_at
		FROM room
		WHERE id = $1
	`, id).Scan(
		&room.ID, &room.Name, &room.InviteToken, &room.AdminToken,
		&room.AllowWishlist, &room.RequireEmail, &room.Locale,
		&room.CreatedAt, &shuffledAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room: %w", err)
	}
	room.ShuffledAt = nullTimePtr(shuffledAt)
	return &room, nil
}

// CountRooms returns the total number of rooms ever created.
func (s *Store) CountRooms() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM room`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

// CountParticipants returns the current participant count for a room.
func (s *Store) CountParticipants(roomID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM participant WHERE room_id = $1`, roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// RoomsForToken returns every room the identity organizes or joined,
// newest first. Rooms the identity both created and joined show up once,
// as admin.
func (s *Store) RoomsForToken(token string) ([]models.RoomSummary, error) {
	adminRooms, err := s.roomSummaries(`
		SELECT r.id, r.name, r.created_at, r.shuffled_at,
		       (SELECT COUNT(*) FROM participant p WHERE p.room_id = r.id)
		FROM room r
		WHERE r.admin_token = $1
	`, true, token)
	if err != nil {
		return nil, err
	}

	memberRooms, err := s.roomSummaries(`
		SELECT r.id, r.name, r.created_at, r.shuffled_at,
		       (SELECT COUNT(*) FROM participant p WHERE p.room_id = r.id)
		FROM room r
		WHERE r.id IN (SELECT room_id FROM participant WHERE identity_token = $1)
		  AND r.admin_token <> $2
	`, false, token, token)
	if err != nil {
		return nil, err
	}

	rooms := append(adminRooms, memberRooms...)
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *Store) roomSummaries(query string, isAdmin bool, args ...any) ([]models.RoomSummary, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	summaries := []models.RoomSummary{}
	for rows.Next() {
		var summary models.RoomSummary
		var shuffledAt sql.NullTime
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.CreatedAt, &shuffledAt, &summary.ParticipantsCount); err != nil {
			return nil, fmt.Errorf("failed to scan room summary: %w", err)
		}
		summary.ShuffledAt = nullTimePtr(shuffledAt)
		summary.IsAdmin = isAdmin
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// nullTimePtr converts a scanned nullable timestamp.
func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
