// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/wesanta/models"
)

// TryAddParticipant inserts a participant only if the room is still open
// and below the participant cap.
//
// The transaction opens with a no-op update of the room row, conditional
// on the room being open. That write locks the row, and every join and
// the shuffle claim all write the same row, so they serialize against
// each other on both backends: by the time the count runs, every earlier
// join is committed and visible, and under N concurrent joins with K
// free slots exactly K inserts land. A plain snapshot-based count check
// would not give that under Postgres read committed - two joins at one
// below the cap could both pass it.
func (s *Store) TryAddParticipant(p *models.Participant) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin join transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE room SET name = name
		WHERE id = $1 AND shuffled_at IS NULL
	`, p.RoomID)
	if err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read lock result: %w", err)
	}
	if rows == 0 {
		var shuffledAt sql.NullTime
		err := tx.QueryRow(`SELECT shuffled_at FROM room WHERE id = $1`, p.RoomID).Scan(&shuffledAt)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query room state: %w", err)
		}
		return ErrRoomShuffled
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM participant WHERE room_id = $1`, p.RoomID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= models.MaxParticipants {
		return ErrRoomFull
	}

	_, err = tx.Exec(`
		INSERT INTO participant (id, room_id, name, email, wishlist, identity_token, notifications_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, p.ID, p.RoomID, p.Name, nullStr(p.Email), nullStr(p.Wishlist), nullStr(p.IdentityToken), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit join: %w", err)
	}
	return nil
}

// UpdateParticipant rewrites the mutable fields of an existing
// participant (the rejoin path). The update is conditional on the room
// still being open: participants are frozen once the shuffle runs.
func (s *Store) UpdateParticipant(id, name string, email, wishlist *string) error {
	res, err := s.db.Exec(`
		UPDATE participant
		SET name = $1, email = $2, wishlist = $3
		WHERE id = $4
		  AND EXISTS (SELECT 1 FROM room WHERE room.id = participant.room_id AND room.shuffled_at IS NULL)
	`, name, nullStr(email), nullStr(wishlist), id)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrRoomShuffled
	}
	return nil
}

// ParticipantByToken finds the room member self-joined with this
// identity token. Returns ErrNotFound if the identity never joined.
func (s *Store) ParticipantByToken(roomID, token string) (*models.Participant, error) {
	return s.scanParticipant(s.db.QueryRow(`
		SELECT id, room_id, name, email, wishlist, identity_token, notifications_sent, created_at
		FROM participant
		WHERE room_id = $1 AND identity_token = $2
	`, roomID, token))
}

// ParticipantByID looks up a participant by primary key.
func (s *Store) ParticipantByID(id string) (*models.Participant, error) {
	return s.scanParticipant(s.db.QueryRow(`
		SELECT id, room_id, name, email, wishlist, identity_token, notifications_sent, created_at
		FROM participant
		WHERE id = $1
	`, id))
}

// ParticipantsForRoom returns all participants in join order.
func (s *Store) ParticipantsForRoom(roomID string) ([]models.Participant, error) {
	rows, err := s.db.Query(`
		SELECT id, room_id, name, email, wishlist, identity_token, notifications_sent, created_at
		FROM participant
		WHERE room_id = $1
		ORDER BY created_at, id
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		var email, wishlist, identity sql.NullString
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &email, &wishlist, &identity, &p.NotificationsSent, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Email = nullStrPtr(email)
		p.Wishlist = nullStrPtr(wishlist)
		p.IdentityToken = nullStrPtr(identity)
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Recipient is a bulk-notification candidate: a participant with an
// email, their assignment already joined in.
type Recipient struct {
	ParticipantID     string
	Name              string
	Email             string
	NotificationsSent int
	TargetName        string
	TargetWishlist    *string
}

// NotificationRecipients selects the participants eligible for the
// post-shuffle email: non-null email, a persisted assignment, and a
// notification counter still under the ceiling.
func (s *Store) NotificationRecipients(roomID string) ([]Recipient, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.email, p.notifications_sent, t.name, t.wishlist
		FROM participant p
		JOIN assignment a ON a.santa_id = p.id
		JOIN participant t ON t.id = a.target_id
		WHERE p.room_id = $1 AND p.email IS NOT NULL AND p.notifications_sent < $2
		ORDER BY p.created_at, p.id
	`, roomID, models.MaxNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients: %w", err)
	}
	defer rows.Close()

	recipients := []Recipient{}
	for rows.Next() {
		var r Recipient
		var wishlist sql.NullString
		if err := rows.Scan(&r.ParticipantID, &r.Name, &r.Email, &r.NotificationsSent, &r.TargetName, &wishlist); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		r.TargetWishlist = nullStrPtr(wishlist)
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

// TryReserveNotification bumps a participant's notification counter,
// conditional on it being under the ceiling. Reserving before the send
// means two concurrent resends cannot both pass the limit check; a
// failed send gives the slot back with ReleaseNotification.
func (s *Store) TryReserveNotification(id string) error {
	res, err := s.db.Exec(`
		UPDATE participant
		SET notifications_sent = notifications_sent + 1
		WHERE id = $1 AND notifications_sent < $2
	`, id, models.MaxNotifications)
	if err != nil {
		return fmt.Errorf("failed to reserve notification: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read reservation result: %w", err)
	}
	if rows == 0 {
		return ErrNotificationLimit
	}
	return nil
}

// ReleaseNotification undoes a reservation after a failed send.
func (s *Store) ReleaseNotification(id string) error {
	_, err := s.db.Exec(`
		UPDATE participant
		SET notifications_sent = notifications_sent - 1
		WHERE id = $1 AND notifications_sent > 0
	`, id)
	if err != nil {
		return fmt.Errorf("failed to release notification: %w", err)
	}
	return nil
}

// IncrementNotificationsSent bumps the notification counter by exactly 1
// for each given participant.
func (s *Store) IncrementNotificationsSent(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	_, err := s.db.Exec(fmt.Sprintf(`
		UPDATE participant
		SET notifications_sent = notifications_sent + 1
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return fmt.Errorf("failed to increment notification counters: %w", err)
	}
	return nil
}

func (s *Store) scanParticipant(row *sql.Row) (*models.Participant, error) {
	var p models.Participant
	var email, wishlist, identity sql.NullString
	err := row.Scan(&p.ID, &p.RoomID, &p.Name, &email, &wishlist, &identity, &p.NotificationsSent, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query participant: %w", err)
	}
	p.Email = nullStrPtr(email)
	p.Wishlist = nullStrPtr(wishlist)
	p.IdentityToken = nullStrPtr(identity)
	return &p, nil
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullStrPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
