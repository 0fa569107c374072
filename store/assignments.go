// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/shuffle"
)

// ShuffleRoom claims the one-shot shuffle and persists the assignments
// in a single transaction.
//
// The claim is a conditional update of shuffled_at from null to now:
// when several callers race, exactly one update affects a row and only
// that caller proceeds to write assignments. Everyone else gets
// ErrAlreadyShuffled and writes nothing. Because the assignment inserts
// share the claim's transaction, the room can never be left marked
// shuffled without its assignments - an infrastructure failure rolls the
// claim back too.
func (s *Store) ShuffleRoom(roomID string, now time.Time) ([]models.Assignment, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin shuffle transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE room SET shuffled_at = $1
		WHERE id = $2 AND shuffled_at IS NULL
	`, now, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim shuffle: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read claim result: %w", err)
	}
	if rows == 0 {
		// Lost the race, or the room does not exist.
		var shuffledAt sql.NullTime
		err := tx.QueryRow(`SELECT shuffled_at FROM room WHERE id = $1`, roomID).Scan(&shuffledAt)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query room state: %w", err)
		}
		return nil, ErrAlreadyShuffled
	}

	ids, err := participantIDs(tx, roomID)
	if err != nil {
		return nil, err
	}
	if len(ids) < models.MinShuffleParticipants {
		// Rolls back the claim: the room stays open.
		return nil, ErrNotEnoughParticipants
	}

	pairs, err := shuffle.Ring(ids)
	if err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, len(pairs))
	for i, pair := range pairs {
		assignments[i] = models.Assignment{
			ID:       uuid.NewString(),
			RoomID:   roomID,
			SantaID:  pair.Santa,
			TargetID: pair.Target,
		}
		_, err := tx.Exec(`
			INSERT INTO assignment (id, room_id, santa_id, target_id)
			VALUES ($1, $2, $3, $4)
		`, assignments[i].ID, roomID, pair.Santa, pair.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shuffle: %w", err)
	}
	return assignments, nil
}

// TargetForSanta returns the participant the given santa drew.
// ErrNotFound before the shuffle.
func (s *Store) TargetForSanta(santaID string) (*models.Participant, error) {
	return s.scanParticipant(s.db.QueryRow(`
		SELECT t.id, t.room_id, t.name, t.email, t.wishlist, t.identity_token, t.notifications_sent, t.created_at
		FROM assignment a
		JOIN participant t ON t.id = a.target_id
		WHERE a.santa_id = $1
	`, santaID))
}

// AssignmentsForRoom returns every assignment of a room.
func (s *Store) AssignmentsForRoom(roomID string) ([]models.Assignment, error) {
	rows, err := s.db.Query(`
		SELECT id, room_id, santa_id, target_id
		FROM assignment
		WHERE room_id = $1
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.RoomID, &a.SantaID, &a.TargetID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// TargetNamesBySanta maps each santa's participant id to the name of
// their target, for the admin view of a shuffled room.
func (s *Store) TargetNamesBySanta(roomID string) (map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT a.santa_id, t.name
		FROM assignment a
		JOIN participant t ON t.id = a.target_id
		WHERE a.room_id = $1
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment targets: %w", err)
	}
	defer rows.Close()

	targets := make(map[string]string)
	for rows.Next() {
		var santaID, targetName string
		if err := rows.Scan(&santaID, &targetName); err != nil {
			return nil, fmt.Errorf("failed to scan assignment target: %w", err)
		}
		targets[santaID] = targetName
	}
	return targets, rows.Err()
}

func participantIDs(tx *sql.Tx, roomID string) ([]string, error) {
	rows, err := tx.Query(`
		SELECT id FROM participant
		WHERE room_id = $1
		ORDER BY created_at, id
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
