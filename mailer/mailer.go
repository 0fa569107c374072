// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/danielhkuo/wesanta/metrics"
	"github.com/danielhkuo/wesanta/models"
	"github.com/danielhkuo/wesanta/store"
)

// Resend batch limit is 100 emails per request
const batchSize = 100

// Client is the slice of the Resend API the mailer needs. Tests swap in
// a fake; production uses the real client via resendClient.
type Client interface {
	Send(req *resend.SendEmailRequest) error
	SendBatch(reqs []*resend.SendEmailRequest) error
}

type resendClient struct {
	c *resend.Client
}

func (rc *resendClient) Send(req *resend.SendEmailRequest) error {
	_, err := rc.c.Emails.Send(req)
	return err
}

func (rc *resendClient) SendBatch(reqs []*resend.SendEmailRequest) error {
	_, err := rc.c.Batch.Send(reqs)
	return err
}

// Mailer delivers assignment notifications. A Mailer without an API key
// is disabled: every dispatch is a logged no-op, and the rest of the
// service works normally.
type Mailer struct {
	client  Client
	store   *store.Store
	from    string
	baseURL string
}

// New builds a Mailer from config. apiKey may be empty.
func New(st *store.Store, apiKey, from, baseURL string) *Mailer {
	m := &Mailer{store: st, from: from, baseURL: baseURL}
	if apiKey == "" {
		slog.Warn("RESEND_API_KEY is not set, email notifications disabled")
		return m
	}
	m.client = &resendClient{c: resend.NewClient(apiKey)}
	return m
}

// NewWithClient builds a Mailer around an explicit client (tests).
func NewWithClient(st *store.Store, client Client, from, baseURL string) *Mailer {
	return &Mailer{store: st, client: client, from: from, baseURL: baseURL}
}

// Enabled reports whether a transport is configured.
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// DispatchAssignments emails every eligible participant of a freshly
// shuffled room their assignment. Eligible means: has an email, has an
// assignment, notification counter below the ceiling.
//
// Delivery is best-effort and batched. A failed batch is logged and
// counted as failed without touching any counters; a successful batch
// increments each recipient's counter by 1. Callers run this in a
// goroutine after the shuffle commits - its outcome never affects the
// shuffle response.
func (m *Mailer) DispatchAssignments(roomID string) (sent, failed int) {
	if !m.Enabled() {
		slog.Warn("email notifications disabled, skipping dispatch", "room_id", roomID)
		return 0, 0
	}

	room, err := m.store.RoomByID(roomID)
	if err != nil {
		slog.Error("dispatch: failed to load room", "room_id", roomID, "error", err)
		return 0, 0
	}

	recipients, err := m.store.NotificationRecipients(roomID)
	if err != nil {
		slog.Error("dispatch: failed to load recipients", "room_id", roomID, "error", err)
		return 0, 0
	}
	if len(recipients) == 0 {
		return 0, 0
	}

	for start := 0; start < len(recipients); start += batchSize {
		end := min(start+batchSize, len(recipients))
		batch := recipients[start:end]

		reqs := make([]*resend.SendEmailRequest, len(batch))
		ids := make([]string, len(batch))
		for i, rec := range batch {
			reqs[i] = m.assignmentEmail(room, rec)
			ids[i] = rec.ParticipantID
		}

		if err := m.client.SendBatch(reqs); err != nil {
			slog.Error("dispatch: batch send failed", "room_id", roomID, "batch_size", len(batch), "error", err)
			failed += len(batch)
			metrics.NotificationsFailed.Add(float64(len(batch)))
			continue
		}

		sent += len(batch)
		metrics.NotificationsSent.Add(float64(len(batch)))

		if err := m.store.IncrementNotificationsSent(ids); err != nil {
			slog.Error("dispatch: failed to update notification counters", "room_id", roomID, "error", err)
		}
	}

	slog.Info("assignment notifications dispatched", "room_id", roomID, "sent", sent, "failed", failed)
	return sent, failed
}

// Resend sends one participant their assignment again. The caller
// performs the business checks (admin, room shuffled, email present)
// beforehand; the notification ceiling itself is enforced here by
// reserving the counter slot before the send, so two concurrent resends
// cannot both pass the limit. A failed send returns the slot.
func (m *Mailer) Resend(room *models.Room, p *models.Participant, target *models.Participant) error {
	if !m.Enabled() {
		return fmt.Errorf("email service not configured")
	}
	if p.Email == nil {
		return fmt.Errorf("participant has no email")
	}

	if err := m.store.TryReserveNotification(p.ID); err != nil {
		return err // ErrNotificationLimit or query failure
	}

	rec := store.Recipient{
		ParticipantID:  p.ID,
		Name:           p.Name,
		Email:          *p.Email,
		TargetName:     target.Name,
		TargetWishlist: target.Wishlist,
	}
	if err := m.client.Send(m.assignmentEmail(room, rec)); err != nil {
		if relErr := m.store.ReleaseNotification(p.ID); relErr != nil {
			slog.Error("failed to release notification slot", "participant_id", p.ID, "error", relErr)
		}
		metrics.NotificationsFailed.Inc()
		return fmt.Errorf("failed to send notification: %w", err)
	}
	metrics.NotificationsSent.Inc()
	return nil
}

func (m *Mailer) assignmentEmail(room *models.Room, rec store.Recipient) *resend.SendEmailRequest {
	viewURL := fmt.Sprintf("%s/room/%s/joined", m.baseURL, room.ID)
	return &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{rec.Email},
		Subject: fmt.Sprintf("🎁 %s: your Secret Santa draw is in!", room.Name),
		Html: renderAssignment(assignmentEmailData{
			SantaName:      rec.Name,
			TargetName:     rec.TargetName,
			TargetWishlist: rec.TargetWishlist,
			RoomName:       room.Name,
			ViewURL:        viewURL,
		}),
	}
}
