// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mailer delivers assignment notification emails through Resend.

Two paths share one template: the bulk dispatch fired after a shuffle
(batched, best-effort, never surfaced to the user who shuffled) and the
organizer's per-participant resend. Deliveries are capped per
participant at models.MaxNotifications via the notifications_sent
counter; a resend reserves its counter slot before sending and returns
it if the send fails, so concurrent resends cannot exceed the cap.
*/
package mailer
