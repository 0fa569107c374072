// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for the room lifecycle and
// the notification pipeline, served at GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wesanta_rooms_created_total",
		Help: "Rooms created.",
	})

	ParticipantsJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wesanta_participants_joined_total",
		Help: "Participants added, self-joined or by the organizer.",
	})

	ShufflesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wesanta_shuffles_completed_total",
		Help: "Rooms successfully shuffled.",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wesanta_notifications_sent_total",
		Help: "Assignment emails sent, bulk and resend.",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wesanta_notifications_failed_total",
		Help: "Assignment emails that failed to send.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
