// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/wesanta/cliparse"
	"github.com/danielhkuo/wesanta/handlers"
	"github.com/danielhkuo/wesanta/mailer"
	"github.com/danielhkuo/wesanta/metrics"
	"github.com/danielhkuo/wesanta/middleware"
	"github.com/danielhkuo/wesanta/store"
)

func NewRouter(st *store.Store, cfg cliparse.Config, m *mailer.Mailer) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(st, cfg)
	joinHandler := handlers.NewJoinHandler(st, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg, m)
	quickShuffleHandler := handlers.NewQuickShuffleHandler()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", metrics.Handler())

	// Standalone shuffle tool (no persistence)
	mux.HandleFunc("POST /shuffle", middleware.WithLogging(quickShuffleHandler.QuickShuffle))

	// Room lifecycle
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms/count", middleware.WithLogging(roomHandler.RoomsCount))
	mux.HandleFunc("GET /rooms/mine", middleware.WithLogging(roomHandler.MyRooms))
	mux.HandleFunc("GET /rooms/{id}", middleware.WithLogging(roomHandler.GetRoom))

	// Participant operations
	mux.HandleFunc("POST /rooms/{id}/join", middleware.WithLogging(joinHandler.Join))
	mux.HandleFunc("GET /rooms/{id}/assignment", middleware.WithLogging(joinHandler.MyAssignment))

	// Organizer operations
	mux.HandleFunc("GET /rooms/{id}/admin", middleware.WithLogging(adminHandler.GetAdminRoom))
	mux.HandleFunc("POST /rooms/{id}/participants", middleware.WithLogging(adminHandler.AddParticipant))
	mux.HandleFunc("POST /rooms/{id}/shuffle", middleware.WithLogging(adminHandler.Shuffle))
	mux.HandleFunc("POST /rooms/{id}/participants/{participantID}/resend", middleware.WithLogging(adminHandler.ResendNotification))

	// Root endpoint. The {$} anchor keeps this from acting as a GET
	// catch-all: unregistered paths 404 instead of serving the banner.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("wesanta API v1"))
	})

	return mux
}
