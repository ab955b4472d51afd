package server

import (
	"net/http"

	"github.com/bagdasarian/meeting-cost-ticker/internal/handler"
)

func SetupRoutes(mux *http.ServeMux, h *handler.Handler) {
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /setup", h.SetupPage)
	mux.HandleFunc("POST /meetings", h.CreateMeetingForm)
	mux.HandleFunc("GET /meetings/{id}", h.MeetingPage)
	mux.HandleFunc("POST /meetings/{id}/start", h.StartMeetingForm)
	mux.HandleFunc("POST /meetings/{id}/stop", h.StopMeetingForm)
	mux.HandleFunc("POST /meetings/{id}/delete", h.DeleteMeetingForm)

	mux.HandleFunc("POST /api/meetings", h.CreateMeeting)
	mux.HandleFunc("GET /api/meetings/{id}", h.GetMeeting)
	mux.HandleFunc("POST /api/meetings/{id}/start", h.StartMeeting)
	mux.HandleFunc("POST /api/meetings/{id}/stop", h.StopMeeting)
	mux.HandleFunc("DELETE /api/meetings/{id}", h.DeleteMeeting)
}
