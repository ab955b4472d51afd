package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
)

const maxRequestBodyBytes = 64 << 10

func parseMeetingID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewNotFoundError(fmt.Sprintf("meeting with id %q", raw))
	}
	return id, nil
}

// parseAsOf reads the optional as_of query parameter; absent means now.
func parseAsOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Time{}, nil
	}
	asOf, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("as_of must be an RFC 3339 timestamp")
	}
	return asOf.UTC(), nil
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.handleError(w, r, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	meeting, err := h.createMeeting(r.Context(), httpAttendeesToDomain(req.Attendees), req.Start)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeSnapshot(w, r, http.StatusCreated, meeting.ID, time.Time{})
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseMeetingID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeSnapshot(w, r, http.StatusOK, id, asOf)
}

func (h *Handler) StartMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseMeetingID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if _, err := h.meetingService.Start(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeSnapshot(w, r, http.StatusOK, id, time.Time{})
}

func (h *Handler) StopMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseMeetingID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	meeting, err := h.meetingService.Stop(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var asOf time.Time
	if meeting.EndedAt != nil {
		asOf = *meeting.EndedAt
	}
	h.writeSnapshot(w, r, http.StatusOK, id, asOf)
}

func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseMeetingID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.meetingService.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, r *http.Request, status int, id int64, asOf time.Time) {
	snapshot, err := h.meetingService.Snapshot(r.Context(), id, asOf)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, status, h.domainSnapshotToHTTP(snapshot))
}
