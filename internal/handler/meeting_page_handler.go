package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
)

const setupFormRows = 4

func meetingURL(id int64) string {
	return fmt.Sprintf("/meetings/%d", id)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	meeting, err := h.meetingService.Active(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Redirect(w, r, "/setup", http.StatusSeeOther)
			return
		}
		h.handlePageError(w, r, err, "")
		return
	}

	http.Redirect(w, r, meetingURL(meeting.ID), http.StatusSeeOther)
}

func (h *Handler) SetupPage(w http.ResponseWriter, r *http.Request) {
	meeting, err := h.meetingService.Active(r.Context())
	if err == nil {
		http.Redirect(w, r, meetingURL(meeting.ID), http.StatusSeeOther)
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		h.handlePageError(w, r, err, "")
		return
	}

	h.renderSetup(w, r, http.StatusOK, nil, "")
}

func (h *Handler) renderSetup(w http.ResponseWriter, r *http.Request, status int, rows []setupRow, message string) {
	for len(rows) < setupFormRows {
		rows = append(rows, setupRow{})
	}
	h.renderPage(w, r, status, pageSetup, setupPage{
		Rows:           rows,
		Error:          message,
		CurrencySymbol: h.views.CurrencySymbol(),
	})
}

// parseSetupForm pairs the repeated name/rate fields. Rows with neither a
// name nor a rate are padding and are skipped.
func parseSetupForm(w http.ResponseWriter, r *http.Request) ([]setupRow, []domain.Attendee, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, nil, domain.NewValidationError("invalid form: %v", err)
	}

	names := r.PostForm["name"]
	rates := r.PostForm["rate"]
	n := max(len(names), len(rates))

	rows := make([]setupRow, 0, n)
	attendees := make([]domain.Attendee, 0, n)
	var firstErr error
	for i := 0; i < n; i++ {
		var row setupRow
		if i < len(names) {
			row.Name = strings.TrimSpace(names[i])
		}
		if i < len(rates) {
			row.Rate = strings.TrimSpace(rates[i])
		}
		if row.Name == "" && row.Rate == "" {
			continue
		}
		rows = append(rows, row)

		if row.Rate == "" {
			if firstErr == nil {
				firstErr = domain.NewValidationError("attendee %q: hourly rate is required", row.Name)
			}
			continue
		}
		rate, err := strconv.ParseFloat(row.Rate, 64)
		if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
			if firstErr == nil {
				firstErr = domain.NewValidationError("attendee %q: hourly rate %q is not a number", row.Name, row.Rate)
			}
			continue
		}
		attendees = append(attendees, domain.Attendee{Name: row.Name, HourlyRate: rate})
	}

	return rows, attendees, firstErr
}

func (h *Handler) CreateMeetingForm(w http.ResponseWriter, r *http.Request) {
	rows, attendees, err := parseSetupForm(w, r)
	if err != nil {
		h.renderSetupError(w, r, rows, err)
		return
	}

	start := r.PostForm.Get("start")
	meeting, err := h.createMeeting(r.Context(), attendees, start == "1" || start == "on")
	if err != nil {
		h.renderSetupError(w, r, rows, err)
		return
	}

	http.Redirect(w, r, meetingURL(meeting.ID), http.StatusSeeOther)
}

func (h *Handler) renderSetupError(w http.ResponseWriter, r *http.Request, rows []setupRow, err error) {
	if !errors.Is(err, domain.ErrValidation) {
		h.handlePageError(w, r, err, "")
		return
	}
	h.renderSetup(w, r, http.StatusBadRequest, rows, err.Error())
}

func (h *Handler) MeetingPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseMeetingID(r)
	if err != nil {
		h.handlePageError(w, r, err, "")
		return
	}

	snapshot, err := h.meetingService.Snapshot(r.Context(), id, time.Time{})
	if err != nil {
		h.handlePageError(w, r, err, "")
		return
	}

	page := pageSummary
	switch snapshot.Meeting.Status {
	case domain.StatusConfigured:
		page = pageLobby
	case domain.StatusRunning:
		page = pageDashboard
	}

	h.renderPage(w, r, http.StatusOK, page, h.domainSnapshotToPage(snapshot))
}

// transitionPage handles the start/stop/delete form posts.
func (h *Handler) transitionPage(w http.ResponseWriter, r *http.Request, apply func(id int64) (string, error)) {
	id, err := parseMeetingID(r)
	if err != nil {
		h.handlePageError(w, r, err, "")
		return
	}

	target, err := apply(id)
	if err != nil {
		h.handlePageError(w, r, err, meetingURL(id))
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) StartMeetingForm(w http.ResponseWriter, r *http.Request) {
	h.transitionPage(w, r, func(id int64) (string, error) {
		_, err := h.meetingService.Start(r.Context(), id)
		return meetingURL(id), err
	})
}

func (h *Handler) StopMeetingForm(w http.ResponseWriter, r *http.Request) {
	h.transitionPage(w, r, func(id int64) (string, error) {
		_, err := h.meetingService.Stop(r.Context(), id)
		return meetingURL(id), err
	})
}

func (h *Handler) DeleteMeetingForm(w http.ResponseWriter, r *http.Request) {
	h.transitionPage(w, r, func(id int64) (string, error) {
		return "/setup", h.meetingService.Delete(r.Context(), id)
	})
}
