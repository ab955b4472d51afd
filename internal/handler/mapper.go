package handler

import (
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
)

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func domainAttendeesToHTTP(attendees []domain.Attendee) []AttendeeResponse {
	result := make([]AttendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		result = append(result, AttendeeResponse{
			Name:       a.Name,
			HourlyRate: a.HourlyRate,
		})
	}
	return result
}

func httpAttendeesToDomain(req []AttendeeRequest) []domain.Attendee {
	attendees := make([]domain.Attendee, 0, len(req))
	for _, a := range req {
		attendees = append(attendees, domain.Attendee{
			Name:       a.Name,
			HourlyRate: a.HourlyRate,
		})
	}
	return attendees
}

func (h *Handler) domainSnapshotToHTTP(s *domain.Snapshot) MeetingResponse {
	m := s.Meeting
	return MeetingResponse{
		ID:                  m.ID,
		Status:              string(m.Status),
		Attendees:           domainAttendeesToHTTP(m.Attendees),
		AggregateHourlyRate: s.AggregateHourlyRate,
		CreatedAt:           m.CreatedAt.UTC().Format(time.RFC3339Nano),
		StartedAt:           formatTime(m.StartedAt),
		EndedAt:             formatTime(m.EndedAt),
		AsOf:                s.AsOf.UTC().Format(time.RFC3339Nano),
		CurrentCost:         s.Cost,
		CurrentCostDisplay:  h.views.Money(s.Cost),
		ElapsedSeconds:      s.Elapsed.Seconds(),
		Elapsed:             formatDuration(s.Elapsed),
	}
}

func (h *Handler) domainSnapshotToPage(s *domain.Snapshot) meetingPage {
	m := s.Meeting
	return meetingPage{
		ID:                  m.ID,
		Status:              string(m.Status),
		Attendees:           domainAttendeesToHTTP(m.Attendees),
		AggregateHourlyRate: s.AggregateHourlyRate,
		StartedAt:           m.StartedAt,
		EndedAt:             m.EndedAt,
		CostDisplay:         h.views.Money(s.Cost),
		ElapsedDisplay:      formatDuration(s.Elapsed),
		PollIntervalMillis:  h.pollInterval.Milliseconds(),
	}
}
