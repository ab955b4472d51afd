package handler

import "time"

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type AttendeeRequest struct {
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
}

type CreateMeetingRequest struct {
	Attendees []AttendeeRequest `json:"attendees"`
	Start     bool              `json:"start"`
}

type AttendeeResponse struct {
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
}

type MeetingResponse struct {
	ID                  int64              `json:"id"`
	Status              string             `json:"status"`
	Attendees           []AttendeeResponse `json:"attendees"`
	AggregateHourlyRate float64            `json:"aggregate_hourly_rate"`
	CreatedAt           string             `json:"created_at"`
	StartedAt           *string            `json:"started_at,omitempty"`
	EndedAt             *string            `json:"ended_at,omitempty"`
	AsOf                string             `json:"as_of"`
	CurrentCost         float64            `json:"current_cost"`
	CurrentCostDisplay  string             `json:"current_cost_display"`
	ElapsedSeconds      float64            `json:"elapsed_seconds"`
	Elapsed             string             `json:"elapsed"`
}

// setupRow is one attendee line of the setup form, kept as raw text so a
// rejected submission can be shown back unchanged.
type setupRow struct {
	Name string
	Rate string
}

type setupPage struct {
	Rows           []setupRow
	Error          string
	CurrencySymbol string
}

type meetingPage struct {
	ID                  int64
	Status              string
	Attendees           []AttendeeResponse
	AggregateHourlyRate float64
	StartedAt           *time.Time
	EndedAt             *time.Time
	CostDisplay         string
	ElapsedDisplay      string
	PollIntervalMillis  int64
}

type errorPage struct {
	Message string
	BackURL string
}
