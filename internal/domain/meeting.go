package domain

import (
	"math"
	"strings"
	"time"
)

// MaxHourlyRate bounds a single attendee's rate so the aggregate and the
// accrued cost stay finite for any realistic meeting length.
const MaxHourlyRate = 1e9

type Meeting struct {
	ID        int64
	Status    Status
	Attendees []Attendee
	CreatedAt time.Time
	StartedAt *time.Time
	EndedAt   *time.Time
}

type Attendee struct {
	Name       string
	HourlyRate float64
}

type Status string

const (
	StatusConfigured Status = "configured"
	StatusRunning    Status = "running"
	StatusEnded      Status = "ended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfigured, StatusRunning, StatusEnded:
		return true
	}
	return false
}

// Snapshot is the computed view of a meeting at a single instant.
type Snapshot struct {
	Meeting             *Meeting
	AsOf                time.Time
	AggregateHourlyRate float64
	Elapsed             time.Duration
	Cost                float64
}

func (m *Meeting) AggregateHourlyRate() float64 {
	var total float64
	for _, a := range m.Attendees {
		total += a.HourlyRate
	}
	return total
}

// Elapsed returns the accrual window length as of asOf. Ended meetings
// ignore asOf past the start and always report ended_at - started_at.
func (m *Meeting) Elapsed(asOf time.Time) (time.Duration, error) {
	switch m.Status {
	case StatusConfigured:
		return 0, nil
	case StatusRunning, StatusEnded:
		if m.StartedAt == nil {
			return 0, NewInvalidStateError("measure", m.Status)
		}
		if asOf.Before(*m.StartedAt) {
			return 0, NewValidationError("as_of %s precedes meeting start %s",
				asOf.UTC().Format(time.RFC3339Nano), m.StartedAt.UTC().Format(time.RFC3339Nano))
		}
		end := asOf
		if m.Status == StatusEnded {
			if m.EndedAt == nil {
				return 0, NewInvalidStateError("measure", m.Status)
			}
			end = *m.EndedAt
		}
		return end.Sub(*m.StartedAt), nil
	default:
		return 0, NewInvalidStateError("measure", m.Status)
	}
}

// Cost returns the accrued cost as of asOf.
func (m *Meeting) Cost(asOf time.Time) (float64, error) {
	snapshot, err := m.Snapshot(asOf)
	if err != nil {
		return 0, err
	}
	return snapshot.Cost, nil
}

// CostFor multiplies before dividing so whole-second windows on whole rates stay exact.
func CostFor(hourlyRate float64, elapsed time.Duration) float64 {
	return hourlyRate * elapsed.Seconds() / 3600
}

func (m *Meeting) Snapshot(asOf time.Time) (*Snapshot, error) {
	elapsed, err := m.Elapsed(asOf)
	if err != nil {
		return nil, err
	}
	rate := m.AggregateHourlyRate()
	cost := CostFor(rate, elapsed)
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return nil, NewValidationError("meeting %d: cost is out of range", m.ID)
	}
	return &Snapshot{
		Meeting:             m,
		AsOf:                asOf,
		AggregateHourlyRate: rate,
		Elapsed:             elapsed,
		Cost:                cost,
	}, nil
}

// NormalizeAttendees trims names and checks that the list can start a meeting.
func NormalizeAttendees(attendees []Attendee) ([]Attendee, error) {
	if len(attendees) == 0 {
		return nil, NewValidationError("at least one attendee is required")
	}

	result := make([]Attendee, 0, len(attendees))
	for i, a := range attendees {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, NewValidationError("attendee %d: name is required", i+1)
		}
		if math.IsNaN(a.HourlyRate) || math.IsInf(a.HourlyRate, 0) {
			return nil, NewValidationError("attendee %q: hourly rate must be a finite number", name)
		}
		if a.HourlyRate < 0 {
			return nil, NewValidationError("attendee %q: hourly rate must not be negative", name)
		}
		if a.HourlyRate > MaxHourlyRate {
			return nil, NewValidationError("attendee %q: hourly rate must not exceed %.0f", name, MaxHourlyRate)
		}
		result = append(result, Attendee{Name: name, HourlyRate: a.HourlyRate})
	}
	return result, nil
}
