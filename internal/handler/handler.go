package handler

import (
	"context"
	"log"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
	"github.com/bagdasarian/meeting-cost-ticker/internal/service"
)

const defaultPollInterval = time.Second

type Handler struct {
	meetingService service.MeetingService
	views          *Views
	pollInterval   time.Duration
}

func NewHandler(meetingService service.MeetingService, views *Views) *Handler {
	return &Handler{
		meetingService: meetingService,
		views:          views,
		pollInterval:   defaultPollInterval,
	}
}

// createMeeting creates a meeting and optionally starts it. A meeting whose
// start fails is removed again so a failed request leaves nothing behind.
func (h *Handler) createMeeting(ctx context.Context, attendees []domain.Attendee, start bool) (*domain.Meeting, error) {
	meeting, err := h.meetingService.Create(ctx, attendees)
	if err != nil {
		return nil, err
	}
	if !start {
		return meeting, nil
	}

	started, err := h.meetingService.Start(ctx, meeting.ID)
	if err != nil {
		if delErr := h.meetingService.Delete(ctx, meeting.ID); delErr != nil {
			log.Printf("failed to remove meeting %d after failed start: %v", meeting.ID, delErr)
		}
		return nil, err
	}
	return started, nil
}
