package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrStatusConflict is returned by conditional transitions when the
	// meeting is not in the expected source status.
	ErrStatusConflict = errors.New("meeting status changed concurrently")
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id int64) (*domain.Meeting, error)
	GetActive(ctx context.Context) (*domain.Meeting, error)
	MarkStarted(ctx context.Context, id int64, startedAt time.Time) error
	MarkEnded(ctx context.Context, id int64, endedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}
