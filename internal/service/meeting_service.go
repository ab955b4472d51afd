package service

import (
	"context"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
)

type MeetingService interface {
	Create(ctx context.Context, attendees []domain.Attendee) (*domain.Meeting, error)
	Get(ctx context.Context, id int64) (*domain.Meeting, error)
	Active(ctx context.Context) (*domain.Meeting, error)
	Start(ctx context.Context, id int64) (*domain.Meeting, error)
	Stop(ctx context.Context, id int64) (*domain.Meeting, error)
	Delete(ctx context.Context, id int64) error
	CurrentCost(ctx context.Context, id int64, asOf time.Time) (float64, error)
	ElapsedDuration(ctx context.Context, id int64, asOf time.Time) (time.Duration, error)
	Snapshot(ctx context.Context, id int64, asOf time.Time) (*domain.Snapshot, error)
	Now() time.Time
}
