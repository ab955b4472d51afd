package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
	"github.com/bagdasarian/meeting-cost-ticker/internal/repository"
)

type meetingService struct {
	meetingRepo repository.MeetingRepository
	clock       Clock
}

// NewMeetingService создает новый экземпляр MeetingService
func NewMeetingService(meetingRepo repository.MeetingRepository, clock Clock) MeetingService {
	if clock == nil {
		clock = SystemClock
	}
	return &meetingService{
		meetingRepo: meetingRepo,
		clock:       clock,
	}
}

// Now возвращает текущее время с той точностью, с которой оно хранится в БД
func (s *meetingService) Now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func meetingNotFound(id int64) error {
	return domain.NewNotFoundError(fmt.Sprintf("meeting with id %d", id))
}

// Create создает встречу в статусе configured
func (s *meetingService) Create(ctx context.Context, attendees []domain.Attendee) (*domain.Meeting, error) {
	normalized, err := domain.NormalizeAttendees(attendees)
	if err != nil {
		return nil, err
	}

	meeting := &domain.Meeting{
		Status:    domain.StatusConfigured,
		Attendees: normalized,
		CreatedAt: s.Now(),
	}

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	return meeting, nil
}

// Get получает встречу по идентификатору
func (s *meetingService) Get(ctx context.Context, id int64) (*domain.Meeting, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return nil, meetingNotFound(id)
		}
		return nil, fmt.Errorf("get meeting %d: %w", id, err)
	}
	return meeting, nil
}

// Active возвращает последнюю запущенную встречу
func (s *meetingService) Active(ctx context.Context) (*domain.Meeting, error) {
	meeting, err := s.meetingRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return nil, domain.NewNotFoundError("running meeting")
		}
		return nil, fmt.Errorf("get active meeting: %w", err)
	}
	return meeting, nil
}

// Start переводит встречу configured -> running. Повторный вызов возвращает
// ошибку и не перезаписывает started_at
func (s *meetingService) Start(ctx context.Context, id int64) (*domain.Meeting, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if meeting.Status != domain.StatusConfigured {
		return nil, domain.NewInvalidStateError("start", meeting.Status)
	}
	if len(meeting.Attendees) == 0 {
		return nil, domain.NewValidationError("meeting %d has no attendees", id)
	}

	err = s.meetingRepo.MarkStarted(ctx, id, s.Now())
	if err != nil {
		return nil, s.transitionError(ctx, "start", id, err)
	}

	return s.Get(ctx, id)
}

// Stop переводит встречу running -> ended и фиксирует стоимость
func (s *meetingService) Stop(ctx context.Context, id int64) (*domain.Meeting, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if meeting.Status != domain.StatusRunning || meeting.StartedAt == nil {
		return nil, domain.NewInvalidStateError("stop", meeting.Status)
	}

	endedAt := s.Now()
	if endedAt.Before(*meeting.StartedAt) {
		endedAt = *meeting.StartedAt
	}

	err = s.meetingRepo.MarkEnded(ctx, id, endedAt)
	if err != nil {
		return nil, s.transitionError(ctx, "stop", id, err)
	}

	return s.Get(ctx, id)
}

// transitionError превращает проигранную гонку за переход в INVALID_STATE
// с актуальным статусом встречи
func (s *meetingService) transitionError(ctx context.Context, action string, id int64, err error) error {
	if !errors.Is(err, repository.ErrStatusConflict) {
		return fmt.Errorf("%s meeting %d: %w", action, id, err)
	}

	current, getErr := s.Get(ctx, id)
	if getErr != nil {
		return getErr
	}
	return domain.NewInvalidStateError(action, current.Status)
}

// Delete удаляет встречу вместе с участниками
func (s *meetingService) Delete(ctx context.Context, id int64) error {
	err := s.meetingRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return meetingNotFound(id)
		}
		return fmt.Errorf("delete meeting %d: %w", id, err)
	}
	return nil
}

// CurrentCost возвращает стоимость встречи на момент asOf (нулевое значение - сейчас)
func (s *meetingService) CurrentCost(ctx context.Context, id int64, asOf time.Time) (float64, error) {
	snapshot, err := s.Snapshot(ctx, id, asOf)
	if err != nil {
		return 0, err
	}
	return snapshot.Cost, nil
}

// ElapsedDuration возвращает длительность встречи на момент asOf
func (s *meetingService) ElapsedDuration(ctx context.Context, id int64, asOf time.Time) (time.Duration, error) {
	snapshot, err := s.Snapshot(ctx, id, asOf)
	if err != nil {
		return 0, err
	}
	return snapshot.Elapsed, nil
}

// Snapshot вычисляет представление встречи для отображения. Только чтение
func (s *meetingService) Snapshot(ctx context.Context, id int64, asOf time.Time) (*domain.Snapshot, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Только явно переданный as_of проверяется на попадание до старта.
	// Показания часов, отставших от started_at, поднимаются до started_at
	if asOf.IsZero() {
		asOf = s.Now()
		if meeting.StartedAt != nil && asOf.Before(*meeting.StartedAt) {
			asOf = *meeting.StartedAt
		}
	}

	return meeting.Snapshot(asOf)
}
