package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
	"github.com/bagdasarian/meeting-cost-ticker/internal/repository"
)

type meetingRepository struct {
	db       *sql.DB
	executor repository.DBExecutor
}

func NewMeetingRepository(db *sql.DB) *meetingRepository {
	return &meetingRepository{db: db, executor: db}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	query := `
		INSERT INTO meetings (status, created_at, started_at, ended_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err = tx.QueryRowContext(
		ctx,
		query,
		string(meeting.Status),
		meeting.CreatedAt,
		nullTime(meeting.StartedAt),
		nullTime(meeting.EndedAt),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	for i, attendee := range meeting.Attendees {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO attendees (meeting_id, position, name, hourly_rate) VALUES ($1, $2, $3, $4)",
			id,
			i,
			attendee.Name,
			attendee.HourlyRate,
		)
		if err != nil {
			return fmt.Errorf("insert attendee %q: %w", attendee.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	meeting.ID = id
	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id int64) (*domain.Meeting, error) {
	query := `
		SELECT id, status, created_at, started_at, ended_at
		FROM meetings
		WHERE id = $1
	`

	meeting := &domain.Meeting{}
	var status string
	var startedAt, endedAt sql.NullTime
	err := r.executor.QueryRowContext(ctx, query, id).Scan(
		&meeting.ID,
		&status,
		&meeting.CreatedAt,
		&startedAt,
		&endedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMeetingNotFound
		}
		return nil, err
	}

	meeting.Status = domain.Status(status)
	meeting.CreatedAt = meeting.CreatedAt.UTC()
	meeting.StartedAt = timePtr(startedAt)
	meeting.EndedAt = timePtr(endedAt)

	attendees, err := r.getAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	meeting.Attendees = attendees

	return meeting, nil
}

func (r *meetingRepository) getAttendees(ctx context.Context, meetingID int64) ([]domain.Attendee, error) {
	query := `
		SELECT name, hourly_rate
		FROM attendees
		WHERE meeting_id = $1
		ORDER BY position
	`

	rows, err := r.executor.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []domain.Attendee
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.Name, &a.HourlyRate); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}

	return attendees, rows.Err()
}

func (r *meetingRepository) GetActive(ctx context.Context) (*domain.Meeting, error) {
	query := `
		SELECT id
		FROM meetings
		WHERE status = $1
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`

	var id int64
	err := r.executor.QueryRowContext(ctx, query, string(domain.StatusRunning)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMeetingNotFound
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *meetingRepository) MarkStarted(ctx context.Context, id int64, startedAt time.Time) error {
	query := `
		UPDATE meetings
		SET status = $2, started_at = $3
		WHERE id = $1 AND status = $4 AND started_at IS NULL
	`

	return r.transition(ctx, query, id, domain.StatusRunning, startedAt, domain.StatusConfigured)
}

func (r *meetingRepository) MarkEnded(ctx context.Context, id int64, endedAt time.Time) error {
	query := `
		UPDATE meetings
		SET status = $2, ended_at = $3
		WHERE id = $1 AND status = $4 AND started_at IS NOT NULL AND ended_at IS NULL
	`

	return r.transition(ctx, query, id, domain.StatusEnded, endedAt, domain.StatusRunning)
}

func (r *meetingRepository) transition(ctx context.Context, query string, id int64, to domain.Status, at time.Time, from domain.Status) error {
	result, err := r.executor.ExecContext(ctx, query, id, string(to), at.UTC(), string(from))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrStatusConflict
	}

	return nil
}

func (r *meetingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.executor.ExecContext(ctx, "DELETE FROM meetings WHERE id = $1", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrMeetingNotFound
	}

	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
