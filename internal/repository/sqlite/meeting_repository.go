// Package sqlite provides a SQLite-backed meeting repository.
package sqlite

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
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) *meetingRepository {
	return &meetingRepository{db: db}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func timePtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
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

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO meetings (status, created_at, started_at, ended_at) VALUES (?, ?, ?, ?)`,
		string(meeting.Status),
		toMillis(meeting.CreatedAt),
		nullMillis(meeting.StartedAt),
		nullMillis(meeting.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read meeting id: %w", err)
	}

	for i, attendee := range meeting.Attendees {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO attendees (meeting_id, position, name, hourly_rate) VALUES (?, ?, ?, ?)`,
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
	meeting := &domain.Meeting{}
	var status string
	var createdAt int64
	var startedAt, endedAt sql.NullInt64
	err := r.db.QueryRowContext(
		ctx,
		`SELECT id, status, created_at, started_at, ended_at FROM meetings WHERE id = ?`,
		id,
	).Scan(&meeting.ID, &status, &createdAt, &startedAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}

	meeting.Status = domain.Status(status)
	meeting.CreatedAt = fromMillis(createdAt)
	meeting.StartedAt = timePtr(startedAt)
	meeting.EndedAt = timePtr(endedAt)

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT name, hourly_rate FROM attendees WHERE meeting_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.Name, &a.HourlyRate); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		meeting.Attendees = append(meeting.Attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}

	return meeting, nil
}

func (r *meetingRepository) GetActive(ctx context.Context) (*domain.Meeting, error) {
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		`SELECT id FROM meetings WHERE status = ? ORDER BY started_at DESC, id DESC LIMIT 1`,
		string(domain.StatusRunning),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("get active meeting: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *meetingRepository) MarkStarted(ctx context.Context, id int64, startedAt time.Time) error {
	return r.transition(
		ctx,
		`UPDATE meetings SET status = ?, started_at = ? WHERE id = ? AND status = ? AND started_at IS NULL`,
		string(domain.StatusRunning),
		toMillis(startedAt),
		id,
		string(domain.StatusConfigured),
	)
}

func (r *meetingRepository) MarkEnded(ctx context.Context, id int64, endedAt time.Time) error {
	return r.transition(
		ctx,
		`UPDATE meetings SET status = ?, ended_at = ? WHERE id = ? AND status = ? AND started_at IS NOT NULL AND ended_at IS NULL`,
		string(domain.StatusEnded),
		toMillis(endedAt),
		id,
		string(domain.StatusRunning),
	)
}

func (r *meetingRepository) transition(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}

func (r *meetingRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendees WHERE meeting_id = ?`, id); err != nil {
		return fmt.Errorf("delete attendees: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrMeetingNotFound
	}

	return tx.Commit()
}
