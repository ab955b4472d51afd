package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
	"github.com/bagdasarian/meeting-cost-ticker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockDB создает мок базы данных для тестов
// Автоматически закрывает соединение при завершении теста
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "не удалось создать мок БД")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupMeetingRepo(t *testing.T) (*meetingRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewMeetingRepository(db), mock
}

var meetingColumns = []string{"id", "status", "created_at", "started_at", "ended_at"}

func TestMeetingRepository_Create(t *testing.T) {
	t.Run("успешное создание встречи с участниками", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)
		ctx := context.Background()

		meeting := &domain.Meeting{
			Status: domain.StatusConfigured,
			Attendees: []domain.Attendee{
				{Name: "Alice", HourlyRate: 60},
				{Name: "Bob", HourlyRate: 120},
			},
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO meetings").
			WithArgs("configured", sqlmock.AnyArg(), nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec("INSERT INTO attendees").
			WithArgs(42, 0, "Alice", 60.0).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO attendees").
			WithArgs(42, 1, "Bob", 120.0).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, meeting)

		require.NoError(t, err)
		assert.Equal(t, int64(42), meeting.ID)
		assert.False(t, meeting.CreatedAt.IsZero(), "CreatedAt должен быть установлен")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка вставки участника откатывает транзакцию", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)
		ctx := context.Background()

		meeting := &domain.Meeting{
			Status:    domain.StatusConfigured,
			Attendees: []domain.Attendee{{Name: "Alice", HourlyRate: 60}},
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO meetings").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("INSERT INTO attendees").
			WillReturnError(errors.New("check constraint violated"))
		mock.ExpectRollback()

		err := repo.Create(ctx, meeting)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Alice")
		assert.Zero(t, meeting.ID, "ID не должен присваиваться при ошибке")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка начала транзакции", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := repo.Create(context.Background(), &domain.Meeting{Status: domain.StatusConfigured})

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMeetingRepository_GetByID(t *testing.T) {
	t.Run("успешное получение запущенной встречи", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)
		ctx := context.Background()

		createdAt := time.Date(2024, 3, 1, 8, 55, 0, 0, time.UTC)
		startedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT id, status, created_at, started_at, ended_at FROM meetings WHERE id = \\$1").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(meetingColumns).AddRow(5, "running", createdAt, startedAt, nil))
		mock.ExpectQuery("SELECT name, hourly_rate FROM attendees").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"name", "hourly_rate"}).
				AddRow("Alice", 60.0).
				AddRow("Bob", 120.0))

		meeting, err := repo.GetByID(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, int64(5), meeting.ID)
		assert.Equal(t, domain.StatusRunning, meeting.Status)
		require.NotNil(t, meeting.StartedAt)
		assert.True(t, startedAt.Equal(*meeting.StartedAt))
		assert.Nil(t, meeting.EndedAt)
		assert.Equal(t, []domain.Attendee{
			{Name: "Alice", HourlyRate: 60},
			{Name: "Bob", HourlyRate: 120},
		}, meeting.Attendees)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: встреча не найдена", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectQuery("FROM meetings WHERE id = \\$1").
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows(meetingColumns))

		meeting, err := repo.GetByID(context.Background(), 999)

		assert.Nil(t, meeting)
		assert.ErrorIs(t, err, repository.ErrMeetingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMeetingRepository_GetActive(t *testing.T) {
	t.Run("возвращает последнюю запущенную встречу", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)
		startedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT id FROM meetings WHERE status = \\$1").
			WithArgs("running").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery("FROM meetings WHERE id = \\$1").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(meetingColumns).AddRow(3, "running", startedAt, startedAt, nil))
		mock.ExpectQuery("FROM attendees").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"name", "hourly_rate"}).AddRow("Alice", 60.0))

		meeting, err := repo.GetActive(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), meeting.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("нет запущенных встреч", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectQuery("SELECT id FROM meetings WHERE status = \\$1").
			WithArgs("running").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetActive(context.Background())

		assert.ErrorIs(t, err, repository.ErrMeetingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMeetingRepository_MarkStarted(t *testing.T) {
	startedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("успешный переход configured -> running", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectExec("UPDATE meetings SET status = \\$2, started_at = \\$3 WHERE id = \\$1 AND status = \\$4").
			WithArgs(1, "running", startedAt, "configured").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkStarted(context.Background(), 1, startedAt)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: встреча уже запущена", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectExec("UPDATE meetings SET status = \\$2, started_at = \\$3").
			WithArgs(1, "running", startedAt, "configured").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkStarted(context.Background(), 1, startedAt)

		assert.ErrorIs(t, err, repository.ErrStatusConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMeetingRepository_MarkEnded(t *testing.T) {
	endedAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("успешный переход running -> ended", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectExec("UPDATE meetings SET status = \\$2, ended_at = \\$3 WHERE id = \\$1 AND status = \\$4").
			WithArgs(1, "ended", endedAt, "running").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkEnded(context.Background(), 1, endedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка базы данных пробрасывается", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)
		dbErr := errors.New("connection reset")

		mock.ExpectExec("UPDATE meetings SET status = \\$2, ended_at = \\$3").
			WillReturnError(dbErr)

		err := repo.MarkEnded(context.Background(), 1, endedAt)

		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMeetingRepository_Delete(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectExec("DELETE FROM meetings WHERE id = \\$1").
			WithArgs(4).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: встреча не найдена", func(t *testing.T) {
		repo, mock := setupMeetingRepo(t)

		mock.ExpectExec("DELETE FROM meetings WHERE id = \\$1").
			WithArgs(4).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 4), repository.ErrMeetingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
