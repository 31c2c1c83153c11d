package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"schedule_id", "name", "group_id"}).
		AddRow(int64(100), "Spring cohort", int64(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, name, group_id FROM schedules WHERE schedule_id = $1")).
		WithArgs(int64(100)).
		WillReturnRows(rows)

	schedule, err := repo.FindByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), schedule.ID)
	assert.Equal(t, "Spring cohort", schedule.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, name, group_id FROM schedules WHERE schedule_id = $1")).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScheduleRepositoryLoadFullSchedule(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	trainerID := int64(7)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, name, group_id FROM schedules WHERE schedule_id = $1")).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "name", "group_id"}).
			AddRow(int64(100), "Spring cohort", int64(1)))

	mock.ExpectQuery("SELECT week_id, label, start_date FROM weeks").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"week_id", "label", "start_date"}).
			AddRow(int64(1), "Week 1", monday))

	mock.ExpectQuery("SELECT d.day_id, d.week_id, d.label, d.day_date").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"day_id", "week_id", "label", "day_date"}).
			AddRow(int64(1), int64(1), "MONDAY", monday).
			AddRow(int64(2), int64(1), "TUESDAY", monday.AddDate(0, 0, 1)))

	mock.ExpectQuery("SELECT s.slot_id, s.day_id, s.topic, s.start_at, s.end_at, s.subject_id, s.trainer_id").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"slot_id", "day_id", "topic", "start_at", "end_at", "subject_id", "trainer_id"}).
			AddRow(int64(1), int64(1), "Intro", monday.Add(9*time.Hour), monday.Add(10*time.Hour), int64(10), &trainerID).
			AddRow(int64(2), int64(2), "Practice", monday.AddDate(0, 0, 1).Add(9*time.Hour), monday.AddDate(0, 0, 1).Add(10*time.Hour), int64(20), nil))

	schedule, err := repo.LoadFullSchedule(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, schedule.Weeks, 1)
	require.Len(t, schedule.Weeks[0].Days, 2)

	mondaySlots := schedule.Weeks[0].Days[0].Slots
	require.Len(t, mondaySlots, 1)
	require.NotNil(t, mondaySlots[0].TrainerID)
	assert.Equal(t, int64(7), *mondaySlots[0].TrainerID)

	tuesdaySlots := schedule.Weeks[0].Days[1].Slots
	require.Len(t, tuesdaySlots, 1)
	assert.Nil(t, tuesdaySlots[0].TrainerID)

	assert.Equal(t, 2, schedule.SlotCount())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateSlotTrainer(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	trainerID := int64(7)
	mock.ExpectExec("UPDATE slots SET trainer_id").
		WithArgs(int64(1), int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSlotTrainer(context.Background(), 1, &trainerID))

	mock.ExpectExec("UPDATE slots SET trainer_id").
		WithArgs(int64(2), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSlotTrainer(context.Background(), 2, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
