package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

// TrainerRepository manages persistence for trainers.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository constructs a TrainerRepository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

type subjectPairRow struct {
	TrainerID int64 `db:"trainer_id"`
	SubjectID int64 `db:"subject_id"`
}

type workDayRow struct {
	TrainerID int64           `db:"trainer_id"`
	Label     models.DayLabel `db:"day_label"`
}

type dateRow struct {
	TrainerID int64     `db:"trainer_id"`
	Date      time.Time `db:"date"`
}

type courseRow struct {
	TrainerID int64 `db:"trainer_id"`
	GroupID   int64 `db:"group_id"`
	SubjectID int64 `db:"subject_id"`
}

// LoadAllMaterialized loads every trainer with qualifications, work days,
// holidays, unavailable dates, and main-course designations fully resolved,
// so the optimizer never needs another round trip.
func (r *TrainerRepository) LoadAllMaterialized(ctx context.Context) ([]models.Trainer, error) {
	const trainerQuery = `SELECT trainer_id, first_name, last_name FROM trainers ORDER BY trainer_id`
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, trainerQuery); err != nil {
		return nil, fmt.Errorf("load trainers: %w", err)
	}

	index := make(map[int64]*models.Trainer, len(trainers))
	for i := range trainers {
		index[trainers[i].ID] = &trainers[i]
	}

	const subjectQuery = `SELECT trainer_id, subject_id FROM trainer_subjects`
	var subjects []subjectPairRow
	if err := r.db.SelectContext(ctx, &subjects, subjectQuery); err != nil {
		return nil, fmt.Errorf("load trainer subjects: %w", err)
	}
	for _, row := range subjects {
		if t, ok := index[row.TrainerID]; ok {
			t.Subjects = append(t.Subjects, row.SubjectID)
		}
	}

	const workDayQuery = `SELECT trainer_id, day_label FROM trainer_work_days`
	var workDays []workDayRow
	if err := r.db.SelectContext(ctx, &workDays, workDayQuery); err != nil {
		return nil, fmt.Errorf("load trainer work days: %w", err)
	}
	for _, row := range workDays {
		if t, ok := index[row.TrainerID]; ok {
			t.WorkDays = append(t.WorkDays, row.Label)
		}
	}

	const holidayQuery = `SELECT trainer_id, holiday_date AS date FROM trainer_holidays`
	var holidays []dateRow
	if err := r.db.SelectContext(ctx, &holidays, holidayQuery); err != nil {
		return nil, fmt.Errorf("load trainer holidays: %w", err)
	}
	for _, row := range holidays {
		if t, ok := index[row.TrainerID]; ok {
			t.Holidays = append(t.Holidays, row.Date.Format("2006-01-02"))
		}
	}

	const unavailableQuery = `SELECT trainer_id, unavailable_date AS date FROM trainer_unavailable_dates`
	var unavailable []dateRow
	if err := r.db.SelectContext(ctx, &unavailable, unavailableQuery); err != nil {
		return nil, fmt.Errorf("load trainer unavailable dates: %w", err)
	}
	for _, row := range unavailable {
		if t, ok := index[row.TrainerID]; ok {
			t.UnavailableDates = append(t.UnavailableDates, row.Date.Format("2006-01-02"))
		}
	}

	const courseQuery = `SELECT trainer_id, group_id, subject_id FROM courses`
	var courses []courseRow
	if err := r.db.SelectContext(ctx, &courses, courseQuery); err != nil {
		return nil, fmt.Errorf("load trainer courses: %w", err)
	}
	for _, row := range courses {
		if t, ok := index[row.TrainerID]; ok {
			t.MainCourses = append(t.MainCourses, models.CoursePair{GroupID: row.GroupID, SubjectID: row.SubjectID})
		}
	}

	return trainers, nil
}
