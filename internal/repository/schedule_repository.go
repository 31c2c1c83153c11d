package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

// ScheduleRepository manages persistence for schedules and their slot tree.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindByID fetches the schedule header row.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	const query = `SELECT schedule_id, name, group_id FROM schedules WHERE schedule_id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

type dayRow struct {
	ID     int64           `db:"day_id"`
	WeekID int64           `db:"week_id"`
	Label  models.DayLabel `db:"label"`
	Date   time.Time       `db:"day_date"`
}

type slotRow struct {
	ID        int64     `db:"slot_id"`
	DayID     int64     `db:"day_id"`
	Topic     string    `db:"topic"`
	StartAt   time.Time `db:"start_at"`
	EndAt     time.Time `db:"end_at"`
	SubjectID int64     `db:"subject_id"`
	TrainerID *int64    `db:"trainer_id"`
}

// LoadFullSchedule loads the schedule with all weeks, days, and slots eagerly
// resolved. This is the materialization boundary: after it returns, the solve
// never touches the database again.
func (r *ScheduleRepository) LoadFullSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const weekQuery = `SELECT week_id, label, start_date FROM weeks WHERE schedule_id = $1 ORDER BY start_date`
	var weeks []models.Week
	if err := r.db.SelectContext(ctx, &weeks, weekQuery, id); err != nil {
		return nil, fmt.Errorf("load weeks: %w", err)
	}

	const dayQuery = `SELECT d.day_id, d.week_id, d.label, d.day_date
		FROM days d JOIN weeks w ON w.week_id = d.week_id
		WHERE w.schedule_id = $1 ORDER BY d.day_date`
	var days []dayRow
	if err := r.db.SelectContext(ctx, &days, dayQuery, id); err != nil {
		return nil, fmt.Errorf("load days: %w", err)
	}

	const slotQuery = `SELECT s.slot_id, s.day_id, s.topic, s.start_at, s.end_at, s.subject_id, s.trainer_id
		FROM slots s JOIN days d ON d.day_id = s.day_id JOIN weeks w ON w.week_id = d.week_id
		WHERE w.schedule_id = $1 ORDER BY s.start_at`
	var slots []slotRow
	if err := r.db.SelectContext(ctx, &slots, slotQuery, id); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	slotsByDay := make(map[int64][]models.Slot, len(days))
	for _, row := range slots {
		slotsByDay[row.DayID] = append(slotsByDay[row.DayID], models.Slot{
			ID:        row.ID,
			Topic:     row.Topic,
			StartAt:   row.StartAt,
			EndAt:     row.EndAt,
			SubjectID: row.SubjectID,
			TrainerID: row.TrainerID,
		})
	}

	daysByWeek := make(map[int64][]models.Day, len(weeks))
	for _, row := range days {
		daysByWeek[row.WeekID] = append(daysByWeek[row.WeekID], models.Day{
			ID:    row.ID,
			Label: row.Label,
			Date:  row.Date,
			Slots: slotsByDay[row.ID],
		})
	}

	for i := range weeks {
		weeks[i].Days = daysByWeek[weeks[i].ID]
	}
	schedule.Weeks = weeks

	return schedule, nil
}

// UpdateSlotTrainer persists a new trainer assignment for one slot. A nil
// trainerID clears the assignment.
func (r *ScheduleRepository) UpdateSlotTrainer(ctx context.Context, slotID int64, trainerID *int64) error {
	const query = `UPDATE slots SET trainer_id = $2, updated_at = $3 WHERE slot_id = $1`
	if _, err := r.db.ExecContext(ctx, query, slotID, trainerID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update slot %d trainer: %w", slotID, err)
	}
	return nil
}
