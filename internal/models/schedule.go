package models

import "time"

// Schedule is the root of a multi-week timetable owned by one group.
type Schedule struct {
	ID      int64  `db:"schedule_id" json:"id"`
	Name    string `db:"name" json:"name"`
	GroupID int64  `db:"group_id" json:"group_id"`
	Weeks   []Week `json:"weeks"`
}

// Week groups the days of one calendar week.
type Week struct {
	ID        int64     `db:"week_id" json:"id"`
	Label     string    `db:"label" json:"label"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	Days      []Day     `json:"days"`
}

// Day holds the slots taught on one calendar date.
type Day struct {
	ID    int64     `db:"day_id" json:"id"`
	Label DayLabel  `db:"label" json:"label"`
	Date  time.Time `db:"day_date" json:"date"`
	Slots []Slot    `json:"slots"`
}

// Slot is an atomic teaching interval. StartAt/EndAt form a half-open
// interval on a single calendar day. TrainerID is the persisted assignment
// and may be nil for an unstaffed slot.
type Slot struct {
	ID        int64     `db:"slot_id" json:"id"`
	Topic     string    `db:"topic" json:"topic"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	EndAt     time.Time `db:"end_at" json:"end_at"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	TrainerID *int64    `db:"trainer_id" json:"trainer_id,omitempty"`
}

// SlotCount tallies slots across the whole week/day tree.
func (s Schedule) SlotCount() int {
	total := 0
	for _, week := range s.Weeks {
		for _, day := range week.Days {
			total += len(day.Slots)
		}
	}
	return total
}
