package models

// DayLabel names a weekday the way schedules store it.
type DayLabel string

const (
	DayMonday    DayLabel = "MONDAY"
	DayTuesday   DayLabel = "TUESDAY"
	DayWednesday DayLabel = "WEDNESDAY"
	DayThursday  DayLabel = "THURSDAY"
	DayFriday    DayLabel = "FRIDAY"
	DaySaturday  DayLabel = "SATURDAY"
	DaySunday    DayLabel = "SUNDAY"
)

// CoursePair marks a trainer as the designated main trainer for a group and
// subject combination.
type CoursePair struct {
	GroupID   int64 `db:"group_id" json:"group_id"`
	SubjectID int64 `db:"subject_id" json:"subject_id"`
}

// Trainer is a fully materialized trainer fact. All collections are resolved
// before a solve starts; the solver never loads anything lazily.
type Trainer struct {
	ID        int64  `db:"trainer_id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`

	Subjects         []int64      `json:"subjects"`
	WorkDays         []DayLabel   `json:"work_days"`
	Holidays         []string     `json:"holidays"`          // ISO dates (2006-01-02)
	UnavailableDates []string     `json:"unavailable_dates"` // ISO dates
	MainCourses      []CoursePair `json:"main_courses"`
}

// FullName joins first and last name for reporting.
func (t Trainer) FullName() string {
	if t.FirstName == "" {
		return t.LastName
	}
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}
