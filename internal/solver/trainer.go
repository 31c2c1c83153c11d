package solver

import (
	"time"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

const dateLayout = "2006-01-02"

// Trainer is the solver-side view of a trainer fact. All sets are plain maps
// so constraint predicates are O(1) lookups with no I/O.
type Trainer struct {
	ID   int64
	Name string

	subjects    map[int64]struct{}
	workDays    map[models.DayLabel]struct{}
	holidays    map[string]struct{}
	unavailable map[string]struct{}
	mainCourses map[models.CoursePair]struct{}
}

// NewTrainer copies a materialized trainer record into solver form.
func NewTrainer(m models.Trainer) *Trainer {
	t := &Trainer{
		ID:          m.ID,
		Name:        m.FullName(),
		subjects:    make(map[int64]struct{}, len(m.Subjects)),
		workDays:    make(map[models.DayLabel]struct{}, len(m.WorkDays)),
		holidays:    make(map[string]struct{}, len(m.Holidays)),
		unavailable: make(map[string]struct{}, len(m.UnavailableDates)),
		mainCourses: make(map[models.CoursePair]struct{}, len(m.MainCourses)),
	}
	for _, id := range m.Subjects {
		t.subjects[id] = struct{}{}
	}
	for _, day := range m.WorkDays {
		t.workDays[day] = struct{}{}
	}
	for _, date := range m.Holidays {
		t.holidays[date] = struct{}{}
	}
	for _, date := range m.UnavailableDates {
		t.unavailable[date] = struct{}{}
	}
	for _, course := range m.MainCourses {
		t.mainCourses[course] = struct{}{}
	}
	return t
}

// CanTeach reports whether the trainer is qualified for the subject.
func (t *Trainer) CanTeach(subjectID int64) bool {
	_, ok := t.subjects[subjectID]
	return ok
}

// QualifiedSubjects returns how many subjects the trainer can teach.
func (t *Trainer) QualifiedSubjects() int {
	return len(t.subjects)
}

// IsAvailable decides whether the trainer can work on the given date: the
// weekday must be one of the trainer's work days and the date must not fall
// on a holiday or an explicitly unavailable date.
func (t *Trainer) IsAvailable(date time.Time) bool {
	if _, ok := t.workDays[dayLabelFor(date.Weekday())]; !ok {
		return false
	}
	key := date.Format(dateLayout)
	if _, ok := t.holidays[key]; ok {
		return false
	}
	if _, ok := t.unavailable[key]; ok {
		return false
	}
	return true
}

// IsMainTrainer reports whether the trainer is the designated main trainer
// for the group/subject combination.
func (t *Trainer) IsMainTrainer(groupID, subjectID int64) bool {
	_, ok := t.mainCourses[models.CoursePair{GroupID: groupID, SubjectID: subjectID}]
	return ok
}

func dayLabelFor(d time.Weekday) models.DayLabel {
	switch d {
	case time.Monday:
		return models.DayMonday
	case time.Tuesday:
		return models.DayTuesday
	case time.Wednesday:
		return models.DayWednesday
	case time.Thursday:
		return models.DayThursday
	case time.Friday:
		return models.DayFriday
	case time.Saturday:
		return models.DaySaturday
	default:
		return models.DaySunday
	}
}
