package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

var allWorkDays = []models.DayLabel{
	models.DayMonday, models.DayTuesday, models.DayWednesday,
	models.DayThursday, models.DayFriday, models.DaySaturday, models.DaySunday,
}

func fullTimeTrainer(id int64, subjects ...int64) *Trainer {
	return NewTrainer(models.Trainer{
		ID:       id,
		Subjects: subjects,
		WorkDays: allWorkDays,
	})
}

// slotAt builds a one-hour slot on the given day entity.
func slotAt(id, dayID int64, label models.DayLabel, start time.Time, subjectID int64) Slot {
	return Slot{
		ID:        id,
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
		SubjectID: subjectID,
		GroupID:   1,
		DayID:     dayID,
		DayLabel:  label,
	}
}

func TestEvaluateEmptyAssignments(t *testing.T) {
	p := &Problem{}
	assert.Equal(t, Score{}, Evaluate(p, DefaultWeights()))
}

func TestEvaluateUnassignedSlotsAreNeutral(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := &Problem{
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10)},
			{Slot: slotAt(2, 1, models.DayMonday, monday.Add(2*time.Hour), 10)},
		},
	}
	assert.Equal(t, Score{}, Evaluate(p, DefaultWeights()))
}

func TestEvaluateQualificationViolation(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := fullTimeTrainer(1, 20)
	p := &Problem{
		Trainers: []*Trainer{trainer},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: trainer},
		},
	}

	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, -1, score.Hard)
	// Workload penalty: one slot against an ideal of four.
	assert.Equal(t, -3, score.Soft)
	assert.False(t, score.Feasible())
}

func TestEvaluateAvailabilityViolation(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := NewTrainer(models.Trainer{
		ID:       1,
		Subjects: []int64{10},
		WorkDays: []models.DayLabel{models.DayTuesday},
	})
	p := &Problem{
		Trainers: []*Trainer{trainer},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: trainer},
		},
	}

	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, -1, score.Hard)
}

func TestEvaluateDoubleBookingCountedPerPair(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := fullTimeTrainer(1, 10)

	// Two fully overlapping slots: exactly one violating pair.
	p := &Problem{
		Trainers: []*Trainer{trainer},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: trainer},
			{Slot: slotAt(2, 1, models.DayMonday, monday, 10), Trainer: trainer},
		},
	}
	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, -1, score.Hard)
}

func TestEvaluateBackToBackSlotsDoNotOverlap(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := fullTimeTrainer(1, 10)

	// [9,10) and [10,11) share only the boundary instant.
	p := &Problem{
		Trainers: []*Trainer{trainer},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: trainer},
			{Slot: slotAt(2, 1, models.DayMonday, monday.Add(time.Hour), 10), Trainer: trainer},
		},
	}
	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, 0, score.Hard)
}

func TestEvaluateWorkloadAtIdealHasNoPenalty(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := fullTimeTrainer(1, 10)

	// Four slots on four different days, one subject lesson per day.
	labels := []models.DayLabel{models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday}
	assignments := make([]*SlotAssignment, 0, 4)
	for i, label := range labels {
		slot := slotAt(int64(i+1), int64(i+1), label, monday.AddDate(0, 0, i), 10)
		assignments = append(assignments, &SlotAssignment{Slot: slot, Trainer: trainer})
	}
	p := &Problem{Trainers: []*Trainer{trainer}, Assignments: assignments}

	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, Score{Hard: 0, Soft: 0}, score)
	assert.True(t, score.Feasible())
}

func TestEvaluateSubjectDayGroupingPenalty(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := fullTimeTrainer(1, 10)

	// Three non-overlapping lessons of the same subject on one Monday:
	// grouping penalty -|3-1| = -2, workload penalty -|3-4| = -1.
	p := &Problem{
		Trainers: []*Trainer{trainer},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: trainer},
			{Slot: slotAt(2, 1, models.DayMonday, monday.Add(time.Hour), 10), Trainer: trainer},
			{Slot: slotAt(3, 1, models.DayMonday, monday.Add(2*time.Hour), 10), Trainer: trainer},
		},
	}
	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, 0, score.Hard)
	assert.Equal(t, -3, score.Soft)
}

func TestEvaluateMainTrainerReward(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	trainer := NewTrainer(models.Trainer{
		ID:          1,
		Subjects:    []int64{10},
		WorkDays:    allWorkDays,
		MainCourses: []models.CoursePair{{GroupID: 1, SubjectID: 10}},
	})
	p := &Problem{
		Trainers: []*Trainer{trainer},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: trainer},
		},
	}

	// Reward +10, workload -3.
	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, 0, score.Hard)
	assert.Equal(t, 7, score.Soft)
}

func TestEvaluateTrainerSwitchingPenalty(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := fullTimeTrainer(1, 10)
	b := fullTimeTrainer(2, 10)

	// Same day entity, same subject, two different trainers: one mixed pair.
	p := &Problem{
		Trainers: []*Trainer{a, b},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: a},
			{Slot: slotAt(2, 1, models.DayMonday, monday.Add(time.Hour), 10), Trainer: b},
		},
	}
	score := Evaluate(p, DefaultWeights())
	assert.Equal(t, 0, score.Hard)
	// Switching -1, workload -3 each.
	assert.Equal(t, -7, score.Soft)
}

func TestEvaluateSwitchingIgnoresDifferentDays(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := fullTimeTrainer(1, 10)
	b := fullTimeTrainer(2, 10)

	p := &Problem{
		Trainers: []*Trainer{a, b},
		Assignments: []*SlotAssignment{
			{Slot: slotAt(1, 1, models.DayMonday, monday, 10), Trainer: a},
			{Slot: slotAt(2, 2, models.DayTuesday, monday.AddDate(0, 0, 1), 10), Trainer: b},
		},
	}
	score := Evaluate(p, DefaultWeights())
	// Only workload penalties remain.
	assert.Equal(t, -6, score.Soft)
}

func TestScoreBetterIsLexicographic(t *testing.T) {
	assert.True(t, Score{Hard: 0, Soft: -100}.Better(Score{Hard: -1, Soft: 50}))
	assert.True(t, Score{Hard: -1, Soft: 5}.Better(Score{Hard: -1, Soft: 4}))
	assert.False(t, Score{Hard: -2, Soft: 100}.Better(Score{Hard: -1, Soft: -100}))
	assert.False(t, Score{Hard: 0, Soft: 3}.Better(Score{Hard: 0, Soft: 3}))
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "-2hard/-13soft", Score{Hard: -2, Soft: -13}.String())
	assert.Equal(t, "0hard/7soft", Score{Hard: 0, Soft: 7}.String())
}
