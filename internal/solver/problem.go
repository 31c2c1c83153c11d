package solver

import (
	"time"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

// Slot is the flattened, immutable view of one teaching interval together
// with the ownership chain the constraints need (day, group).
type Slot struct {
	ID        int64
	Topic     string
	StartAt   time.Time
	EndAt     time.Time
	SubjectID int64
	GroupID   int64
	DayID     int64
	DayLabel  models.DayLabel
}

// Overlaps tests the half-open intervals [StartAt, EndAt) of both slots.
func (s Slot) Overlaps(o Slot) bool {
	return s.StartAt.Before(o.EndAt) && o.StartAt.Before(s.EndAt)
}

// SlotAssignment pairs one slot with a mutable candidate trainer. Trainer is
// nil for an unstaffed slot; when set it always points at one of the
// problem's materialized trainer facts.
type SlotAssignment struct {
	Slot    Slot
	Trainer *Trainer
}

// Problem is one optimization run's in-memory state: the read-only trainer
// value range plus the mutable assignment list.
type Problem struct {
	Trainers    []*Trainer
	Assignments []*SlotAssignment
	Score       Score
}

// BuildProblem flattens a fully loaded schedule into decision variables and
// resolves every persisted trainer reference to the canonical *Trainer built
// from the trainer list, so identity comparisons inside the constraints are
// always against the same instances. Trainers without a single qualification
// are excluded from the value range; they can never satisfy the qualification
// rule.
func BuildProblem(schedule *models.Schedule, trainers []models.Trainer) *Problem {
	canonical := make(map[int64]*Trainer, len(trainers))
	valueRange := make([]*Trainer, 0, len(trainers))
	for _, m := range trainers {
		t := NewTrainer(m)
		canonical[t.ID] = t
		if t.QualifiedSubjects() > 0 {
			valueRange = append(valueRange, t)
		}
	}

	var assignments []*SlotAssignment
	for _, week := range schedule.Weeks {
		for _, day := range week.Days {
			for _, slot := range day.Slots {
				a := &SlotAssignment{
					Slot: Slot{
						ID:        slot.ID,
						Topic:     slot.Topic,
						StartAt:   slot.StartAt,
						EndAt:     slot.EndAt,
						SubjectID: slot.SubjectID,
						GroupID:   schedule.GroupID,
						DayID:     day.ID,
						DayLabel:  day.Label,
					},
				}
				if slot.TrainerID != nil {
					a.Trainer = canonical[*slot.TrainerID]
				}
				assignments = append(assignments, a)
			}
		}
	}

	return &Problem{Trainers: valueRange, Assignments: assignments}
}

// AssignedCount returns how many slots currently have a trainer.
func (p *Problem) AssignedCount() int {
	count := 0
	for _, a := range p.Assignments {
		if a.Trainer != nil {
			count++
		}
	}
	return count
}

// UsedTrainerCount returns how many distinct trainers hold at least one slot.
func (p *Problem) UsedTrainerCount() int {
	used := make(map[int64]struct{})
	for _, a := range p.Assignments {
		if a.Trainer != nil {
			used[a.Trainer.ID] = struct{}{}
		}
	}
	return len(used)
}
