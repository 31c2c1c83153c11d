package solver

import (
	"fmt"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

// Score ranks candidate solutions. Hard counts rule violations (always <= 0)
// and is compared before Soft; Soft aggregates quality penalties and rewards.
type Score struct {
	Hard int
	Soft int
}

// Feasible reports whether no hard rule is violated.
func (s Score) Feasible() bool {
	return s.Hard == 0
}

// Better implements the lexicographic comparison: any solution with a hard
// score closer to zero wins regardless of soft score.
func (s Score) Better(o Score) bool {
	if s.Hard != o.Hard {
		return s.Hard > o.Hard
	}
	return s.Soft > o.Soft
}

func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// Weights carries the configurable soft-rule parameters.
type Weights struct {
	IdealWorkload     int
	MainTrainerReward int
}

// DefaultWeights matches the production defaults.
func DefaultWeights() Weights {
	return Weights{IdealWorkload: 4, MainTrainerReward: 10}
}

func (w Weights) normalized() Weights {
	if w.IdealWorkload <= 0 {
		w.IdealWorkload = 4
	}
	if w.MainTrainerReward <= 0 {
		w.MainTrainerReward = 10
	}
	return w
}

type subjectDayKey struct {
	trainerID int64
	subjectID int64
	day       models.DayLabel
}

type switchKey struct {
	dayID     int64
	subjectID int64
}

// Evaluate scores the full assignment list.
//
// Hard rules, each violation -1:
//   - assigned trainer must be qualified for the slot's subject
//   - assigned trainer must be available on the slot's date
//   - one trainer cannot hold two overlapping slots (counted per pair)
//
// Soft rules:
//   - per (trainer, subject, day label) group: -|count-1|
//   - per trainer: -|count - IdealWorkload|
//   - main trainer on a slot of their group/subject: +MainTrainerReward
//   - per (day, subject) pair of slots held by different trainers: -1
//
// Unassigned slots violate nothing and earn nothing.
func Evaluate(p *Problem, w Weights) Score {
	w = w.normalized()

	var hard, soft int

	perSubjectDay := make(map[subjectDayKey]int)
	perTrainer := make(map[int64]int)
	byTrainer := make(map[int64][]*SlotAssignment)
	switchGroups := make(map[switchKey]map[int64]int)

	for _, a := range p.Assignments {
		if a.Trainer == nil {
			continue
		}
		if !a.Trainer.CanTeach(a.Slot.SubjectID) {
			hard--
		}
		if !a.Trainer.IsAvailable(a.Slot.StartAt) {
			hard--
		}
		if a.Trainer.IsMainTrainer(a.Slot.GroupID, a.Slot.SubjectID) {
			soft += w.MainTrainerReward
		}

		perSubjectDay[subjectDayKey{a.Trainer.ID, a.Slot.SubjectID, a.Slot.DayLabel}]++
		perTrainer[a.Trainer.ID]++
		byTrainer[a.Trainer.ID] = append(byTrainer[a.Trainer.ID], a)

		sk := switchKey{a.Slot.DayID, a.Slot.SubjectID}
		if switchGroups[sk] == nil {
			switchGroups[sk] = make(map[int64]int)
		}
		switchGroups[sk][a.Trainer.ID]++
	}

	for _, group := range byTrainer {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Slot.Overlaps(group[j].Slot) {
					hard--
				}
			}
		}
	}

	for _, count := range perSubjectDay {
		soft -= abs(count - 1)
	}
	for _, count := range perTrainer {
		soft -= abs(count - w.IdealWorkload)
	}

	// Pairs on the same day and subject with different trainers: total pairs
	// in the group minus same-trainer pairs.
	for _, counts := range switchGroups {
		total := 0
		same := 0
		for _, c := range counts {
			total += c
			same += c * (c - 1) / 2
		}
		soft -= total*(total-1)/2 - same
	}

	return Score{Hard: hard, Soft: soft}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
