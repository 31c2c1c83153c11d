package models

import "time"

// JobStatus captures optimization job lifecycle states. RUNNING transitions
// exactly once into one of the three terminal states and never back.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// AssignmentResult is one slot/trainer pairing from a finished solve. TrainerID
// nil means the optimizer left the slot unstaffed.
type AssignmentResult struct {
	SlotID      int64     `json:"slot_id"`
	Topic       string    `json:"topic"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	SubjectID   int64     `json:"subject_id"`
	TrainerID   *int64    `json:"trainer_id,omitempty"`
	TrainerName string    `json:"trainer_name,omitempty"`
}

// OptimizationJob is one asynchronous optimization run. Snapshots of this
// record are what pollers observe; every update replaces the whole record.
type OptimizationJob struct {
	ID          string     `json:"id"`
	ScheduleID  int64      `json:"schedule_id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Progress    int        `json:"progress"`
	Feasible    *bool      `json:"feasible,omitempty"`
	Score       string     `json:"score,omitempty"`
	Message     string     `json:"message"`

	TotalSlots         int     `json:"total_slots"`
	TotalTrainers      int     `json:"total_trainers"`
	AssignedSlots      int     `json:"assigned_slots"`
	AssignedPercentage float64 `json:"assigned_percentage"`

	Report      string             `json:"report,omitempty"`
	Assignments []AssignmentResult `json:"-"`
}
