package dto

import (
	"time"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

// OptimizeRequest is the optional submit payload.
type OptimizeRequest struct {
	MaxRuntimeSeconds int `json:"maxRuntimeSeconds" validate:"omitempty,min=5,max=600"`
}

// JobResponse is the job snapshot returned by submit, status, and cancel.
type JobResponse struct {
	JobID              string           `json:"jobId"`
	ScheduleID         int64            `json:"scheduleId"`
	Status             models.JobStatus `json:"status"`
	CreatedAt          time.Time        `json:"createdAt"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
	Progress           int              `json:"progress"`
	Feasible           *bool            `json:"feasible,omitempty"`
	Score              string           `json:"score,omitempty"`
	Message            string           `json:"message"`
	TotalSlots         int              `json:"totalSlots"`
	TotalTrainers      int              `json:"totalTrainers"`
	AssignedSlots      int              `json:"assignedSlots"`
	AssignedPercentage float64          `json:"assignedPercentage"`
}

// ApplyResponse summarises the write-back of an optimized assignment list.
type ApplyResponse struct {
	JobID        string `json:"jobId"`
	ScheduleID   int64  `json:"scheduleId"`
	Applied      bool   `json:"applied"`
	ChangedSlots int    `json:"changedSlots"`
	Message      string `json:"message"`
	Summary      string `json:"summary"`
}

// JobFromModel maps a job record onto the wire shape.
func JobFromModel(job models.OptimizationJob) JobResponse {
	return JobResponse{
		JobID:              job.ID,
		ScheduleID:         job.ScheduleID,
		Status:             job.Status,
		CreatedAt:          job.CreatedAt,
		CompletedAt:        job.CompletedAt,
		Progress:           job.Progress,
		Feasible:           job.Feasible,
		Score:              job.Score,
		Message:            job.Message,
		TotalSlots:         job.TotalSlots,
		TotalTrainers:      job.TotalTrainers,
		AssignedSlots:      job.AssignedSlots,
		AssignedPercentage: job.AssignedPercentage,
	}
}
