package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coderscenter/training-optimizer-api/internal/dto"
	"github.com/coderscenter/training-optimizer-api/internal/models"
	"github.com/coderscenter/training-optimizer-api/internal/solver"
	"github.com/coderscenter/training-optimizer-api/pkg/errors"
)

type scheduleStore interface {
	LoadFullSchedule(ctx context.Context, id int64) (*models.Schedule, error)
	UpdateSlotTrainer(ctx context.Context, slotID int64, trainerID *int64) error
}

type trainerStore interface {
	LoadAllMaterialized(ctx context.Context) ([]models.Trainer, error)
}

type solveMetrics interface {
	JobStarted()
	ObserveSolve(status models.JobStatus, duration time.Duration)
}

// OptimizationConfig tunes the solver budget and constraint weights.
type OptimizationConfig struct {
	SolveBudget    time.Duration
	MaxSolveBudget time.Duration
	Weights        solver.Weights
}

// OptimizationService owns the optimization job lifecycle: it materializes the
// problem synchronously so submit can fail fast, runs the solve on a
// background goroutine, and exposes job snapshots for polling, cancellation,
// and write-back.
type OptimizationService struct {
	schedules scheduleStore
	trainers  trainerStore
	jobs      *JobStore
	metrics   solveMetrics
	cfg       OptimizationConfig
	validate  *validator.Validate
	logger    *zap.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewOptimizationService constructs the optimization orchestrator. metrics may
// be nil.
func NewOptimizationService(schedules scheduleStore, trainers trainerStore, jobs *JobStore, metrics solveMetrics, cfg OptimizationConfig, logger *zap.Logger) *OptimizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SolveBudget <= 0 {
		cfg.SolveBudget = 30 * time.Second
	}
	if cfg.MaxSolveBudget <= 0 {
		cfg.MaxSolveBudget = 10 * time.Minute
	}
	return &OptimizationService{
		schedules: schedules,
		trainers:  trainers,
		jobs:      jobs,
		metrics:   metrics,
		cfg:       cfg,
		validate:  validator.New(),
		logger:    logger,
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Submit materializes the schedule and trainer facts, registers a RUNNING job,
// and launches the solve in the background. Missing schedules and invalid
// payloads are reported synchronously; after this returns the caller only ever
// observes the job through polling.
func (s *OptimizationService) Submit(ctx context.Context, scheduleID int64, req dto.OptimizeRequest) (dto.JobResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.JobResponse{}, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "invalid optimization request")
	}

	schedule, err := s.schedules.LoadFullSchedule(ctx, scheduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return dto.JobResponse{}, errors.Clone(errors.ErrScheduleNotFound, fmt.Sprintf("schedule %d not found", scheduleID))
		}
		return dto.JobResponse{}, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "failed to load schedule")
	}

	trainers, err := s.trainers.LoadAllMaterialized(ctx)
	if err != nil {
		return dto.JobResponse{}, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "failed to load trainers")
	}

	problem := solver.BuildProblem(schedule, trainers)

	budget := s.cfg.SolveBudget
	if req.MaxRuntimeSeconds > 0 {
		budget = time.Duration(req.MaxRuntimeSeconds) * time.Second
		if budget > s.cfg.MaxSolveBudget {
			budget = s.cfg.MaxSolveBudget
		}
	}

	job := models.OptimizationJob{
		ID:            uuid.NewString(),
		ScheduleID:    scheduleID,
		Status:        models.JobStatusRunning,
		CreatedAt:     time.Now().UTC(),
		Message:       "optimization started",
		TotalSlots:    len(problem.Assignments),
		TotalTrainers: len(problem.Trainers),
	}
	s.jobs.Put(job)

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[job.ID] = cancel
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.JobStarted()
	}
	s.logger.Sugar().Infow("optimization job submitted",
		"job_id", job.ID, "schedule_id", scheduleID,
		"slots", job.TotalSlots, "trainers", job.TotalTrainers, "budget", budget)

	go s.run(runCtx, job.ID, problem, budget)

	return dto.JobFromModel(job), nil
}

func (s *OptimizationService) run(ctx context.Context, jobID string, problem *solver.Problem, budget time.Duration) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Sugar().Errorw("optimization job panicked", "job_id", jobID, "panic", r)
			s.fail(jobID, fmt.Sprintf("optimization failed: %v", r))
		}
		s.mu.Lock()
		if cancel, ok := s.cancels[jobID]; ok {
			cancel()
			delete(s.cancels, jobID)
		}
		s.mu.Unlock()
	}()

	s.progress(jobID, 10, "initializing solver")

	score := solver.Solve(ctx, problem, solver.Config{
		TimeBudget: budget,
		Weights:    s.cfg.Weights,
	})

	s.progress(jobID, 90, "post-processing results")

	assigned := problem.AssignedCount()
	percentage := 0.0
	if len(problem.Assignments) > 0 {
		percentage = float64(assigned) / float64(len(problem.Assignments)) * 100
	}
	feasible := score.Feasible()
	results := collectResults(problem)
	report := buildReport(problem, score)

	updated, ok := s.jobs.Update(jobID, func(j *models.OptimizationJob) bool {
		// A cancel that landed during the solve wins; the record stands.
		if j.Status != models.JobStatusRunning {
			return false
		}
		now := time.Now().UTC()
		j.Status = models.JobStatusCompleted
		j.CompletedAt = &now
		j.Progress = 100
		j.Feasible = &feasible
		j.Score = score.String()
		j.Message = "optimization completed"
		j.AssignedSlots = assigned
		j.AssignedPercentage = percentage
		j.Report = report
		j.Assignments = results
		return true
	})
	if !ok {
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveSolve(updated.Status, time.Since(start))
	}
	s.logger.Sugar().Infow("optimization job finished",
		"job_id", jobID, "status", updated.Status, "score", score.String(),
		"assigned", assigned, "duration", time.Since(start))
}

// progress bumps the milestone on a still-running job.
func (s *OptimizationService) progress(jobID string, pct int, message string) {
	s.jobs.Update(jobID, func(j *models.OptimizationJob) bool {
		if j.Status != models.JobStatusRunning {
			return false
		}
		j.Progress = pct
		j.Message = message
		return true
	})
}

func (s *OptimizationService) fail(jobID, message string) {
	feasible := false
	s.jobs.Update(jobID, func(j *models.OptimizationJob) bool {
		if j.Status.Terminal() {
			return false
		}
		now := time.Now().UTC()
		j.Status = models.JobStatusFailed
		j.CompletedAt = &now
		j.Progress = 100
		j.Feasible = &feasible
		j.Message = message
		return true
	})
}

// Status returns the current job snapshot.
func (s *OptimizationService) Status(ctx context.Context, jobID string) (dto.JobResponse, error) {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		return dto.JobResponse{}, errors.Clone(errors.ErrJobNotFound, fmt.Sprintf("optimization job %s not found", jobID))
	}
	return dto.JobFromModel(job), nil
}

// Cancel requests cooperative termination. Cancelling an already terminal job
// is a no-op that returns the unchanged snapshot.
func (s *OptimizationService) Cancel(ctx context.Context, jobID string) (dto.JobResponse, error) {
	job, ok := s.jobs.Update(jobID, func(j *models.OptimizationJob) bool {
		if j.Status.Terminal() {
			return false
		}
		now := time.Now().UTC()
		j.Status = models.JobStatusCancelled
		j.CompletedAt = &now
		j.Message = "optimization cancelled"
		return true
	})
	if !ok {
		return dto.JobResponse{}, errors.Clone(errors.ErrJobNotFound, fmt.Sprintf("optimization job %s not found", jobID))
	}

	s.mu.Lock()
	if cancel, exists := s.cancels[jobID]; exists {
		cancel()
	}
	s.mu.Unlock()

	s.logger.Sugar().Infow("optimization job cancelled", "job_id", jobID)
	return dto.JobFromModel(job), nil
}

// Apply writes a completed job's assignments back to the schedule. Only slots
// whose persisted trainer differs from the optimized one are touched, which
// makes a second apply of the same job a no-op.
func (s *OptimizationService) Apply(ctx context.Context, jobID string, scheduleID int64) (dto.ApplyResponse, error) {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		return dto.ApplyResponse{}, errors.Clone(errors.ErrJobNotFound, fmt.Sprintf("optimization job %s not found", jobID))
	}
	if job.Status != models.JobStatusCompleted || job.Feasible == nil || !*job.Feasible {
		return dto.ApplyResponse{}, errors.Clone(errors.ErrJobNotApplicable,
			fmt.Sprintf("cannot apply optimization job %s: status %s is not a feasible completion", jobID, job.Status))
	}
	if job.ScheduleID != scheduleID {
		return dto.ApplyResponse{}, errors.Clone(errors.ErrJobNotApplicable,
			fmt.Sprintf("optimization job %s was solved for schedule %d, not %d", jobID, job.ScheduleID, scheduleID))
	}

	schedule, err := s.schedules.LoadFullSchedule(ctx, scheduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return dto.ApplyResponse{}, errors.Clone(errors.ErrScheduleNotFound, fmt.Sprintf("schedule %d not found", scheduleID))
		}
		return dto.ApplyResponse{}, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "failed to load schedule")
	}

	current := make(map[int64]*int64, schedule.SlotCount())
	for _, week := range schedule.Weeks {
		for _, day := range week.Days {
			for _, slot := range day.Slots {
				current[slot.ID] = slot.TrainerID
			}
		}
	}

	changed := 0
	for _, result := range job.Assignments {
		persisted, exists := current[result.SlotID]
		if !exists {
			// Slot removed since the solve; nothing to write.
			continue
		}
		if sameTrainer(persisted, result.TrainerID) {
			continue
		}
		if err := s.schedules.UpdateSlotTrainer(ctx, result.SlotID, result.TrainerID); err != nil {
			return dto.ApplyResponse{}, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status,
				fmt.Sprintf("failed to update slot %d", result.SlotID))
		}
		changed++
	}

	s.logger.Sugar().Infow("optimization job applied",
		"job_id", jobID, "schedule_id", scheduleID, "changed_slots", changed)

	return dto.ApplyResponse{
		JobID:        jobID,
		ScheduleID:   scheduleID,
		Applied:      true,
		ChangedSlots: changed,
		Message:      fmt.Sprintf("%d trainer assignments updated", changed),
		Summary:      fmt.Sprintf("Score: %s. Assigned %d of %d slots (%.1f%%).", job.Score, job.AssignedSlots, job.TotalSlots, job.AssignedPercentage),
	}, nil
}

// Result returns the full job record including the report and assignment list.
func (s *OptimizationService) Result(ctx context.Context, jobID string) (models.OptimizationJob, error) {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		return models.OptimizationJob{}, errors.Clone(errors.ErrJobNotFound, fmt.Sprintf("optimization job %s not found", jobID))
	}
	if job.Status != models.JobStatusCompleted {
		return models.OptimizationJob{}, errors.Clone(errors.ErrJobNotApplicable,
			fmt.Sprintf("optimization job %s has no results: status %s", jobID, job.Status))
	}
	return job, nil
}

// DebugJobs lists every known job with its status and creation time.
func (s *OptimizationService) DebugJobs(ctx context.Context) map[string]string {
	out := make(map[string]string)
	for id, job := range s.jobs.Snapshot() {
		out[id] = fmt.Sprintf("%s (created: %s)", job.Status, job.CreatedAt.Format(time.RFC3339))
	}
	return out
}

func collectResults(p *solver.Problem) []models.AssignmentResult {
	results := make([]models.AssignmentResult, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		result := models.AssignmentResult{
			SlotID:    a.Slot.ID,
			Topic:     a.Slot.Topic,
			StartAt:   a.Slot.StartAt,
			EndAt:     a.Slot.EndAt,
			SubjectID: a.Slot.SubjectID,
		}
		if a.Trainer != nil {
			id := a.Trainer.ID
			result.TrainerID = &id
			result.TrainerName = a.Trainer.Name
		}
		results = append(results, result)
	}
	return results
}

func buildReport(p *solver.Problem, score solver.Score) string {
	var b strings.Builder
	b.WriteString("OPTIMIZATION COMPLETE\n\n")
	fmt.Fprintf(&b, "Score: %s\n", score)
	fmt.Fprintf(&b, "- hard score: %d (rule violations)\n", score.Hard)
	fmt.Fprintf(&b, "- soft score: %d (solution quality)\n\n", score.Soft)

	assigned := p.AssignedCount()
	total := len(p.Assignments)
	percentage := 0.0
	if total > 0 {
		percentage = float64(assigned) / float64(total) * 100
	}
	fmt.Fprintf(&b, "Assigned slots: %d of %d (%.1f%%)\n", assigned, total, percentage)
	fmt.Fprintf(&b, "Trainers used: %d of %d\n\n", p.UsedTrainerCount(), len(p.Trainers))

	b.WriteString("Criteria:\n")
	b.WriteString("- subject qualification enforced\n")
	b.WriteString("- trainer availability checked\n")
	b.WriteString("- overlapping slots avoided\n")
	b.WriteString("- workload balanced across trainers\n")
	b.WriteString("- main trainers preferred\n\n")

	if score.Feasible() {
		b.WriteString("Status: feasible solution found\n")
	} else {
		b.WriteString("Status: no feasible solution found within the time budget\n")
	}
	return b.String()
}

func sameTrainer(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
