package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

const mirrorKeyPrefix = "optimizer:jobs:"

// JobStore is the in-memory job registry. Records are stored by value and
// every write replaces the whole record, so concurrent pollers always see a
// complete snapshot, never a partially updated one. An optional Redis mirror
// publishes each snapshot for out-of-process inspection; the map stays the
// source of truth.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.OptimizationJob

	mirror *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewJobStore constructs a job store. mirror may be nil.
func NewJobStore(mirror *redis.Client, ttl time.Duration, logger *zap.Logger) *JobStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JobStore{
		jobs:   make(map[string]models.OptimizationJob),
		mirror: mirror,
		ttl:    ttl,
		logger: logger,
	}
}

// Put stores a new job snapshot.
func (s *JobStore) Put(job models.OptimizationJob) {
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	s.publish(job)
}

// Get returns the current snapshot for the job id.
func (s *JobStore) Get(id string) (models.OptimizationJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Update applies fn to a copy of the record and swaps the whole record in
// only when fn returns true. The returned snapshot reflects the stored state
// after the call, whether or not fn modified it. This is how terminal states
// are protected: fn declines the update and the record stands.
func (s *JobStore) Update(id string, fn func(*models.OptimizationJob) bool) (models.OptimizationJob, bool) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return models.OptimizationJob{}, false
	}
	if !fn(&job) {
		s.mu.Unlock()
		return s.jobs[id], true
	}
	s.jobs[id] = job
	s.mu.Unlock()
	s.publish(job)
	return job, true
}

// Snapshot copies the whole registry.
func (s *JobStore) Snapshot() map[string]models.OptimizationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.OptimizationJob, len(s.jobs))
	for id, job := range s.jobs {
		out[id] = job
	}
	return out
}

// publish mirrors the snapshot to Redis, best effort.
func (s *JobStore) publish(job models.OptimizationJob) {
	if s.mirror == nil {
		return
	}
	go func() {
		payload, err := json.Marshal(job)
		if err != nil {
			s.logger.Sugar().Warnw("failed to encode job snapshot", "job_id", job.ID, "error", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.mirror.Set(ctx, mirrorKeyPrefix+job.ID, payload, s.ttl).Err(); err != nil {
			s.logger.Sugar().Warnw("failed to mirror job snapshot", "job_id", job.ID, "error", err)
		}
	}()
}
