package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

func TestJobStorePutAndGet(t *testing.T) {
	store := NewJobStore(nil, 0, nil)

	job := models.OptimizationJob{ID: "job-1", Status: models.JobStatusRunning, CreatedAt: time.Now().UTC()}
	store.Put(job)

	got, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, models.JobStatusRunning, got.Status)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestJobStoreUpdateReplacesWholeRecord(t *testing.T) {
	store := NewJobStore(nil, 0, nil)
	store.Put(models.OptimizationJob{ID: "job-1", Status: models.JobStatusRunning, Progress: 10})

	updated, ok := store.Update("job-1", func(j *models.OptimizationJob) bool {
		j.Status = models.JobStatusCompleted
		j.Progress = 100
		return true
	})
	require.True(t, ok)
	assert.Equal(t, models.JobStatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)

	got, _ := store.Get("job-1")
	assert.Equal(t, updated, got)
}

func TestJobStoreUpdateDeclinedKeepsRecord(t *testing.T) {
	store := NewJobStore(nil, 0, nil)
	store.Put(models.OptimizationJob{ID: "job-1", Status: models.JobStatusCancelled})

	snapshot, ok := store.Update("job-1", func(j *models.OptimizationJob) bool {
		if j.Status.Terminal() {
			return false
		}
		j.Status = models.JobStatusCompleted
		return true
	})
	require.True(t, ok)
	assert.Equal(t, models.JobStatusCancelled, snapshot.Status)
}

func TestJobStoreUpdateUnknownJob(t *testing.T) {
	store := NewJobStore(nil, 0, nil)
	_, ok := store.Update("missing", func(j *models.OptimizationJob) bool { return true })
	assert.False(t, ok)
}

func TestJobStoreSnapshotIsACopy(t *testing.T) {
	store := NewJobStore(nil, 0, nil)
	store.Put(models.OptimizationJob{ID: "job-1", Status: models.JobStatusRunning})

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	delete(snap, "job-1")

	_, ok := store.Get("job-1")
	assert.True(t, ok, "mutating the snapshot must not touch the store")
}
