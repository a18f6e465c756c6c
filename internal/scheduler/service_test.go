package scheduler

import (
	"testing"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- f.now
	return ch
}

func newTestService() *Service {
	return NewService(store.NewSeeded(&fakeClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}))
}

func TestList_ReturnsSeededJobs(t *testing.T) {
	service := newTestService()
	assert.Len(t, service.List(), 4)
}

func TestPause_ScheduledJob(t *testing.T) {
	service := newTestService()

	job, err := service.Pause("JOB-001")

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPaused, job.Status)
}

func TestPause_AlreadyPaused(t *testing.T) {
	service := newTestService()

	// JOB-003 ships paused.
	job, err := service.Pause("JOB-003")

	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResume_PausedJob(t *testing.T) {
	service := newTestService()

	job, err := service.Resume("JOB-003")

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusScheduled, job.Status)
}

func TestResume_NotPaused(t *testing.T) {
	service := newTestService()

	job, err := service.Resume("JOB-001")

	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPause_NotFound(t *testing.T) {
	service := newTestService()

	_, err := service.Pause("JOB-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
