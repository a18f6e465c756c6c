package store

import (
	"testing"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
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

func newTestClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func TestNewSeeded_PopulatesInitialDataset(t *testing.T) {
	s := NewSeeded(newTestClock())

	assert.Len(t, s.ListIncidents(), 6)
	assert.Len(t, s.ListRunbooks(), 6)
	assert.Len(t, s.ListJobs(), 4)
	assert.Len(t, s.ListNotifications(), 3)
	assert.Equal(t, domain.EnvironmentProduction, s.Environment())
}

func TestGetIncident_ReturnsCopy(t *testing.T) {
	s := NewSeeded(newTestClock())

	inc, err := s.GetIncident("INC-001")
	require.NoError(t, err)

	inc.Status = domain.IncidentStatusCompleted

	again, err := s.GetIncident("INC-001")
	require.NoError(t, err)
	assert.NotEqual(t, domain.IncidentStatusCompleted, again.Status)
}

func TestGetIncident_NotFound(t *testing.T) {
	s := New(newTestClock())

	_, err := s.GetIncident("INC-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateIncident_MergesPatch(t *testing.T) {
	s := NewSeeded(newTestClock())

	executing := domain.IncidentStatusExecuting
	runbookID := "RB-002"
	updated, err := s.UpdateIncident("INC-001", IncidentPatch{
		Status:    &executing,
		RunbookID: &runbookID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusExecuting, updated.Status)
	require.NotNil(t, updated.RunbookID)
	assert.Equal(t, "RB-002", *updated.RunbookID)

	// Unpatched fields survive.
	original, err := s.GetIncident("INC-001")
	require.NoError(t, err)
	assert.NotEmpty(t, original.Title)
	assert.Equal(t, domain.IncidentStatusExecuting, original.Status)
}

func TestUpdateIncident_NotFoundLeavesStoreUnchanged(t *testing.T) {
	s := NewSeeded(newTestClock())
	before := s.ListIncidents()

	executing := domain.IncidentStatusExecuting
	_, err := s.UpdateIncident("INC-missing", IncidentPatch{Status: &executing})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, s.ListIncidents())
}

func TestAddRunbook_AssignsIDAndStampsLastModified(t *testing.T) {
	clk := newTestClock()
	s := New(clk)

	rb := s.AddRunbook(&domain.Runbook{Name: "Cache Flush"})

	assert.NotEmpty(t, rb.ID)
	assert.True(t, len(rb.ID) > 3 && rb.ID[:3] == "RB-")
	assert.Equal(t, clk.now, rb.LastModified)

	stored, err := s.GetRunbook(rb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cache Flush", stored.Name)
}

func TestUpdateRunbook_StampsLastModified(t *testing.T) {
	clk := newTestClock()
	s := NewSeeded(clk)

	clk.now = clk.now.Add(time.Hour)
	name := "Disk Cleanup v2"
	updated, err := s.UpdateRunbook("RB-001", RunbookPatch{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Disk Cleanup v2", updated.Name)
	assert.Equal(t, clk.now, updated.LastModified)
}

func TestAppendExecutionResult_AssignsID(t *testing.T) {
	s := New(newTestClock())

	res := s.AppendExecutionResult(&domain.ExecutionResult{IncidentID: "INC-001"})

	assert.NotEmpty(t, res.ID)

	stored, err := s.GetExecutionResult(res.ID)
	require.NoError(t, err)
	assert.Equal(t, "INC-001", stored.IncidentID)
}

func TestAppendAuditEntry_KeepsProvidedID(t *testing.T) {
	s := New(newTestClock())

	entry := s.AppendAuditEntry(&domain.AuditLogEntry{ID: "AUDIT-FIXED", IncidentID: "INC-001"})

	assert.Equal(t, "AUDIT-FIXED", entry.ID)
	require.Len(t, s.ListAuditLog(), 1)
}

func TestUpdateJob_StampsLastRun(t *testing.T) {
	clk := newTestClock()
	s := NewSeeded(clk)

	completed := domain.JobStatusCompleted
	lastRun := clk.now
	updated, err := s.UpdateJob("JOB-001", JobPatch{Status: &completed, LastRun: &lastRun})

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, updated.Status)
	require.NotNil(t, updated.LastRun)
	assert.Equal(t, lastRun, *updated.LastRun)
}

func TestAddNotification_PrependsWithFreshID(t *testing.T) {
	clk := newTestClock()
	s := NewSeeded(clk)

	first := s.AddNotification(domain.Notification{
		Type:      domain.NotificationExecutionCompleted,
		Title:     "Execution Completed",
		Timestamp: clk.now,
	})
	second := s.AddNotification(domain.Notification{
		Type:      domain.NotificationIncidentAssigned,
		Title:     "Incident Assigned",
		Timestamp: clk.now,
	})

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	list := s.ListNotifications()
	require.Len(t, list, 5)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestMarkNotificationRead(t *testing.T) {
	s := NewSeeded(newTestClock())

	n, err := s.MarkNotificationRead("NOTIF-001")
	require.NoError(t, err)
	assert.True(t, n.Read)

	_, err = s.MarkNotificationRead("NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetEnvironment(t *testing.T) {
	s := New(newTestClock())

	assert.Equal(t, domain.EnvironmentProduction, s.Environment())
	s.SetEnvironment(domain.EnvironmentStaging)
	assert.Equal(t, domain.EnvironmentStaging, s.Environment())
}
