package store

import (
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
)

func strptr(s string) *string { return &s }

// applySeed populates the store with the initial dataset: six open
// incidents, six runbooks, four scheduled jobs and three notifications.
// Timestamps are relative to the injected clock.
func (s *Store) applySeed() {
	now := s.clock.Now()

	s.incidents = []*domain.Incident{
		{
			ID:               "INC-001",
			Title:            "Disk Usage Critical on prod-web-01",
			Severity:         domain.SeverityCritical,
			Environment:      domain.EnvironmentProduction,
			AssignedTo:       "Admin User",
			Status:           domain.IncidentStatusOpen,
			TriggerCondition: "disk.usage > 90%",
			CreatedAt:        now.Add(-15 * time.Minute),
			RunbookID:        strptr("RB-001"),
			Description:      "Disk usage on production web server has exceeded 90% threshold. Immediate action required to prevent service disruption.",
		},
		{
			ID:               "INC-002",
			Title:            "High Memory Usage on app-server-03",
			Severity:         domain.SeverityHigh,
			Environment:      domain.EnvironmentProduction,
			AssignedTo:       "Admin User",
			Status:           domain.IncidentStatusOpen,
			TriggerCondition: "memory.usage > 85%",
			CreatedAt:        now.Add(-30 * time.Minute),
			RunbookID:        strptr("RB-003"),
			Description:      "Application server memory consumption is abnormally high. Performance degradation may occur.",
		},
		{
			ID:               "INC-003",
			Title:            "API Service Unresponsive",
			Severity:         domain.SeverityCritical,
			Environment:      domain.EnvironmentProduction,
			AssignedTo:       "Sarah Chen",
			Status:           domain.IncidentStatusOpen,
			TriggerCondition: "http.response_time > 5000ms",
			CreatedAt:        now.Add(-5 * time.Minute),
			RunbookID:        strptr("RB-002"),
			Description:      "Core API service is not responding within acceptable timeframes.",
		},
		{
			ID:               "INC-004",
			Title:            "CPU Spike on batch-processor-01",
			Severity:         domain.SeverityMedium,
			Environment:      domain.EnvironmentProduction,
			AssignedTo:       "Mike Johnson",
			Status:           domain.IncidentStatusOpen,
			TriggerCondition: "cpu.usage > 80% for 10m",
			CreatedAt:        now.Add(-45 * time.Minute),
			RunbookID:        strptr("RB-004"),
			Description:      "Batch processing server showing sustained high CPU usage.",
		},
		{
			ID:               "INC-005",
			Title:            "SSL Certificate Expiring Soon",
			Severity:         domain.SeverityMedium,
			Environment:      domain.EnvironmentProduction,
			AssignedTo:       "Admin User",
			Status:           domain.IncidentStatusOpen,
			TriggerCondition: "cert.expiry < 7d",
			CreatedAt:        now.Add(-2 * time.Hour),
			RunbookID:        strptr("RB-005"),
			Description:      "SSL certificate for api.acme-manufacturing.com expires in 5 days.",
		},
		{
			ID:               "INC-006",
			Title:            "Database Connection Pool Exhausted",
			Severity:         domain.SeverityHigh,
			Environment:      domain.EnvironmentStaging,
			AssignedTo:       "Emily Rodriguez",
			Status:           domain.IncidentStatusOpen,
			TriggerCondition: "db.connections > 95%",
			CreatedAt:        now.Add(-20 * time.Minute),
			RunbookID:        strptr("RB-002"),
			Description:      "Database connection pool is nearly exhausted on staging environment.",
		},
	}

	s.runbooks = seedRunbooks(now)

	lastRun4d := now.Add(-4 * 24 * time.Hour)
	lastRun12h := now.Add(-12 * time.Hour)
	lastRun18h := now.Add(-18 * time.Hour)

	s.jobs = []*domain.ScheduledJob{
		{
			ID:          "JOB-001",
			Name:        "Weekly Patch Window",
			Description: "Apply security patches to all production servers",
			RunbookID:   "RB-002",
			Schedule:    "Every Sunday at 02:00 UTC",
			NextRun:     now.Add(3 * 24 * time.Hour),
			LastRun:     &lastRun4d,
			Status:      domain.JobStatusScheduled,
			Environment: domain.EnvironmentProduction,
		},
		{
			ID:          "JOB-002",
			Name:        "Certificate Renewal Check",
			Description: "Check and renew expiring SSL certificates",
			RunbookID:   "RB-005",
			Schedule:    "Daily at 06:00 UTC",
			NextRun:     now.Add(12 * time.Hour),
			LastRun:     &lastRun12h,
			Status:      domain.JobStatusScheduled,
			Environment: domain.EnvironmentProduction,
		},
		{
			ID:          "JOB-003",
			Name:        "Log Cleanup",
			Description: "Archive and remove old application logs",
			RunbookID:   "RB-001",
			Schedule:    "Daily at 04:00 UTC",
			NextRun:     now.Add(8 * time.Hour),
			Status:      domain.JobStatusPaused,
			Environment: domain.EnvironmentProduction,
		},
		{
			ID:          "JOB-004",
			Name:        "Batch Job Rerun",
			Description: "Rerun failed batch processing jobs from previous day",
			RunbookID:   "RB-002",
			Schedule:    "Daily at 08:00 UTC",
			NextRun:     now.Add(6 * time.Hour),
			LastRun:     &lastRun18h,
			Status:      domain.JobStatusScheduled,
			Environment: domain.EnvironmentProduction,
		},
	}

	s.notifications = []*domain.Notification{
		{
			ID:        "NOTIF-001",
			Type:      domain.NotificationIncidentAssigned,
			Title:     "Incident Assigned",
			Message:   "INC-001: Disk Usage Critical has been assigned to you",
			Timestamp: now.Add(-15 * time.Minute),
			Read:      false,
			Link:      "/orchestration/INC-001",
		},
		{
			ID:        "NOTIF-002",
			Type:      domain.NotificationApprovalRequired,
			Title:     "Approval Required",
			Message:   "Runbook execution for INC-003 requires your approval",
			Timestamp: now.Add(-30 * time.Minute),
			Read:      false,
			Link:      "/orchestration/INC-003",
		},
		{
			ID:        "NOTIF-003",
			Type:      domain.NotificationIncidentAssigned,
			Title:     "Incident Assigned",
			Message:   "INC-002: High Memory Usage has been assigned to you",
			Timestamp: now.Add(-45 * time.Minute),
			Read:      true,
			Link:      "/orchestration/INC-002",
		},
	}
	s.updateUnreadGauge()
}

func seedRunbooks(now time.Time) []*domain.Runbook {
	bothEnvs := []domain.Environment{domain.EnvironmentProduction, domain.EnvironmentStaging}

	return []*domain.Runbook{
		{
			ID:                    "RB-001",
			Name:                  "Disk Cleanup",
			Category:              domain.CategoryInfrastructure,
			RiskLevel:             domain.RiskMedium,
			Severity:              domain.SeverityHigh,
			LastModified:          now.Add(-7 * 24 * time.Hour),
			OwnerTeam:             "Infrastructure",
			AutoExecuteAllowed:    false,
			ApprovalLevelRequired: domain.ApprovalSeniorEngineer,
			SupportedEnvironments: bothEnvs,
			TriggerConditions: []domain.TriggerCondition{
				{Type: "metric", Name: "disk.usage", Operator: ">", Value: "90%"},
			},
			RequiredContext: []string{"hostname", "mount_point", "environment"},
			PreChecks: []domain.CheckAssertion{
				{Check: "disk.available", Expected: "> 0"},
				{Check: "system.load", Expected: "< 10"},
			},
			Steps: []domain.RunbookStep{
				{ID: "step_1", Description: "Identify large files and directories", Action: "scan_disk", Parameters: map[string]string{"path": "/var", "depth": "3"}},
				{ID: "step_2", Description: "Clear application logs older than 7 days", Action: "clear_logs", Parameters: map[string]string{"retention": "7d", "path": "/var/log/app"}},
				{ID: "step_3", Description: "Remove temporary files", Action: "clear_temp", Parameters: map[string]string{"path": "/tmp", "age": "1d"}},
				{ID: "step_4", Description: "Verify disk space recovered", Action: "check_disk", Parameters: map[string]string{"mount": "/"}},
			},
			PostChecks: []domain.CheckAssertion{
				{Check: "disk.usage", Expected: "< 80%"},
			},
			Rollback: domain.RollbackPlan{
				Description: "If disk cleanup fails or causes issues, escalate to on-call engineer",
				Actions:     []string{"Notify on-call", "Create incident ticket"},
				Notify:      []string{"on_call", "team_lead"},
			},
			Script: diskCleanupScript,
		},
		{
			ID:                    "RB-002",
			Name:                  "Service Restart",
			Category:              domain.CategoryApplication,
			RiskLevel:             domain.RiskMedium,
			Severity:              domain.SeverityHigh,
			LastModified:          now.Add(-3 * 24 * time.Hour),
			OwnerTeam:             "Platform",
			AutoExecuteAllowed:    false,
			ApprovalLevelRequired: domain.ApprovalEngineer,
			SupportedEnvironments: bothEnvs,
			TriggerConditions: []domain.TriggerCondition{
				{Type: "event", Name: "service.unresponsive", Operator: "==", Value: "true"},
			},
			RequiredContext: []string{"service_name", "hostname", "environment"},
			PreChecks: []domain.CheckAssertion{
				{Check: "service.status", Expected: "running"},
				{Check: "load_balancer.health", Expected: "healthy"},
			},
			Steps: []domain.RunbookStep{
				{ID: "step_1", Description: "Drain connections from load balancer", Action: "lb_drain", Parameters: map[string]string{"timeout": "30s"}},
				{ID: "step_2", Description: "Stop the service gracefully", Action: "service_stop", Parameters: map[string]string{"grace_period": "15s"}},
				{ID: "step_3", Description: "Wait for processes to terminate", Action: "wait", Parameters: map[string]string{"duration": "5s"}},
				{ID: "step_4", Description: "Start the service", Action: "service_start", Parameters: map[string]string{}},
				{ID: "step_5", Description: "Verify service health", Action: "health_check", Parameters: map[string]string{"retries": "3", "interval": "10s"}},
				{ID: "step_6", Description: "Re-enable in load balancer", Action: "lb_enable", Parameters: map[string]string{}},
			},
			PostChecks: []domain.CheckAssertion{
				{Check: "service.status", Expected: "running"},
				{Check: "service.response_time", Expected: "< 500ms"},
			},
			Rollback: domain.RollbackPlan{
				Description: "If service fails to start, attempt rollback to previous version",
				Actions:     []string{"Rollback to previous version", "Notify on-call", "Open incident"},
				Notify:      []string{"on_call", "team_lead"},
			},
			Script: serviceRestartScript,
		},
		{
			ID:                    "RB-003",
			Name:                  "High Memory Remediation",
			Category:              domain.CategoryInfrastructure,
			RiskLevel:             domain.RiskMedium,
			Severity:              domain.SeverityHigh,
			LastModified:          now.Add(-14 * 24 * time.Hour),
			OwnerTeam:             "SRE",
			AutoExecuteAllowed:    false,
			ApprovalLevelRequired: domain.ApprovalSeniorEngineer,
			SupportedEnvironments: bothEnvs,
			TriggerConditions: []domain.TriggerCondition{
				{Type: "metric", Name: "memory.usage", Operator: ">", Value: "85%"},
			},
			RequiredContext: []string{"hostname", "process_name", "environment"},
			PreChecks: []domain.CheckAssertion{
				{Check: "memory.usage", Expected: "> 85%"},
				{Check: "system.uptime", Expected: "> 1h"},
			},
			Steps: []domain.RunbookStep{
				{ID: "step_1", Description: "Identify top memory consumers", Action: "analyze_memory", Parameters: map[string]string{"top": "10"}},
				{ID: "step_2", Description: "Clear system caches", Action: "clear_cache", Parameters: map[string]string{"type": "pagecache"}},
				{ID: "step_3", Description: "Restart memory-heavy processes if needed", Action: "conditional_restart", Parameters: map[string]string{"threshold": "80%"}},
				{ID: "step_4", Description: "Verify memory usage reduced", Action: "check_memory", Parameters: map[string]string{}},
			},
			PostChecks: []domain.CheckAssertion{
				{Check: "memory.usage", Expected: "< 80%"},
			},
			Rollback: domain.RollbackPlan{
				Description: "If memory remediation fails, scale up or failover",
				Actions:     []string{"Scale horizontally", "Failover to standby", "Notify on-call"},
				Notify:      []string{"on_call", "capacity_team"},
			},
		},
		{
			ID:                    "RB-004",
			Name:                  "CPU Spike Mitigation",
			Category:              domain.CategoryInfrastructure,
			RiskLevel:             domain.RiskLow,
			Severity:              domain.SeverityMedium,
			LastModified:          now.Add(-5 * 24 * time.Hour),
			OwnerTeam:             "Infrastructure",
			AutoExecuteAllowed:    true,
			ApprovalLevelRequired: domain.ApprovalEngineer,
			SupportedEnvironments: bothEnvs,
			TriggerConditions: []domain.TriggerCondition{
				{Type: "metric", Name: "cpu.usage", Operator: ">", Value: "80%"},
			},
			RequiredContext: []string{"hostname", "environment"},
			PreChecks: []domain.CheckAssertion{
				{Check: "cpu.usage", Expected: "> 80%"},
			},
			Steps: []domain.RunbookStep{
				{ID: "step_1", Description: "Identify CPU-intensive processes", Action: "analyze_cpu", Parameters: map[string]string{"top": "5"}},
				{ID: "step_2", Description: "Check for runaway processes", Action: "check_runaway", Parameters: map[string]string{"threshold": "50%"}},
				{ID: "step_3", Description: "Renice or kill problematic processes", Action: "process_action", Parameters: map[string]string{"action": "renice"}},
				{ID: "step_4", Description: "Verify CPU normalized", Action: "check_cpu", Parameters: map[string]string{}},
			},
			PostChecks: []domain.CheckAssertion{
				{Check: "cpu.usage", Expected: "< 70%"},
			},
			Rollback: domain.RollbackPlan{
				Description: "If CPU remains high, scale out or escalate",
				Actions:     []string{"Scale out", "Notify on-call"},
				Notify:      []string{"on_call"},
			},
		},
		{
			ID:                    "RB-005",
			Name:                  "Certificate Renewal",
			Category:              domain.CategorySecurity,
			RiskLevel:             domain.RiskLow,
			Severity:              domain.SeverityMedium,
			LastModified:          now.Add(-30 * 24 * time.Hour),
			OwnerTeam:             "Security",
			AutoExecuteAllowed:    false,
			ApprovalLevelRequired: domain.ApprovalAdmin,
			SupportedEnvironments: bothEnvs,
			TriggerConditions: []domain.TriggerCondition{
				{Type: "metric", Name: "cert.expiry", Operator: "<", Value: "7d"},
			},
			RequiredContext: []string{"domain", "cert_path", "environment"},
			PreChecks: []domain.CheckAssertion{
				{Check: "cert.valid", Expected: "true"},
				{Check: "acme.available", Expected: "true"},
			},
			Steps: []domain.RunbookStep{
				{ID: "step_1", Description: "Request new certificate from ACME", Action: "cert_request", Parameters: map[string]string{"provider": "letsencrypt"}},
				{ID: "step_2", Description: "Validate certificate chain", Action: "cert_validate", Parameters: map[string]string{}},
				{ID: "step_3", Description: "Deploy certificate to servers", Action: "cert_deploy", Parameters: map[string]string{"reload": "true"}},
				{ID: "step_4", Description: "Verify HTTPS connectivity", Action: "https_check", Parameters: map[string]string{"timeout": "10s"}},
			},
			PostChecks: []domain.CheckAssertion{
				{Check: "cert.expiry", Expected: "> 30d"},
				{Check: "https.status", Expected: "200"},
			},
			Rollback: domain.RollbackPlan{
				Description: "If new cert fails, restore previous certificate",
				Actions:     []string{"Restore backup cert", "Reload services", "Notify security team"},
				Notify:      []string{"security_team", "on_call"},
			},
		},
		{
			ID:                    "RB-006",
			Name:                  "User Access Revocation",
			Category:              domain.CategorySecurity,
			RiskLevel:             domain.RiskHigh,
			Severity:              domain.SeverityCritical,
			LastModified:          now.Add(-2 * 24 * time.Hour),
			OwnerTeam:             "Security",
			AutoExecuteAllowed:    false,
			ApprovalLevelRequired: domain.ApprovalAdmin,
			SupportedEnvironments: bothEnvs,
			TriggerConditions: []domain.TriggerCondition{
				{Type: "event", Name: "user.termination", Operator: "==", Value: "true"},
			},
			RequiredContext: []string{"user_id", "user_email", "revocation_reason"},
			PreChecks: []domain.CheckAssertion{
				{Check: "user.exists", Expected: "true"},
				{Check: "approval.granted", Expected: "true"},
			},
			Steps: []domain.RunbookStep{
				{ID: "step_1", Description: "Disable user in identity provider", Action: "idp_disable", Parameters: map[string]string{}},
				{ID: "step_2", Description: "Revoke all active sessions", Action: "session_revoke", Parameters: map[string]string{"all": "true"}},
				{ID: "step_3", Description: "Remove from all groups and roles", Action: "access_remove", Parameters: map[string]string{}},
				{ID: "step_4", Description: "Rotate any shared credentials", Action: "cred_rotate", Parameters: map[string]string{"scope": "shared"}},
				{ID: "step_5", Description: "Generate access revocation report", Action: "report_generate", Parameters: map[string]string{}},
			},
			PostChecks: []domain.CheckAssertion{
				{Check: "user.active", Expected: "false"},
				{Check: "user.sessions", Expected: "0"},
			},
			Rollback: domain.RollbackPlan{
				Description: "User access revocation should not be rolled back without HR approval",
				Actions:     []string{"Contact HR", "Document exception"},
				Notify:      []string{"hr_team", "security_team"},
			},
		},
	}
}

const diskCleanupScript = `#!/bin/bash
# Disk Cleanup Runbook Script
set -e

echo "[$(date)] Starting disk cleanup on $(hostname)"

# Find large files
echo "Scanning for large files..."
find /var -type f -size +100M -exec ls -lh {} \;

# Clear old logs
echo "Clearing application logs older than 7 days..."
find /var/log/app -type f -mtime +7 -delete

# Clear temp files
echo "Removing temporary files..."
find /tmp -type f -mtime +1 -delete

# Verify
echo "Current disk usage:"
df -h /

echo "[$(date)] Disk cleanup completed"`

const serviceRestartScript = `#!/bin/bash
# Service Restart Runbook
set -e

SERVICE_NAME=$1
echo "[$(date)] Restarting service: $SERVICE_NAME"

# Drain from LB
echo "Draining from load balancer..."
curl -X POST "http://lb.internal/drain/$SERVICE_NAME"
sleep 30

# Stop service
echo "Stopping service..."
systemctl stop $SERVICE_NAME

# Wait
sleep 5

# Start service
echo "Starting service..."
systemctl start $SERVICE_NAME

# Health check
for i in {1..3}; do
  if curl -s http://localhost:8080/health | grep -q "ok"; then
    echo "Health check passed"
    break
  fi
  sleep 10
done

# Re-enable in LB
echo "Re-enabling in load balancer..."
curl -X POST "http://lb.internal/enable/$SERVICE_NAME"

echo "[$(date)] Service restart completed"`
