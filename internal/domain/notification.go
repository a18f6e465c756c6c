package domain

import "time"

// NotificationType tags what triggered a notification.
type NotificationType string

// Notification types.
const (
	NotificationIncidentAssigned   NotificationType = "incident_assigned"
	NotificationExecutionCompleted NotificationType = "execution_completed"
	NotificationApprovalRequired   NotificationType = "approval_required"
)

// Notification is an operator-facing alert with a navigation link.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	Link      string           `json:"link"`
}
