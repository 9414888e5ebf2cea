package entity

import (
	"time"
)

type NotificationType string

const (
	NotificationAcceptedSent      NotificationType = "accepted_sent"
	NotificationAccepted          NotificationType = "accepted"
	NotificationRejected          NotificationType = "rejected"
	NotificationCompletedSent     NotificationType = "completed_sent"
	NotificationCompleted         NotificationType = "completed"
	NotificationComplaintFeedback NotificationType = "complaint_feedback"
	NotificationGeneral           NotificationType = "general"
)

type Notification struct {
	ID         string           `json:"id"`
	ToUserID   string           `json:"to_user_id"`
	FromUserID string           `json:"from_user_id,omitempty"`
	WorkID     string           `json:"work_id,omitempty"`
	ComplainID string           `json:"complain_id,omitempty"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ReadableBy reports whether uid may mark n read while acting on workID.
// Only the recipient may, and a notice tied to another work never matches.
func (n *Notification) ReadableBy(uid, workID string) bool {
	if n.ToUserID == "" || n.ToUserID != uid {
		return false
	}
	return n.WorkID == "" || n.WorkID == workID
}
