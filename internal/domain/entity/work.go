package entity

import (
	"time"
)

// WorkStatus is the value stored in the status field of a worked document.
type WorkStatus string

const (
	WorkStatusActive        WorkStatus = "active"
	WorkStatusAccepted      WorkStatus = "accepted"
	WorkStatusCompletedSent WorkStatus = "completed_sent"
	WorkStatusCompleted     WorkStatus = "completed"
)

func (s WorkStatus) Valid() bool {
	switch s {
	case WorkStatusActive, WorkStatusAccepted, WorkStatusCompletedSent, WorkStatusCompleted:
		return true
	}
	return false
}

type Work struct {
	ID            string     `json:"id"`
	JobTitle      string     `json:"job_title"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	Location      string     `json:"location"`
	Category      string     `json:"category"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UserID        string     `json:"user_id"`
	AcceptedBy    string     `json:"accepted_by,omitempty"`
	Status        WorkStatus `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`
	Images        []string   `json:"images"`

	// PriceFromBudget is set when the amount was read from the legacy
	// budget field because price was absent.
	PriceFromBudget bool `json:"-"`
}

func (w *Work) HasApplicant() bool {
	return w.AcceptedBy != ""
}

func (w *Work) IsPostedBy(uid string) bool {
	return w.UserID == uid
}

// NormalizeDate truncates t to midnight in its own location.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
