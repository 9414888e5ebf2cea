package entity

import (
	"time"
)

type ComplaintStatus string

const (
	ComplaintPending ComplaintStatus = "pending"
	ComplaintSolved  ComplaintStatus = "solved"
)

type Complaint struct {
	ID         string          `json:"id"`
	FromUserID string          `json:"from_user_id"`
	Title      string          `json:"title"`
	Details    string          `json:"details"`
	Status     ComplaintStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
