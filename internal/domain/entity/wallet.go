package entity

import (
	"time"
)

const (
	WalletTxnCredit = "credit"
)

// WalletTransaction is one entry of the append-only ledger kept under a user.
type WalletTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	WorkID      string    `json:"work_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
