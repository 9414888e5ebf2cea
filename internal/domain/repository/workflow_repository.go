package repository

import (
	"context"
	"time"

	"loklagbe/internal/domain/entity"
)

// WorkTransition is everything one lifecycle step writes. It is applied
// atomically; the Expect fields are compared with the stored work first and
// a mismatch aborts the whole step.
type WorkTransition struct {
	WorkID           string
	ExpectStatus     entity.WorkStatus
	ExpectAcceptedBy string

	Status        entity.WorkStatus
	SetAcceptedBy *string // nil keeps the field, "" clears it
	TransactionID string
	AcceptedAt    *time.Time

	AcceptedWorkAdd    string // user whose acceptedWorks gains WorkID
	AcceptedWorkRemove string // user whose acceptedWorks loses WorkID

	Credit   *WalletCredit
	Rating   *RatingSubmission
	MarkRead []string // notifications of Actor to mark read; others are skipped
	Actor    string

	Notifications []*entity.Notification
}

type WalletCredit struct {
	UserID string
	Entry  *entity.WalletTransaction
}

type RatingSubmission struct {
	UserID string
	Review entity.Review
}

type TransitionResult struct {
	NewRating      float64
	NewRatingCount int
}

type WorkflowRepository interface {
	Apply(ctx context.Context, t *WorkTransition) (*TransitionResult, error)
}
