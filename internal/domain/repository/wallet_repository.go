package repository

import (
	"context"

	"loklagbe/internal/domain/entity"
)

type WalletRepository interface {
	// ListTransactions returns the user's ledger newest first.
	ListTransactions(ctx context.Context, userID string) ([]*entity.WalletTransaction, error)
}
