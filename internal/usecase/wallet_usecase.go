package usecase

import (
	"context"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/utils"
)

type WalletUseCase struct {
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
}

func NewWalletUseCase(userRepo repository.UserRepository, walletRepo repository.WalletRepository) *WalletUseCase {
	return &WalletUseCase{
		userRepo:   userRepo,
		walletRepo: walletRepo,
	}
}

type WalletEntry struct {
	*entity.WalletTransaction
	Display string `json:"display"`
}

type WalletSummary struct {
	Balance      float64        `json:"balance"`
	Display      string         `json:"display"`
	Transactions []*WalletEntry `json:"transactions"`
}

// Summary returns the balance and the ledger newest first.
func (uc *WalletUseCase) Summary(ctx context.Context, session entity.Session) (*WalletSummary, error) {
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	txns, err := uc.walletRepo.ListTransactions(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	entries := make([]*WalletEntry, len(txns))
	for i, t := range txns {
		entries[i] = &WalletEntry{WalletTransaction: t, Display: utils.FormatTaka(t.Amount)}
	}

	return &WalletSummary{
		Balance:      user.Wallet,
		Display:      utils.FormatTaka(user.Wallet),
		Transactions: entries,
	}, nil
}
