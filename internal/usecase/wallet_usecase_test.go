package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loklagbe/internal/domain/entity"
)

func TestWalletSummary(t *testing.T) {
	f := newFixture()
	f.s.addUser(&entity.User{ID: "u1", Wallet: 3500})
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	f.s.ledger["u1"] = []*entity.WalletTransaction{
		{ID: "t1", Type: entity.WalletTxnCredit, Amount: 1500, Timestamp: base},
		{ID: "t2", Type: entity.WalletTxnCredit, Amount: 2000, Timestamp: base.Add(time.Hour)},
	}

	s, err := f.wallet.Summary(context.Background(), sessionOf("u1"))
	require.NoError(t, err)
	assert.Equal(t, 3500.0, s.Balance)
	assert.Equal(t, "৳3,500", s.Display)
	require.Len(t, s.Transactions, 2)
	assert.Equal(t, "t2", s.Transactions[0].ID)
	assert.Equal(t, "৳2,000", s.Transactions[0].Display)
}

func TestWalletFollowsConfirmedCompletion(t *testing.T) {
	f := newFixture()
	seedParties(f)
	seedWork(f, entity.WorkStatusCompletedSent, worker)

	_, err := f.flow.ConfirmCompletion(context.Background(), sessionOf(poster), "w1")
	require.NoError(t, err)

	s, err := f.wallet.Summary(context.Background(), sessionOf(worker))
	require.NoError(t, err)
	assert.Equal(t, "৳1,500", s.Display)
	require.Len(t, s.Transactions, 1)
	assert.Equal(t, "w1", s.Transactions[0].WorkID)
}
