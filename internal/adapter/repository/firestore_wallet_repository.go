package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

type firestoreWalletRepository struct {
	client *firestore.Client
}

func NewFirestoreWalletRepository(client *firestore.Client) repository.WalletRepository {
	return &firestoreWalletRepository{
		client: client,
	}
}

func (r *firestoreWalletRepository) ListTransactions(ctx context.Context, userID string) ([]*entity.WalletTransaction, error) {
	iter := r.client.Collection(usersCollection).Doc(userID).Collection(transactionsCollection).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var txns []*entity.WalletTransaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate wallet transactions", err)
		}

		var rec walletTransactionRecord
		if err := decode(doc, &rec, "Wallet transaction"); err != nil {
			logger.Warn("Skipping malformed wallet transaction %s: %v", doc.Ref.ID, err)
			continue
		}
		txn, err := rec.toEntity(doc.Ref.ID)
		if err != nil {
			logger.Warn("Skipping malformed wallet transaction %s: %v", doc.Ref.ID, err)
			continue
		}
		txns = append(txns, txn)
	}

	return txns, nil
}
