package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type FirestoreHealth struct {
	client *firestore.Client
}

func NewFirestoreHealth(client *firestore.Client) *FirestoreHealth {
	return &FirestoreHealth{client: client}
}

// Ping reads at most one user document. An empty collection counts as healthy.
func (h *FirestoreHealth) Ping(ctx context.Context) error {
	iter := h.client.Collection(usersCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return nil
	}
	return err
}
