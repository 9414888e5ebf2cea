package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
)

type firestoreWorkflowRepository struct {
	client *firestore.Client
}

func NewFirestoreWorkflowRepository(client *firestore.Client) repository.WorkflowRepository {
	return &firestoreWorkflowRepository{
		client: client,
	}
}

// Apply writes one lifecycle step inside a single transaction. Firestore
// requires every read to happen before the first write, so the work, the
// rated user and the notifications to mark are all fetched up front.
func (r *firestoreWorkflowRepository) Apply(ctx context.Context, t *repository.WorkTransition) (*repository.TransitionResult, error) {
	workRef := r.client.Collection(worksCollection).Doc(t.WorkID)
	var result *repository.TransitionResult

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = &repository.TransitionResult{}

		doc, err := tx.Get(workRef)
		if err != nil {
			return getError("Work", err)
		}
		work, err := decodeWork(doc)
		if err != nil {
			return err
		}
		if t.ExpectStatus != "" && work.Status != t.ExpectStatus {
			return errors.Conflict(fmt.Sprintf("Work status changed to %s, please refresh", work.Status))
		}
		if work.AcceptedBy != t.ExpectAcceptedBy {
			return errors.Conflict("Work applicant changed, please refresh")
		}

		var rated *entity.User
		if t.Rating != nil {
			userDoc, err := tx.Get(r.client.Collection(usersCollection).Doc(t.Rating.UserID))
			if err != nil {
				return getError("User", err)
			}
			if rated, err = decodeUser(userDoc); err != nil {
				return err
			}
		}

		var unread []*firestore.DocumentRef
		for _, id := range t.MarkRead {
			ref := r.client.Collection(notificationsCollection).Doc(id)
			doc, err := tx.Get(ref)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					continue
				}
				return errors.Internal("Failed to get notification", err)
			}
			n, err := decodeNotification(doc)
			if err != nil || !n.ReadableBy(t.Actor, t.WorkID) {
				continue
			}
			unread = append(unread, ref)
		}

		if err := tx.Update(workRef, workTransitionUpdates(t)); err != nil {
			return err
		}
		if t.Status != "" {
			posted := r.client.Collection(usersCollection).Doc(work.UserID).Collection(postedWorksCollection).Doc(work.ID)
			if err := tx.Set(posted, map[string]interface{}{"status": string(t.Status)}, firestore.MergeAll); err != nil {
				return err
			}
		}

		if t.AcceptedWorkAdd != "" {
			if err := tx.Update(r.client.Collection(usersCollection).Doc(t.AcceptedWorkAdd), []firestore.Update{
				{Path: "acceptedWorks", Value: firestore.ArrayUnion(t.WorkID)},
			}); err != nil {
				return err
			}
		}
		if t.AcceptedWorkRemove != "" {
			if err := tx.Update(r.client.Collection(usersCollection).Doc(t.AcceptedWorkRemove), []firestore.Update{
				{Path: "acceptedWorks", Value: firestore.ArrayRemove(t.WorkID)},
			}); err != nil {
				return err
			}
		}

		if t.Credit != nil {
			userRef := r.client.Collection(usersCollection).Doc(t.Credit.UserID)
			if err := tx.Update(userRef, []firestore.Update{
				{Path: "wallet", Value: firestore.Increment(t.Credit.Entry.Amount)},
			}); err != nil {
				return err
			}
			if t.Credit.Entry.ID == "" {
				t.Credit.Entry.ID = uuid.New().String()
			}
			entryRef := userRef.Collection(transactionsCollection).Doc(t.Credit.Entry.ID)
			if err := tx.Create(entryRef, walletTransactionFields(t.Credit.Entry)); err != nil {
				return err
			}
		}

		if rated != nil {
			rating, count := entity.AggregateRating(rated.Rating, rated.RatingCount, t.Rating.Review.Rating)
			result.NewRating, result.NewRatingCount = rating, count
			if err := tx.Update(r.client.Collection(usersCollection).Doc(rated.ID), []firestore.Update{
				{Path: "rating", Value: rating},
				{Path: "ratingCount", Value: count},
				{Path: "reviews", Value: firestore.ArrayUnion(newReviewRecord(t.Rating.Review))},
			}); err != nil {
				return err
			}
		}

		for _, ref := range unread {
			if err := tx.Update(ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
				return err
			}
		}

		for _, n := range t.Notifications {
			if n.ID == "" {
				n.ID = uuid.New().String()
			}
			if err := tx.Create(r.client.Collection(notificationsCollection).Doc(n.ID), notificationFields(n)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to update work", err)
	}

	return result, nil
}

func workTransitionUpdates(t *repository.WorkTransition) []firestore.Update {
	var updates []firestore.Update
	if t.Status != "" {
		updates = append(updates, firestore.Update{Path: "status", Value: string(t.Status)})
	}
	if t.SetAcceptedBy != nil {
		updates = append(updates, firestore.Update{Path: "acceptedBy", Value: nullable(*t.SetAcceptedBy)})
	}
	if t.TransactionID != "" {
		updates = append(updates, firestore.Update{Path: "transactionId", Value: t.TransactionID})
	}
	if t.AcceptedAt != nil {
		updates = append(updates, firestore.Update{Path: "acceptedAt", Value: *t.AcceptedAt})
	}
	// A rating-only step still touches the work so the precondition read
	// and the write share the same document version.
	if len(updates) == 0 {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	}
	return updates
}
