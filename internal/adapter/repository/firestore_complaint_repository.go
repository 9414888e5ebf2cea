package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

type firestoreComplaintRepository struct {
	client *firestore.Client
}

func NewFirestoreComplaintRepository(client *firestore.Client) repository.ComplaintRepository {
	return &firestoreComplaintRepository{
		client: client,
	}
}

func (r *firestoreComplaintRepository) Create(ctx context.Context, complaint *entity.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.New().String()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	if complaint.Status == "" {
		complaint.Status = entity.ComplaintPending
	}

	_, err := r.client.Collection(complaintsCollection).Doc(complaint.ID).Set(ctx, map[string]interface{}{
		"fromUserId": complaint.FromUserID,
		"title":      complaint.Title,
		"details":    complaint.Details,
		"status":     string(complaint.Status),
		"createdAt":  complaint.CreatedAt,
	})
	if err != nil {
		return errors.Internal("Failed to create complaint", err)
	}
	return nil
}

func (r *firestoreComplaintRepository) GetByID(ctx context.Context, id string) (*entity.Complaint, error) {
	doc, err := r.client.Collection(complaintsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Complaint", err)
	}
	return decodeComplaint(doc)
}

func (r *firestoreComplaintRepository) List(ctx context.Context) ([]*entity.Complaint, error) {
	iter := r.client.Collection(complaintsCollection).Documents(ctx)
	defer iter.Stop()

	complaints := []*entity.Complaint{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate complaints", err)
		}
		c, err := decodeComplaint(doc)
		if err != nil {
			logger.Warn("Skipping malformed complaint %s: %v", doc.Ref.ID, err)
			continue
		}
		complaints = append(complaints, c)
	}

	sort.SliceStable(complaints, func(i, j int) bool {
		return complaints[i].CreatedAt.After(complaints[j].CreatedAt)
	})
	return complaints, nil
}

func (r *firestoreComplaintRepository) Count(ctx context.Context) (int64, error) {
	n, err := countQuery(ctx, r.client.Collection(complaintsCollection).Query)
	if err != nil {
		return 0, errors.Internal("Failed to count complaints", err)
	}
	return n, nil
}

func (r *firestoreComplaintRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	n, err := countQuery(ctx, r.client.Collection(complaintsCollection).Where("fromUserId", "==", userID))
	if err != nil {
		return 0, errors.Internal("Failed to count complaints", err)
	}
	return n, nil
}

func (r *firestoreComplaintRepository) Resolve(ctx context.Context, id string, feedback *entity.Notification) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}

	complaintRef := r.client.Collection(complaintsCollection).Doc(id)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(complaintRef); err != nil {
			return getError("Complaint", err)
		}
		if err := tx.Create(r.client.Collection(notificationsCollection).Doc(feedback.ID), notificationFields(feedback)); err != nil {
			return errors.Internal("Failed to send feedback", err)
		}
		if err := tx.Update(complaintRef, []firestore.Update{
			{Path: "status", Value: string(entity.ComplaintSolved)},
		}); err != nil {
			return errors.Internal("Failed to resolve complaint", err)
		}
		return nil
	})
}

func decodeComplaint(doc *firestore.DocumentSnapshot) (*entity.Complaint, error) {
	var rec complaintRecord
	if err := decode(doc, &rec, "Complaint"); err != nil {
		return nil, err
	}
	c, err := rec.toEntity(doc.Ref.ID)
	if err != nil {
		return nil, errors.InvalidDocument("Complaint", err)
	}
	return c, nil
}
