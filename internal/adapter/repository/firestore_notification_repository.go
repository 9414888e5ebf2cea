package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	_, err := r.client.Collection(notificationsCollection).Doc(notification.ID).Set(ctx, notificationFields(notification))
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection(notificationsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Notification", err)
	}
	return decodeNotification(doc)
}

func (r *firestoreNotificationRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	iter := r.client.Collection(notificationsCollection).Where("toUserId", "==", userID).Documents(ctx)
	defer iter.Stop()

	notifications := []*entity.Notification{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate notifications", err)
		}
		n, err := decodeNotification(doc)
		if err != nil {
			logger.Warn("Skipping malformed notification %s: %v", doc.Ref.ID, err)
			continue
		}
		notifications = append(notifications, n)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	q := r.client.Collection(notificationsCollection).
		Where("toUserId", "==", userID).
		Where("read", "==", false)
	n, err := countQuery(ctx, q)
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return n, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.client.Collection(notificationsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		return getError("Notification", err)
	}
	return nil
}

func decodeNotification(doc *firestore.DocumentSnapshot) (*entity.Notification, error) {
	var rec notificationRecord
	if err := decode(doc, &rec, "Notification"); err != nil {
		return nil, err
	}
	n, err := rec.toEntity(doc.Ref.ID)
	if err != nil {
		return nil, errors.InvalidDocument("Notification", err)
	}
	return n, nil
}
