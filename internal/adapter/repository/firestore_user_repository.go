package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, userFields(user))
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("User", err)
	}
	return decodeUser(doc)
}

func (r *firestoreUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	seen := make(map[string]bool, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, r.client.Collection(usersCollection).Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get users", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		user, err := decodeUser(doc)
		if err != nil {
			logger.Warn("Skipping malformed user %s: %v", doc.Ref.ID, err)
			continue
		}
		users[user.ID] = user
	}
	return users, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []*entity.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate users", err)
		}
		user, err := decodeUser(doc)
		if err != nil {
			logger.Warn("Skipping malformed user %s: %v", doc.Ref.ID, err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *firestoreUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := countQuery(ctx, r.client.Collection(usersCollection).Query)
	if err != nil {
		return 0, errors.Internal("Failed to count users", err)
	}
	return n, nil
}

func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, id string, update repository.ProfileUpdate) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "fullName", Value: update.FullName},
		{Path: "phone", Value: update.Phone},
		{Path: "bio", Value: update.Bio},
	})
	if err != nil {
		return getError("User", err)
	}
	return nil
}

func (r *firestoreUserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "verified", Value: verified},
	})
	if err != nil {
		return getError("User", err)
	}
	return nil
}

func (r *firestoreUserRepository) AddPostedWork(ctx context.Context, id, workID string, postedAt time.Time) error {
	userRef := r.client.Collection(usersCollection).Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(userRef.Collection(postedWorksCollection).Doc(workID), postedWorkFields(workID, postedAt)); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "postedWorks", Value: firestore.ArrayUnion(workID)},
		})
	})
	if err != nil {
		return errors.Internal("Failed to record posted work", err)
	}
	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete user", err)
	}
	return nil
}

func decodeUser(doc *firestore.DocumentSnapshot) (*entity.User, error) {
	var rec userRecord
	if err := decode(doc, &rec, "User"); err != nil {
		return nil, err
	}
	user, err := rec.toEntity(doc.Ref.ID)
	if err != nil {
		return nil, errors.InvalidDocument("User", err)
	}
	return user, nil
}
