package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

type firestoreWorkRepository struct {
	client *firestore.Client
}

func NewFirestoreWorkRepository(client *firestore.Client) repository.WorkRepository {
	return &firestoreWorkRepository{
		client: client,
	}
}

func (r *firestoreWorkRepository) Create(ctx context.Context, work *entity.Work) error {
	ref := r.client.Collection(worksCollection).NewDoc()
	if work.ID != "" {
		ref = r.client.Collection(worksCollection).Doc(work.ID)
	}
	work.ID = ref.ID
	if work.CreatedAt.IsZero() {
		work.CreatedAt = time.Now()
	}

	if _, err := ref.Create(ctx, workFields(work)); err != nil {
		return errors.Internal("Failed to create work", err)
	}
	return nil
}

func (r *firestoreWorkRepository) GetByID(ctx context.Context, id string) (*entity.Work, error) {
	doc, err := r.client.Collection(worksCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Work", err)
	}
	return decodeWork(doc)
}

func (r *firestoreWorkRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Work, error) {
	if len(ids) == 0 {
		return []*entity.Work{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			refs = append(refs, r.client.Collection(worksCollection).Doc(id))
		}
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get works", err)
	}

	works := make([]*entity.Work, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		work, err := decodeWork(doc)
		if err != nil {
			logger.Warn("Skipping malformed work %s: %v", doc.Ref.ID, err)
			continue
		}
		works = append(works, work)
	}
	return works, nil
}

func (r *firestoreWorkRepository) List(ctx context.Context, filter repository.WorkFilter) ([]*entity.Work, error) {
	iter := r.query(filter).Documents(ctx)
	defer iter.Stop()

	works := []*entity.Work{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate works", err)
		}
		work, err := decodeWork(doc)
		if err != nil {
			logger.Warn("Skipping malformed work %s: %v", doc.Ref.ID, err)
			continue
		}
		works = append(works, work)
	}

	// Sorted here so that equality filters never need a composite index.
	sort.SliceStable(works, func(i, j int) bool {
		return works[i].CreatedAt.After(works[j].CreatedAt)
	})
	return works, nil
}

func (r *firestoreWorkRepository) Count(ctx context.Context, filter repository.WorkFilter) (int64, error) {
	n, err := countQuery(ctx, r.query(filter))
	if err != nil {
		return 0, errors.Internal("Failed to count works", err)
	}
	return n, nil
}

func (r *firestoreWorkRepository) AddImage(ctx context.Context, id, url string) error {
	_, err := r.client.Collection(worksCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "images", Value: firestore.ArrayUnion(url)},
	})
	if err != nil {
		return getError("Work", err)
	}
	return nil
}

func (r *firestoreWorkRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(worksCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete work", err)
	}
	return nil
}

func (r *firestoreWorkRepository) query(filter repository.WorkFilter) firestore.Query {
	q := r.client.Collection(worksCollection).Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status", "in", statuses)
	}
	if filter.UserID != "" {
		q = q.Where("userId", "==", filter.UserID)
	}
	if filter.AcceptedBy != "" {
		q = q.Where("acceptedBy", "==", filter.AcceptedBy)
	}
	if filter.Category != "" {
		q = q.Where("category", "==", filter.Category)
	}
	return q
}

func decodeWork(doc *firestore.DocumentSnapshot) (*entity.Work, error) {
	var rec workRecord
	if err := decode(doc, &rec, "Work"); err != nil {
		return nil, err
	}
	work, err := rec.toEntity(doc.Ref.ID)
	if err != nil {
		return nil, errors.InvalidDocument("Work", err)
	}
	return work, nil
}
