package repository

import (
	"context"

	"loklagbe/internal/domain/entity"
)

// WorkFilter holds equality filters; zero fields are ignored. Statuses
// becomes an "in" filter.
type WorkFilter struct {
	Status     entity.WorkStatus
	Statuses   []entity.WorkStatus
	UserID     string
	AcceptedBy string
	Category   string
}

type WorkRepository interface {
	Create(ctx context.Context, work *entity.Work) error
	GetByID(ctx context.Context, id string) (*entity.Work, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Work, error)
	// List returns matching works newest first.
	List(ctx context.Context, filter WorkFilter) ([]*entity.Work, error)
	Count(ctx context.Context, filter WorkFilter) (int64, error)
	AddImage(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}
