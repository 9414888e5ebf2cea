package repository

import (
	"context"
	"time"

	"loklagbe/internal/domain/entity"
)

type ProfileUpdate struct {
	FullName string
	Phone    string
	Bio      string
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIDs resolves a set of ids in one round trip. Missing ids are
	// absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	SetVerified(ctx context.Context, id string, verified bool) error
	AddPostedWork(ctx context.Context, id, workID string, postedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
