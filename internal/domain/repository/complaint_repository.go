package repository

import (
	"context"

	"loklagbe/internal/domain/entity"
)

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *entity.Complaint) error
	GetByID(ctx context.Context, id string) (*entity.Complaint, error)
	List(ctx context.Context) ([]*entity.Complaint, error)
	Count(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// Resolve marks the complaint solved and stores the feedback
	// notification in the same write.
	Resolve(ctx context.Context, id string, feedback *entity.Notification) error
}
