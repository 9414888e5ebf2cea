package usecase

import (
	"context"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	workRepo         repository.WorkRepository
	names            *DisplayNames
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	workRepo repository.WorkRepository,
	names *DisplayNames,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		workRepo:         workRepo,
		names:            names,
	}
}

type UnreadSummary struct {
	HasUnread bool  `json:"has_unread"`
	Count     int64 `json:"count"`
}

// NotificationDetail is an opened notification with the work it refers to.
type NotificationDetail struct {
	Notification *entity.Notification `json:"notification"`
	Work         *entity.Work         `json:"work,omitempty"`
	FromName     string               `json:"from_name,omitempty"`
	PosterName   string               `json:"poster_name,omitempty"`
	WorkerName   string               `json:"worker_name,omitempty"`
}

func (uc *NotificationUseCase) List(ctx context.Context, session entity.Session) ([]*entity.Notification, error) {
	return uc.notificationRepo.ListForUser(ctx, session.UserID)
}

func (uc *NotificationUseCase) Unread(ctx context.Context, session entity.Session) (*UnreadSummary, error) {
	n, err := uc.notificationRepo.CountUnread(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadSummary{HasUnread: n > 0, Count: n}, nil
}

// Open marks the notification read and resolves the linked work. A work
// that has since been deleted is left out rather than failing the call.
func (uc *NotificationUseCase) Open(ctx context.Context, session entity.Session, id string) (*NotificationDetail, error) {
	n, err := uc.owned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	if !n.Read {
		if err := uc.notificationRepo.MarkRead(ctx, n.ID); err != nil {
			return nil, err
		}
		n.Read = true
	}

	detail := &NotificationDetail{Notification: n}
	ids := []string{n.FromUserID}

	if n.WorkID != "" {
		work, err := uc.workRepo.GetByID(ctx, n.WorkID)
		switch {
		case err == nil:
			detail.Work = work
			ids = append(ids, work.UserID, work.AcceptedBy)
		case errors.Is(err, "NOT_FOUND"):
			logger.Debug("Notification %s refers to missing work %s", n.ID, n.WorkID)
		default:
			return nil, err
		}
	}

	names, err := uc.names.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}
	detail.FromName = names[n.FromUserID]
	if detail.Work != nil {
		detail.PosterName = names[detail.Work.UserID]
		detail.WorkerName = names[detail.Work.AcceptedBy]
	}

	return detail, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, session entity.Session, id string) error {
	n, err := uc.owned(ctx, session, id)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	return uc.notificationRepo.MarkRead(ctx, n.ID)
}

// owned hides other users' notifications behind NOT_FOUND.
func (uc *NotificationUseCase) owned(ctx context.Context, session entity.Session, id string) (*entity.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.ToUserID != session.UserID {
		return nil, errors.NotFound("Notification", nil)
	}
	return n, nil
}
