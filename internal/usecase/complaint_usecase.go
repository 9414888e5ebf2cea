package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
)

const defaultFeedback = "Your complaint has been solved."

type ComplaintUseCase struct {
	complaintRepo repository.ComplaintRepository
	names         *DisplayNames
	now           func() time.Time
}

func NewComplaintUseCase(complaintRepo repository.ComplaintRepository, names *DisplayNames) *ComplaintUseCase {
	return &ComplaintUseCase{
		complaintRepo: complaintRepo,
		names:         names,
		now:           time.Now,
	}
}

type ComplaintListing struct {
	*entity.Complaint
	FromName string `json:"from_name"`
}

func (uc *ComplaintUseCase) Submit(ctx context.Context, session entity.Session, title, details string) (*entity.Complaint, error) {
	title = strings.TrimSpace(title)
	details = strings.TrimSpace(details)
	if title == "" || details == "" {
		return nil, errors.BadRequest("Please fill all fields", nil)
	}

	complaint := &entity.Complaint{
		FromUserID: session.UserID,
		Title:      title,
		Details:    details,
		Status:     entity.ComplaintPending,
		CreatedAt:  uc.now(),
	}
	if err := uc.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// List returns every complaint, pending ones first.
func (uc *ComplaintUseCase) List(ctx context.Context) ([]*ComplaintListing, error) {
	complaints, err := uc.complaintRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	// Pending first; the repository already orders by date.
	sort.SliceStable(complaints, func(i, j int) bool {
		return complaints[i].Status == entity.ComplaintPending && complaints[j].Status != entity.ComplaintPending
	})

	ids := make([]string, len(complaints))
	for i, c := range complaints {
		ids[i] = c.FromUserID
	}
	names, err := uc.names.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}

	listings := make([]*ComplaintListing, len(complaints))
	for i, c := range complaints {
		listings[i] = &ComplaintListing{Complaint: c, FromName: names[c.FromUserID]}
	}
	return listings, nil
}

func (uc *ComplaintUseCase) Get(ctx context.Context, id string) (*ComplaintListing, error) {
	c, err := uc.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := uc.names.Lookup(ctx, c.FromUserID)
	if err != nil {
		return nil, err
	}
	return &ComplaintListing{Complaint: c, FromName: names[c.FromUserID]}, nil
}

// SendFeedback notifies the complainant and marks the complaint solved in
// one write. The notice has no sender.
func (uc *ComplaintUseCase) SendFeedback(ctx context.Context, id, message string) (*entity.Complaint, error) {
	c, err := uc.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.FromUserID == "" {
		return nil, errors.BadRequest("Complaint has no sender to notify", nil)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = defaultFeedback
	}

	feedback := &entity.Notification{
		ToUserID:   c.FromUserID,
		ComplainID: c.ID,
		Message:    message,
		Type:       entity.NotificationComplaintFeedback,
		CreatedAt:  uc.now(),
	}
	if err := uc.complaintRepo.Resolve(ctx, c.ID, feedback); err != nil {
		return nil, err
	}

	c.Status = entity.ComplaintSolved
	return c, nil
}
