package usecase

import (
	"context"
	"strings"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
)

type UserUseCase struct {
	userRepo      repository.UserRepository
	workRepo      repository.WorkRepository
	complaintRepo repository.ComplaintRepository
	names         *DisplayNames
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	workRepo repository.WorkRepository,
	complaintRepo repository.ComplaintRepository,
	names *DisplayNames,
) *UserUseCase {
	return &UserUseCase{
		userRepo:      userRepo,
		workRepo:      workRepo,
		complaintRepo: complaintRepo,
		names:         names,
	}
}

type UpdateProfileInput struct {
	FullName string
	Phone    string
	Bio      string
}

// PublicProfile is what other users see.
type PublicProfile struct {
	ID               string          `json:"id"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Bio              string          `json:"bio"`
	Rating           float64         `json:"rating"`
	RatingCount      int             `json:"rating_count"`
	Verified         bool            `json:"verified"`
	LegacyIsVerified *bool           `json:"legacy_is_verified,omitempty"`
	PostedCount      int             `json:"posted_count"`
	AcceptedCount    int             `json:"accepted_count"`
	Reviews          []entity.Review `json:"reviews"`
}

type HistorySummary struct {
	Posted     int64   `json:"posted"`
	Accepted   int64   `json:"accepted"`
	Pending    int64   `json:"pending"`
	Completed  int64   `json:"completed"`
	Complaints int64   `json:"complaints"`
	Rating     float64 `json:"rating"`
}

var inProgress = []entity.WorkStatus{entity.WorkStatusAccepted, entity.WorkStatusCompletedSent}

func (uc *UserUseCase) Profile(ctx context.Context, session entity.Session) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, session.UserID)
}

// UpdateProfile edits the fields a user owns. Email, NID and verification
// are not editable here.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, session entity.Session, input UpdateProfileInput) (*entity.User, error) {
	update := repository.ProfileUpdate{
		FullName: strings.TrimSpace(input.FullName),
		Phone:    strings.TrimSpace(input.Phone),
		Bio:      strings.TrimSpace(input.Bio),
	}
	if update.FullName == "" {
		return nil, errors.BadRequest("Full name is required", nil)
	}

	if err := uc.userRepo.UpdateProfile(ctx, session.UserID, update); err != nil {
		return nil, err
	}
	uc.names.Forget(ctx, session.UserID)

	return uc.userRepo.GetByID(ctx, session.UserID)
}

func (uc *UserUseCase) View(ctx context.Context, id string) (*PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:               user.ID,
		FullName:         user.DisplayName(),
		Email:            user.Email,
		Phone:            user.Phone,
		Bio:              user.Bio,
		Rating:           user.Rating,
		RatingCount:      user.RatingCount,
		Verified:         user.Verified,
		LegacyIsVerified: user.LegacyIsVerified,
		PostedCount:      len(user.PostedWorks),
		AcceptedCount:    len(user.AcceptedWorks),
		Reviews:          user.Reviews,
	}, nil
}

// History summarises the caller's activity. Posted and accepted come from
// the profile lists; the rest are count queries.
func (uc *UserUseCase) History(ctx context.Context, session entity.Session) (*HistorySummary, error) {
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	pending, err := uc.workRepo.Count(ctx, repository.WorkFilter{AcceptedBy: user.ID, Statuses: inProgress})
	if err != nil {
		return nil, err
	}
	completed, err := uc.workRepo.Count(ctx, repository.WorkFilter{AcceptedBy: user.ID, Status: entity.WorkStatusCompleted})
	if err != nil {
		return nil, err
	}
	complaints, err := uc.complaintRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &HistorySummary{
		Posted:     int64(len(user.PostedWorks)),
		Accepted:   int64(len(user.AcceptedWorks)),
		Pending:    pending,
		Completed:  completed,
		Complaints: complaints,
		Rating:     user.Rating,
	}, nil
}

func (uc *UserUseCase) PostedWorks(ctx context.Context, session entity.Session) ([]*entity.Work, error) {
	return uc.workRepo.List(ctx, repository.WorkFilter{UserID: session.UserID})
}

// PendingWorks are the caller's granted works still waiting for completion.
func (uc *UserUseCase) PendingWorks(ctx context.Context, session entity.Session) ([]*WorkListing, error) {
	return uc.acceptedWorks(ctx, session, entity.WorkStatusAccepted)
}

func (uc *UserUseCase) CompletedWorks(ctx context.Context, session entity.Session) ([]*WorkListing, error) {
	return uc.acceptedWorks(ctx, session, entity.WorkStatusCompleted)
}

func (uc *UserUseCase) acceptedWorks(ctx context.Context, session entity.Session, status entity.WorkStatus) ([]*WorkListing, error) {
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	works, err := uc.workRepo.GetByIDs(ctx, user.AcceptedWorks)
	if err != nil {
		return nil, err
	}

	var kept []*entity.Work
	var posters []string
	for _, w := range works {
		// acceptedWorks can outlive a rejection, so the worker is checked too.
		if w.Status == status && w.AcceptedBy == user.ID {
			kept = append(kept, w)
			posters = append(posters, w.UserID)
		}
	}

	names, err := uc.names.Lookup(ctx, posters...)
	if err != nil {
		return nil, err
	}
	listings := make([]*WorkListing, 0, len(kept))
	for _, w := range kept {
		listings = append(listings, &WorkListing{Work: w, PosterName: names[w.UserID]})
	}
	return listings, nil
}
