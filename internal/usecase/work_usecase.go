package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/internal/domain/service"
	"loklagbe/internal/domain/workflow"
	"loklagbe/pkg/errors"
)

const (
	msgUnknownCategory = "This category does not exist."
	msgMustBeVerified  = "You need to be a verified user to post work."
)

type WorkUseCase struct {
	workRepo repository.WorkRepository
	userRepo repository.UserRepository
	names    *DisplayNames
	files    service.FileUploadService
	now      func() time.Time
}

func NewWorkUseCase(
	workRepo repository.WorkRepository,
	userRepo repository.UserRepository,
	names *DisplayNames,
	files service.FileUploadService,
) *WorkUseCase {
	return &WorkUseCase{
		workRepo: workRepo,
		userRepo: userRepo,
		names:    names,
		files:    files,
		now:      time.Now,
	}
}

type PostWorkInput struct {
	JobTitle    string
	Description string
	Price       float64
	Location    string
	Category    string
	StartDate   time.Time
	EndDate     time.Time
}

// WorkListing is a work as shown in a feed, with its poster's name.
type WorkListing struct {
	*entity.Work
	PosterName string `json:"poster_name"`
}

type WorkDetail struct {
	*entity.Work
	PosterName string            `json:"poster_name"`
	WorkerName string            `json:"worker_name,omitempty"`
	State      workflow.State    `json:"state"`
	Actions    []workflow.Action `json:"actions"`
}

type FeedFilter struct {
	Category string
	Location string
}

// Post publishes a new active work. Only verified users may post.
func (uc *WorkUseCase) Post(ctx context.Context, session entity.Session, input PostWorkInput) (*entity.Work, error) {
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Verified {
		return nil, errors.Forbidden(msgMustBeVerified, nil)
	}

	input.JobTitle = strings.TrimSpace(input.JobTitle)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	if input.JobTitle == "" || input.Description == "" || input.Location == "" ||
		input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, errors.BadRequest("Please fill in all required fields.", nil)
	}
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be greater than zero.", nil)
	}
	if !entity.IsCategory(input.Category) {
		return nil, errors.BadRequest(msgUnknownCategory, nil)
	}

	start := entity.NormalizeDate(input.StartDate)
	end := entity.NormalizeDate(input.EndDate)
	if end.Before(start) {
		return nil, errors.BadRequest("End date cannot be before the start date.", nil)
	}

	work := &entity.Work{
		JobTitle:    input.JobTitle,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		Category:    input.Category,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   uc.now(),
		UserID:      session.UserID,
		Status:      entity.WorkStatusActive,
		Images:      []string{},
	}
	if err := uc.workRepo.Create(ctx, work); err != nil {
		return nil, err
	}
	if err := uc.userRepo.AddPostedWork(ctx, session.UserID, work.ID, work.CreatedAt); err != nil {
		return nil, err
	}

	return work, nil
}

// Get returns a work with both parties' names and the actions the caller
// may take on it.
func (uc *WorkUseCase) Get(ctx context.Context, session entity.Session, id string) (*WorkDetail, error) {
	work, err := uc.workRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	names, err := uc.names.Lookup(ctx, work.UserID, work.AcceptedBy)
	if err != nil {
		return nil, err
	}

	state := workflow.StateOf(work)
	actions := workflow.Allowed(state, workflow.RoleOf(work, session.UserID))
	if actions == nil {
		actions = []workflow.Action{}
	}

	return &WorkDetail{
		Work:       work,
		PosterName: names[work.UserID],
		WorkerName: names[work.AcceptedBy],
		State:      state,
		Actions:    actions,
	}, nil
}

// Feed lists works open for application, newest first. Works that already
// have an applicant are left out. Location matches case-insensitively on a
// substring.
func (uc *WorkUseCase) Feed(ctx context.Context, filter FeedFilter) ([]*WorkListing, error) {
	if filter.Category != "" && !entity.IsCategory(filter.Category) {
		return nil, errors.BadRequest(msgUnknownCategory, nil)
	}

	works, err := uc.workRepo.List(ctx, repository.WorkFilter{
		Status:   entity.WorkStatusActive,
		Category: filter.Category,
	})
	if err != nil {
		return nil, err
	}

	loc := strings.ToLower(strings.TrimSpace(filter.Location))
	kept := works[:0]
	for _, w := range works {
		if workflow.StateOf(w) != workflow.StateActive {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(w.Location), loc) {
			continue
		}
		kept = append(kept, w)
	}
	works = kept

	return uc.withPosterNames(ctx, works)
}

// ByCategorySlug lists the active works of the category a slug names.
func (uc *WorkUseCase) ByCategorySlug(ctx context.Context, slug string) (string, []*WorkListing, error) {
	category, ok := entity.CategoryFromSlug(slug)
	if !ok {
		return "", nil, errors.BadRequest(msgUnknownCategory, nil)
	}

	listings, err := uc.Feed(ctx, FeedFilter{Category: category})
	if err != nil {
		return "", nil, err
	}
	return category, listings, nil
}

// AttachImage uploads an image for a work. Only the poster may do this.
func (uc *WorkUseCase) AttachImage(ctx context.Context, session entity.Session, workID string, file io.Reader, contentType string) (string, error) {
	if uc.files == nil {
		return "", errors.ServiceUnavailable("Image uploads are not configured", nil)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", errors.BadRequest("Only image files can be attached", nil)
	}

	work, err := uc.workRepo.GetByID(ctx, workID)
	if err != nil {
		return "", err
	}
	if !work.IsPostedBy(session.UserID) {
		return "", errors.Forbidden("Only the poster can add images to this work", nil)
	}

	url, err := uc.files.UploadFile(ctx, file, contentType, "works/"+work.ID)
	if err != nil {
		return "", errors.BadRequest("Failed to upload image", err)
	}
	if err := uc.workRepo.AddImage(ctx, work.ID, url); err != nil {
		if delErr := uc.files.DeleteFile(ctx, url); delErr != nil {
			return "", errors.Internal("Failed to attach image", delErr)
		}
		return "", err
	}
	return url, nil
}

func (uc *WorkUseCase) withPosterNames(ctx context.Context, works []*entity.Work) ([]*WorkListing, error) {
	ids := make([]string, len(works))
	for i, w := range works {
		ids[i] = w.UserID
	}
	names, err := uc.names.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}

	listings := make([]*WorkListing, len(works))
	for i, w := range works {
		listings[i] = &WorkListing{Work: w, PosterName: names[w.UserID]}
	}
	return listings, nil
}
