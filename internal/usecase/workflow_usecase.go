package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/internal/domain/workflow"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

const msgInvalidRating = "Please select a rating between 1 and 5 stars."

// WorkflowUseCase moves works through their lifecycle. Every step is checked
// against the transition table first and then written atomically, together
// with the notifications, wallet credit or rating it implies.
type WorkflowUseCase struct {
	workRepo repository.WorkRepository
	flowRepo repository.WorkflowRepository
	now      func() time.Time
}

func NewWorkflowUseCase(workRepo repository.WorkRepository, flowRepo repository.WorkflowRepository) *WorkflowUseCase {
	return &WorkflowUseCase{
		workRepo: workRepo,
		flowRepo: flowRepo,
		now:      time.Now,
	}
}

type RatingResult struct {
	WorkerID    string  `json:"worker_id"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

// Apply registers the caller as the applicant of an active work.
func (uc *WorkflowUseCase) Apply(ctx context.Context, session entity.Session, workID string) (*entity.Work, error) {
	work, t, err := uc.begin(ctx, session, workID, workflow.ActionApply)
	if err != nil {
		return nil, err
	}

	worker := session.UserID
	t.SetAcceptedBy = &worker
	t.AcceptedWorkAdd = worker
	t.Notifications = []*entity.Notification{
		uc.notify(work, work.UserID, worker, entity.NotificationAcceptedSent,
			fmt.Sprintf("\"%s\" has a new applicant. Review the applicant and grant the work.", work.JobTitle)),
	}

	if _, err := uc.commit(ctx, t, workflow.ActionApply); err != nil {
		return nil, err
	}
	work.AcceptedBy = worker
	return work, nil
}

// Grant accepts the pending applicant. notificationID, when set, is the
// application notice the poster acted on; it is marked read in the same write
// when it is addressed to the poster.
func (uc *WorkflowUseCase) Grant(ctx context.Context, session entity.Session, workID, notificationID string) (*entity.Work, error) {
	work, t, err := uc.begin(ctx, session, workID, workflow.ActionGrant)
	if err != nil {
		return nil, err
	}

	if notificationID != "" {
		t.MarkRead = []string{notificationID}
	}
	t.Notifications = []*entity.Notification{
		uc.notify(work, work.AcceptedBy, session.UserID, entity.NotificationAccepted,
			fmt.Sprintf("You have been granted the work: \"%s\", Do the work now.", work.JobTitle)),
	}

	if _, err := uc.commit(ctx, t, workflow.ActionGrant); err != nil {
		return nil, err
	}
	work.Status = t.Status
	return work, nil
}

// RejectApplicant returns a pending work to the feed.
func (uc *WorkflowUseCase) RejectApplicant(ctx context.Context, session entity.Session, workID string) (*entity.Work, error) {
	work, t, err := uc.begin(ctx, session, workID, workflow.ActionRejectApplicant)
	if err != nil {
		return nil, err
	}

	worker := work.AcceptedBy
	cleared := ""
	t.SetAcceptedBy = &cleared
	t.AcceptedWorkRemove = worker
	t.Notifications = []*entity.Notification{
		uc.notify(work, worker, session.UserID, entity.NotificationRejected,
			fmt.Sprintf("Your application for \"%s\" has been rejected.", work.JobTitle)),
	}

	if _, err := uc.commit(ctx, t, workflow.ActionRejectApplicant); err != nil {
		return nil, err
	}
	work.Status = t.Status
	work.AcceptedBy = ""
	return work, nil
}

// RecordPayment stores the free-text transaction id of an off-platform
// payment. It is never verified.
func (uc *WorkflowUseCase) RecordPayment(ctx context.Context, session entity.Session, workID, transactionID string) (*entity.Work, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, errors.BadRequest("Transaction ID is required", nil)
	}

	work, t, err := uc.begin(ctx, session, workID, workflow.ActionRecordPayment)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	t.TransactionID = transactionID
	t.AcceptedAt = &now

	var n *entity.Notification
	if workflow.RoleOf(work, session.UserID) == workflow.RolePoster {
		n = uc.notify(work, work.AcceptedBy, session.UserID, entity.NotificationGeneral,
			fmt.Sprintf("Your work \"%s\" has been accepted. Now Complete the Work", work.JobTitle))
	} else {
		n = uc.notify(work, work.UserID, session.UserID, entity.NotificationGeneral,
			fmt.Sprintf("Payment for \"%s\" has been recorded with transaction ID %s.", work.JobTitle, transactionID))
	}
	t.Notifications = []*entity.Notification{n}

	if _, err := uc.commit(ctx, t, workflow.ActionRecordPayment); err != nil {
		return nil, err
	}
	work.TransactionID = transactionID
	work.AcceptedAt = &now
	return work, nil
}

// SubmitCompletion is the worker reporting the job done.
func (uc *WorkflowUseCase) SubmitCompletion(ctx context.Context, session entity.Session, workID string) (*entity.Work, error) {
	work, t, err := uc.begin(ctx, session, workID, workflow.ActionSubmitCompletion)
	if err != nil {
		return nil, err
	}

	t.Notifications = []*entity.Notification{
		uc.notify(work, work.UserID, session.UserID, entity.NotificationCompletedSent,
			fmt.Sprintf("Your work \"%s\" has been completed by the worker. Please confirm.", work.JobTitle)),
	}

	if _, err := uc.commit(ctx, t, workflow.ActionSubmitCompletion); err != nil {
		return nil, err
	}
	work.Status = t.Status
	return work, nil
}

// ConfirmCompletion closes the work and credits the worker's wallet with the
// work's price.
func (uc *WorkflowUseCase) ConfirmCompletion(ctx context.Context, session entity.Session, workID string) (*entity.Work, error) {
	work, t, err := uc.begin(ctx, session, workID, workflow.ActionConfirmCompletion)
	if err != nil {
		return nil, err
	}

	t.Credit = &repository.WalletCredit{
		UserID: work.AcceptedBy,
		Entry: &entity.WalletTransaction{
			Type:        entity.WalletTxnCredit,
			Amount:      work.Price,
			WorkID:      work.ID,
			Description: fmt.Sprintf("Payment for \"%s\"", work.JobTitle),
			Timestamp:   uc.now(),
		},
	}
	t.Notifications = []*entity.Notification{
		uc.notify(work, work.AcceptedBy, session.UserID, entity.NotificationCompleted,
			fmt.Sprintf("Thank you for completing \"%s\". Please collect your payment.", work.JobTitle)),
	}

	if _, err := uc.commit(ctx, t, workflow.ActionConfirmCompletion); err != nil {
		return nil, err
	}
	work.Status = t.Status
	return work, nil
}

// RejectCompletion sends the work back to the worker.
func (uc *WorkflowUseCase) RejectCompletion(ctx context.Context, session entity.Session, workID string) (*entity.Work, error) {
	work, t, err := uc.begin(ctx, session, workID, workflow.ActionRejectCompletion)
	if err != nil {
		return nil, err
	}

	t.Notifications = []*entity.Notification{
		uc.notify(work, work.AcceptedBy, session.UserID, entity.NotificationRejected,
			fmt.Sprintf("Your work \"%s\" has been marked as not completed. Please complete it.", work.JobTitle)),
	}

	if _, err := uc.commit(ctx, t, workflow.ActionRejectCompletion); err != nil {
		return nil, err
	}
	work.Status = t.Status
	return work, nil
}

// Rate folds the poster's rating of a completed work into the worker's
// profile. Repeated ratings of the same work are all counted.
func (uc *WorkflowUseCase) Rate(ctx context.Context, session entity.Session, workID string, rating int, comment string) (*RatingResult, error) {
	if !entity.ValidRating(rating) {
		return nil, errors.BadRequest(msgInvalidRating, nil)
	}

	work, t, err := uc.begin(ctx, session, workID, workflow.ActionRate)
	if err != nil {
		return nil, err
	}

	t.Rating = &repository.RatingSubmission{
		UserID: work.AcceptedBy,
		Review: entity.Review{
			ReviewerID: session.UserID,
			WorkID:     work.ID,
			Rating:     rating,
			Comment:    strings.TrimSpace(comment),
			Timestamp:  uc.now(),
		},
	}

	res, err := uc.commit(ctx, t, workflow.ActionRate)
	if err != nil {
		return nil, err
	}
	return &RatingResult{
		WorkerID:    work.AcceptedBy,
		Rating:      res.NewRating,
		RatingCount: res.NewRatingCount,
	}, nil
}

// begin loads the work, checks the action against the transition table and
// prepares a transition guarded by the state that was read.
func (uc *WorkflowUseCase) begin(ctx context.Context, session entity.Session, workID string, action workflow.Action) (*entity.Work, *repository.WorkTransition, error) {
	work, err := uc.workRepo.GetByID(ctx, workID)
	if err != nil {
		return nil, nil, err
	}

	to, err := workflow.Transition(workflow.StateOf(work), action, workflow.RoleOf(work, session.UserID))
	if err != nil {
		return nil, nil, transitionError(err)
	}

	return work, &repository.WorkTransition{
		WorkID:           work.ID,
		Actor:            session.UserID,
		ExpectStatus:     work.Status,
		ExpectAcceptedBy: work.AcceptedBy,
		Status:           workflow.StoredStatus(to),
	}, nil
}

func (uc *WorkflowUseCase) commit(ctx context.Context, t *repository.WorkTransition, action workflow.Action) (*repository.TransitionResult, error) {
	res, err := uc.flowRepo.Apply(ctx, t)
	if err != nil {
		logger.LogTransitionError(t.WorkID, string(action), err)
		return nil, err
	}
	return res, nil
}

func (uc *WorkflowUseCase) notify(work *entity.Work, to, from string, typ entity.NotificationType, message string) *entity.Notification {
	return &entity.Notification{
		ToUserID:   to,
		FromUserID: from,
		WorkID:     work.ID,
		Message:    message,
		Type:       typ,
		CreatedAt:  uc.now(),
	}
}

func transitionError(err error) error {
	if stderrors.Is(err, workflow.ErrNotPermitted) {
		return errors.Forbidden("You are not allowed to do this on this work", err)
	}
	return errors.InvalidTransition("This action is not available for the work right now", err)
}
