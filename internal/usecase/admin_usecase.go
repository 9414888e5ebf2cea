package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

const dashboardCacheKey = "admin:dashboard"

type AdminUseCase struct {
	userRepo      repository.UserRepository
	workRepo      repository.WorkRepository
	complaintRepo repository.ComplaintRepository
	identity      IdentityGateway
	names         *DisplayNames
	cache         Cache
	cacheTTL      time.Duration
}

func NewAdminUseCase(
	userRepo repository.UserRepository,
	workRepo repository.WorkRepository,
	complaintRepo repository.ComplaintRepository,
	identity IdentityGateway,
	names *DisplayNames,
	cache Cache,
	cacheTTL time.Duration,
) *AdminUseCase {
	return &AdminUseCase{
		userRepo:      userRepo,
		workRepo:      workRepo,
		complaintRepo: complaintRepo,
		identity:      identity,
		names:         names,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

type DashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalPosts      int64 `json:"total_posts"`
	ActivePosts     int64 `json:"active_posts"`
	AcceptedPosts   int64 `json:"accepted_posts"`
	CompletedPosts  int64 `json:"completed_posts"`
	TotalComplaints int64 `json:"total_complaints"`
}

type UserWithStats struct {
	ID               string  `json:"id"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	NID              string  `json:"nid"`
	Role             string  `json:"role"`
	Rating           float64 `json:"rating"`
	Verified         bool    `json:"verified"`
	LegacyIsVerified *bool   `json:"legacy_is_verified,omitempty"`
	TotalPosts       int     `json:"total_posts"`
	CompletedPosts   int     `json:"completed_posts"`
	PendingPosts     int     `json:"pending_posts"`
	AppliedPosts     int     `json:"applied_posts"`
}

type AdminWorkListing struct {
	*entity.Work
	PosterName string `json:"poster_name"`
	WorkerName string `json:"worker_name,omitempty"`
}

type PostFilter struct {
	Category string
	Location string
}

// Dashboard runs one count aggregation per figure, in parallel, and caches
// the result briefly.
func (uc *AdminUseCase) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if hit, err := uc.cache.Get(ctx, dashboardCacheKey, &stats); err != nil {
		logger.Debug("Dashboard cache read failed: %v", err)
	} else if hit {
		return &stats, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = uc.userRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalPosts, err = uc.workRepo.Count(gctx, repository.WorkFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.ActivePosts, err = uc.workRepo.Count(gctx, repository.WorkFilter{Status: entity.WorkStatusActive})
		return err
	})
	g.Go(func() (err error) {
		stats.AcceptedPosts, err = uc.workRepo.Count(gctx, repository.WorkFilter{Status: entity.WorkStatusAccepted})
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedPosts, err = uc.workRepo.Count(gctx, repository.WorkFilter{Status: entity.WorkStatusCompleted})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalComplaints, err = uc.complaintRepo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, dashboardCacheKey, &stats, uc.cacheTTL); err != nil {
		logger.Debug("Dashboard cache write failed: %v", err)
	}
	return &stats, nil
}

// Users lists every user with post statistics computed from a single scan
// of the works collection.
func (uc *AdminUseCase) Users(ctx context.Context) ([]*UserWithStats, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	works, err := uc.workRepo.List(ctx, repository.WorkFilter{})
	if err != nil {
		return nil, err
	}

	type counts struct{ total, completed, pending int }
	byPoster := make(map[string]*counts)
	for _, w := range works {
		c, ok := byPoster[w.UserID]
		if !ok {
			c = &counts{}
			byPoster[w.UserID] = c
		}
		c.total++
		switch w.Status {
		case entity.WorkStatusCompleted:
			c.completed++
		case entity.WorkStatusAccepted, entity.WorkStatusCompletedSent:
			c.pending++
		}
	}

	result := make([]*UserWithStats, 0, len(users))
	for _, u := range users {
		s := &UserWithStats{
			ID:               u.ID,
			FullName:         u.DisplayName(),
			Email:            u.Email,
			Phone:            u.Phone,
			NID:              u.NID,
			Role:             u.Role,
			Rating:           u.Rating,
			Verified:         u.Verified,
			LegacyIsVerified: u.LegacyIsVerified,
			AppliedPosts:     len(u.AcceptedWorks),
		}
		if c, ok := byPoster[u.ID]; ok {
			s.TotalPosts, s.CompletedPosts, s.PendingPosts = c.total, c.completed, c.pending
		}
		result = append(result, s)
	}
	return result, nil
}

// ToggleVerified flips the canonical verified flag and returns the new value.
func (uc *AdminUseCase) ToggleVerified(ctx context.Context, userID string) (bool, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	verified := !user.Verified
	if err := uc.userRepo.SetVerified(ctx, userID, verified); err != nil {
		return false, err
	}
	return verified, nil
}

// DeleteUser removes the profile document and then the sign-in account.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, session entity.Session, userID string) error {
	if userID == session.UserID {
		return errors.BadRequest("You cannot delete your own account", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := uc.identity.DeleteUser(ctx, userID); err != nil {
		logger.Error("Deleted profile %s but not its auth account: %v", userID, err)
	}

	uc.names.Forget(ctx, userID)
	uc.invalidateDashboard(ctx)
	return nil
}

// Posts lists all works newest first. Category matches exactly and location
// matches case-insensitively.
func (uc *AdminUseCase) Posts(ctx context.Context, filter PostFilter) ([]*AdminWorkListing, error) {
	works, err := uc.workRepo.List(ctx, repository.WorkFilter{Category: filter.Category})
	if err != nil {
		return nil, err
	}

	if loc := strings.TrimSpace(filter.Location); loc != "" {
		kept := works[:0]
		for _, w := range works {
			if strings.EqualFold(w.Location, loc) {
				kept = append(kept, w)
			}
		}
		works = kept
	}

	return uc.withNames(ctx, works)
}

func (uc *AdminUseCase) CompletedPosts(ctx context.Context) ([]*AdminWorkListing, error) {
	works, err := uc.workRepo.List(ctx, repository.WorkFilter{Status: entity.WorkStatusCompleted})
	if err != nil {
		return nil, err
	}
	return uc.withNames(ctx, works)
}

func (uc *AdminUseCase) DeletePost(ctx context.Context, workID string) error {
	if _, err := uc.workRepo.GetByID(ctx, workID); err != nil {
		return err
	}
	if err := uc.workRepo.Delete(ctx, workID); err != nil {
		return err
	}
	uc.invalidateDashboard(ctx)
	return nil
}

func (uc *AdminUseCase) withNames(ctx context.Context, works []*entity.Work) ([]*AdminWorkListing, error) {
	ids := make([]string, 0, len(works)*2)
	for _, w := range works {
		ids = append(ids, w.UserID, w.AcceptedBy)
	}
	names, err := uc.names.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}

	listings := make([]*AdminWorkListing, len(works))
	for i, w := range works {
		listings[i] = &AdminWorkListing{
			Work:       w,
			PosterName: names[w.UserID],
			WorkerName: names[w.AcceptedBy],
		}
	}
	return listings, nil
}

func (uc *AdminUseCase) invalidateDashboard(ctx context.Context) {
	if err := uc.cache.Delete(ctx, dashboardCacheKey); err != nil {
		logger.Debug("Dashboard cache delete failed: %v", err)
	}
}
