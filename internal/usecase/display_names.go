package usecase

import (
	"context"
	"time"

	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/logger"
)

const unknownUserName = "User"

// DisplayNames resolves user ids to names for listings. Lookups go to the
// cache first and the misses are fetched in one batch.
type DisplayNames struct {
	userRepo repository.UserRepository
	cache    Cache
	ttl      time.Duration
}

func NewDisplayNames(userRepo repository.UserRepository, cache Cache, ttl time.Duration) *DisplayNames {
	return &DisplayNames{
		userRepo: userRepo,
		cache:    cache,
		ttl:      ttl,
	}
}

func nameKey(id string) string {
	return "user:name:" + id
}

// Lookup returns a name for every non-empty id. Unknown users map to "User".
func (d *DisplayNames) Lookup(ctx context.Context, ids ...string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	var missing []string

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, done := names[id]; done {
			continue
		}
		var name string
		hit, err := d.cache.Get(ctx, nameKey(id), &name)
		if err != nil {
			logger.Debug("Name cache read failed for %s: %v", id, err)
		}
		if hit {
			names[id] = name
			continue
		}
		names[id] = unknownUserName
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return names, nil
	}

	users, err := d.userRepo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, user := range users {
		names[id] = user.DisplayName()
		if err := d.cache.Set(ctx, nameKey(id), names[id], d.ttl); err != nil {
			logger.Debug("Name cache write failed for %s: %v", id, err)
		}
	}

	return names, nil
}

func (d *DisplayNames) Forget(ctx context.Context, id string) {
	if err := d.cache.Delete(ctx, nameKey(id)); err != nil {
		logger.Debug("Name cache delete failed for %s: %v", id, err)
	}
}
