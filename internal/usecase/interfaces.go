package usecase

import (
	"context"
	"time"

	"loklagbe/internal/domain/entity"
)

// IdentityGateway is the authentication provider. SignIn failures are
// returned as *entity.AuthError.
type IdentityGateway interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	SignIn(ctx context.Context, email, password string) (*entity.AuthTokens, error)
	EmailVerified(ctx context.Context, uid string) (bool, error)
	SendVerificationEmail(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	RevokeSessions(ctx context.Context, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}

// Cache is a best effort key/value store. Callers treat errors as misses.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
