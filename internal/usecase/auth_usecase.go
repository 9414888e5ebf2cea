package usecase

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"loklagbe/internal/domain/entity"
	"loklagbe/internal/domain/repository"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
)

const msgVerifyEmailFirst = "Please verify your email before logging in."

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity IdentityGateway
}

func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityGateway) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	NID      string
}

type AuthResult struct {
	User         *entity.User
	Token        string
	RefreshToken string
}

// Register creates the account and its profile document, then sends the
// verification mail. The caller still has to verify before logging in.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	uid, err := uc.identity.CreateUser(ctx, email, input.Password, input.FullName)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	user := &entity.User{
		ID:            uid,
		FullName:      strings.TrimSpace(input.FullName),
		Email:         email,
		Phone:         strings.TrimSpace(input.Phone),
		NID:           strings.TrimSpace(input.NID),
		Role:          entity.RoleUser,
		Rating:        entity.DefaultRating,
		PostedWorks:   []string{},
		AcceptedWorks: []string{},
		Reviews:       []entity.Review{},
		CreatedAt:     time.Now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if delErr := uc.identity.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth user %s: %v", uid, delErr)
		}
		return nil, err
	}

	tokens, err := uc.identity.SignIn(ctx, email, input.Password)
	if err != nil {
		logger.Warn("Could not sign in new user %s to send verification: %v", uid, err)
		return user, nil
	}
	if err := uc.identity.SendVerificationEmail(ctx, tokens.IDToken); err != nil {
		logger.Warn("Failed to send verification email to %s: %v", uid, err)
	}
	if err := uc.identity.RevokeSessions(ctx, uid); err != nil {
		logger.Warn("Failed to revoke registration session for %s: %v", uid, err)
	}

	return user, nil
}

// Login signs in with email and password. Accounts whose email is not yet
// verified are signed straight back out.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	tokens, err := uc.identity.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, authFailure(err)
	}

	verified, err := uc.identity.EmailVerified(ctx, tokens.UserID)
	if err != nil {
		return nil, errors.Internal("Failed to check email verification", err)
	}
	if !verified {
		if err := uc.identity.RevokeSessions(ctx, tokens.UserID); err != nil {
			logger.Warn("Failed to revoke session for unverified user %s: %v", tokens.UserID, err)
		}
		return nil, errors.Forbidden(msgVerifyEmailFirst, nil)
	}

	user, err := uc.userRepo.GetByID(ctx, tokens.UserID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		Token:        tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, email string) error {
	if err := uc.identity.SendPasswordReset(ctx, strings.TrimSpace(email)); err != nil {
		return authFailure(err)
	}
	return nil
}

// Logout revokes every refresh token of the caller. ID tokens already
// issued stop verifying because the middleware checks revocation.
func (uc *AuthUseCase) Logout(ctx context.Context, session entity.Session) error {
	if err := uc.identity.RevokeSessions(ctx, session.UserID); err != nil {
		return errors.Internal("Failed to sign out", err)
	}
	return nil
}

func authFailure(err error) error {
	var authErr *entity.AuthError
	if !stderrors.As(err, &authErr) {
		return errors.Internal(entity.AuthUnknown.UserMessage(), err)
	}

	msg := authErr.Code.UserMessage()
	switch authErr.Code {
	case entity.AuthNetworkRequestFailed:
		return errors.ServiceUnavailable(msg, err)
	case entity.AuthTooManyRequests:
		return errors.TooManyRequests(msg)
	case entity.AuthInvalidEmail:
		return errors.BadRequest(msg, err)
	case entity.AuthUserNotFound:
		return errors.New("USER_NOT_FOUND", msg, http.StatusNotFound, err)
	case entity.AuthUnknown:
		return errors.Internal(msg, err)
	default:
		return errors.Unauthorized(msg, err)
	}
}
