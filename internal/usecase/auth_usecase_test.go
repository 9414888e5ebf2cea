package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loklagbe/internal/domain/entity"
	apperrors "loklagbe/pkg/errors"
)

func TestRegisterCreatesProfileAndSendsVerification(t *testing.T) {
	f := newFixture()

	user, err := f.auth.Register(context.Background(), RegisterInput{
		FullName: " Nusrat Jahan ",
		Email:    "Nusrat@Example.com",
		Password: "secret123",
		Phone:    "01700000000",
		NID:      "1234567890",
	})
	require.NoError(t, err)

	assert.Equal(t, "nusrat@example.com", user.Email)
	assert.Equal(t, "Nusrat Jahan", user.FullName)
	assert.Equal(t, entity.DefaultRating, user.Rating)
	assert.Zero(t, user.Wallet)
	assert.False(t, user.Verified)
	assert.Equal(t, entity.RoleUser, user.Role)

	stored := f.s.users[user.ID]
	require.NotNil(t, stored)
	assert.Equal(t, user.Email, stored.Email)
	assert.Len(t, f.identity.verifySent, 1)
	assert.Contains(t, f.identity.revoked, user.ID)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	f := newFixture()
	uid, _ := f.identity.CreateUser(context.Background(), "a@b.com", "pw", "A")
	f.s.addUser(&entity.User{ID: uid, Email: "a@b.com", FullName: "A"})

	_, err := f.auth.Login(context.Background(), "a@b.com", "pw")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Equal(t, "Please verify your email before logging in.", appErr.Message)
	assert.Contains(t, f.identity.revoked, uid)

	f.identity.verified[uid] = true
	res, err := f.auth.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, uid, res.User.ID)
	assert.Equal(t, "id-"+uid, res.Token)
	assert.Equal(t, "refresh-"+uid, res.RefreshToken)
}

func TestLoginMapsGatewayErrors(t *testing.T) {
	tests := []struct {
		code    entity.AuthErrorCode
		appCode string
		message string
	}{
		{entity.AuthWrongPassword, "UNAUTHORIZED", "Incorrect password. Please try again."},
		{entity.AuthInvalidEmail, "BAD_REQUEST", "Invalid email address."},
		{entity.AuthNetworkRequestFailed, "SERVICE_UNAVAILABLE", "Cannot connect to server. Check your internet connection."},
		{entity.AuthTooManyRequests, "TOO_MANY_REQUESTS", "Too many failed attempts. Please try again later."},
		{entity.AuthUserNotFound, "USER_NOT_FOUND", "No user found with this email."},
		{entity.AuthUnknown, "INTERNAL_ERROR", "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			f := newFixture()
			f.identity.signInErr = &entity.AuthError{Code: tt.code, Err: errors.New("gateway")}

			_, err := f.auth.Login(context.Background(), "a@b.com", "pw")
			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.appCode, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestResetPassword(t *testing.T) {
	f := newFixture()
	_, _ = f.identity.CreateUser(context.Background(), "a@b.com", "pw", "A")

	require.NoError(t, f.auth.ResetPassword(context.Background(), " a@b.com "))
	assert.Equal(t, []string{"a@b.com"}, f.identity.resetSent)

	err := f.auth.ResetPassword(context.Background(), "missing@b.com")
	assert.True(t, apperrors.Is(err, "USER_NOT_FOUND"))
}

func TestLogoutRevokesSessions(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.auth.Logout(context.Background(), sessionOf("u1")))
	assert.Equal(t, []string{"u1"}, f.identity.revoked)
}
