package firebase

import (
	"context"
	stderrors "errors"
	"net"
	"net/url"
	"strings"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"

	"loklagbe/internal/domain/entity"
)

// FirebaseAuthClient combines the Admin SDK, which verifies tokens and
// manages accounts, with the Identity Toolkit REST API, which performs
// password sign-in and sends the out-of-band mails.
type FirebaseAuthClient struct {
	client  *auth.Client
	toolkit *identitytoolkit.Service
}

func NewFirebaseAuthClient(client *auth.Client, toolkit *identitytoolkit.Service) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:  client,
		toolkit: toolkit,
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*entity.Session, error) {
	token, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, err
	}

	verified, _ := token.Claims["email_verified"].(bool)
	return &entity.Session{
		UserID:        token.UID,
		EmailVerified: verified,
	}, nil
}

// SignIn checks the password. Failures come back as *entity.AuthError.
func (f *FirebaseAuthClient) SignIn(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, MapSignInError(err)
	}

	return &entity.AuthTokens{
		UserID:       resp.LocalId,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (f *FirebaseAuthClient) EmailVerified(ctx context.Context, uid string) (bool, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return false, err
	}
	return user.EmailVerified, nil
}

func (f *FirebaseAuthClient) SendVerificationEmail(ctx context.Context, idToken string) error {
	_, err := f.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "VERIFY_EMAIL",
		IdToken:     idToken,
	}).Context(ctx).Do()
	if err != nil {
		return MapSignInError(err)
	}
	return nil
}

func (f *FirebaseAuthClient) SendPasswordReset(ctx context.Context, email string) error {
	_, err := f.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return MapSignInError(err)
	}
	return nil
}

// RevokeSessions invalidates every refresh token issued to uid.
func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

func (f *FirebaseAuthClient) DeleteUser(ctx context.Context, uid string) error {
	err := f.client.DeleteUser(ctx, uid)
	if auth.IsUserNotFound(err) {
		return nil
	}
	return err
}

// MapSignInError turns an Identity Toolkit failure into an AuthError code.
func MapSignInError(err error) *entity.AuthError {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return &entity.AuthError{Code: codeFromReason(apiErr.Message), Err: err}
	}

	var netErr net.Error
	var urlErr *url.Error
	if stderrors.As(err, &netErr) || stderrors.As(err, &urlErr) {
		return &entity.AuthError{Code: entity.AuthNetworkRequestFailed, Err: err}
	}

	return &entity.AuthError{Code: entity.AuthUnknown, Err: err}
}

func codeFromReason(message string) entity.AuthErrorCode {
	// Messages look like "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account...".
	reason := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])

	switch reason {
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return entity.AuthWrongPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return entity.AuthInvalidEmail
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return entity.AuthUserNotFound
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return entity.AuthTooManyRequests
	default:
		return entity.AuthUnknown
	}
}
