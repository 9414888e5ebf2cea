package entity

import "fmt"

// AuthErrorCode classifies sign-in failures reported by the identity provider.
type AuthErrorCode string

const (
	AuthWrongPassword        AuthErrorCode = "auth/wrong-password"
	AuthInvalidEmail         AuthErrorCode = "auth/invalid-email"
	AuthNetworkRequestFailed AuthErrorCode = "auth/network-request-failed"
	AuthTooManyRequests      AuthErrorCode = "auth/too-many-requests"
	AuthUserNotFound         AuthErrorCode = "auth/user-not-found"
	AuthUnknown              AuthErrorCode = "auth/unknown"
)

type AuthError struct {
	Code AuthErrorCode
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the person signing in.
func (c AuthErrorCode) UserMessage() string {
	switch c {
	case AuthWrongPassword:
		return "Incorrect password. Please try again."
	case AuthInvalidEmail:
		return "Invalid email address."
	case AuthNetworkRequestFailed:
		return "Cannot connect to server. Check your internet connection."
	case AuthTooManyRequests:
		return "Too many failed attempts. Please try again later."
	case AuthUserNotFound:
		return "No user found with this email."
	default:
		return "Something went wrong. Please try again."
	}
}
