package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"loklagbe/internal/domain/entity"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/response"
)

const sessionKey = "session"

// TokenVerifier checks an ID token and returns the caller it belongs to.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*entity.Session, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		session, err := m.verifier.VerifyIDToken(c.Request().Context(), parts[1])
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set("uid", session.UserID)
		c.Set(sessionKey, *session)

		return next(c)
	}
}

// Session returns the caller set by Authenticate.
func Session(c echo.Context) (entity.Session, bool) {
	s, ok := c.Get(sessionKey).(entity.Session)
	return s, ok && s.UserID != ""
}

// SetSession is used by tests and by callers that authenticate elsewhere.
func SetSession(c echo.Context, s entity.Session) {
	c.Set("uid", s.UserID)
	c.Set(sessionKey, s)
}
