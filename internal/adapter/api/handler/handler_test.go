package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loklagbe/internal/adapter/api"
	"loklagbe/internal/adapter/api/middleware"
	"loklagbe/internal/domain/entity"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = api.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealthCheck(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", "")

	h := NewHealthHandler(nil)
	if assert.NoError(t, h.CheckHealth(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Server is running")
	}
}

func TestStoreHealth(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		status int
	}{
		{"not configured", nil, http.StatusServiceUnavailable},
		{"unreachable", stubPinger{err: stderrors.New("deadline exceeded")}, http.StatusServiceUnavailable},
		{"reachable", stubPinger{}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/firestore-health", "")
			require.NoError(t, NewHealthHandler(tt.store).CheckStoreHealth(c))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandlersRequireSession(t *testing.T) {
	routes := map[string]echo.HandlerFunc{
		"profile":  NewUserHandler(nil).GetProfile,
		"wallet":   NewWalletHandler(nil).GetWallet,
		"apply":    NewWorkflowHandler(nil).Apply,
		"post":     NewWorkHandler(nil).PostWork,
		"logout":   NewAuthHandler(nil).Logout,
		"unread":   NewNotificationHandler(nil).Unread,
		"complain": NewComplaintHandler(nil).Submit,
	}

	for name, h := range routes {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/", "")
			require.NoError(t, h(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestRateRejectsOutOfRangeRating(t *testing.T) {
	for _, body := range []string{`{"rating":0}`, `{"rating":6,"comment":"great"}`} {
		c, rec := newTestContext(http.MethodPost, "/v1/works/w1/rating", body)
		middleware.SetSession(c, entity.Session{UserID: "poster", EmailVerified: true})

		require.NoError(t, NewWorkflowHandler(nil).Rate(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please select a rating between 1 and 5 stars.")
	}
}

func TestRegisterValidation(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/auth/register",
		`{"full_name":"Rahim","email":"not-an-email","password":"secret1","phone":"017","nid":"123"}`)

	require.NoError(t, NewAuthHandler(nil).Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email address.")
}

func TestRecordPaymentRequiresTransactionID(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/works/w1/payment", `{}`)
	middleware.SetSession(c, entity.Session{UserID: "worker"})

	require.NoError(t, NewWorkflowHandler(nil).RecordPayment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "transaction_id is required")
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2024-03-05T10:30:00+06:00")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = parseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("05/03/2024")
	assert.Error(t, err)
}
