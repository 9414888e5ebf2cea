package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/middleware"
	"loklagbe/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	SetupAuthRouter(e, authMiddleware, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupWorkRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupComplaintRouter(e, authMiddleware, adminMiddleware)
	SetupWalletRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
