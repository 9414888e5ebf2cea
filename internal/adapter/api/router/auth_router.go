package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/handler"
	"loklagbe/internal/adapter/api/middleware"
	"loklagbe/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register, middleware.RateLimit(limiter, "register"))
	auth.POST("/login", authHandler.Login, middleware.RateLimit(limiter, "login"))
	auth.POST("/forgot-password", authHandler.ForgotPassword, middleware.RateLimit(limiter, "reset"))
	auth.POST("/logout", authHandler.Logout, authMiddleware.Authenticate)
}
