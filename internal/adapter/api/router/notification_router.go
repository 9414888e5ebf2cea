package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/handler"
	"loklagbe/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread", notificationHandler.Unread)
	notifications.GET("/:id", notificationHandler.Open)
	notifications.PATCH("/:id/read", notificationHandler.MarkRead)
}
