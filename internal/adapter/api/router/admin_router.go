package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/handler"
	"loklagbe/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/dashboard", adminHandler.Dashboard)

	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/verified", adminHandler.ToggleVerified)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	admin.GET("/posts", adminHandler.ListPosts)
	admin.GET("/posts/completed", adminHandler.CompletedPosts)
	admin.DELETE("/posts/:id", adminHandler.DeletePost)
}
