package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/handler"
	"loklagbe/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.GET("/me/history", userHandler.GetHistory)
	users.GET("/me/works/posted", userHandler.GetPostedWorks)
	users.GET("/me/works/pending", userHandler.GetPendingWorks)
	users.GET("/me/works/completed", userHandler.GetCompletedWorks)
	users.GET("/:id", userHandler.ViewUser)
}
