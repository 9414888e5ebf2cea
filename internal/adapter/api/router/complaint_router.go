package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/handler"
	"loklagbe/internal/adapter/api/middleware"
)

func SetupComplaintRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	complaintHandler := handler.GetComplaintHandler()

	complaints := e.Group("/v1/complaints")
	complaints.Use(authMiddleware.Authenticate)
	complaints.POST("", complaintHandler.Submit)

	admin := e.Group("/v1/admin/complaints")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", complaintHandler.List)
	admin.GET("/:id", complaintHandler.Get)
	admin.POST("/:id/feedback", complaintHandler.SendFeedback)
}
