package router

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/handler"
	"loklagbe/internal/adapter/api/middleware"
)

func SetupWorkRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	workHandler := handler.GetWorkHandler()
	workflowHandler := handler.GetWorkflowHandler()

	e.GET("/v1/categories/:slug/works", workHandler.ByCategory)

	works := e.Group("/v1/works")
	works.GET("", workHandler.Feed)

	authed := works.Group("")
	authed.Use(authMiddleware.Authenticate)

	authed.POST("", workHandler.PostWork)
	authed.GET("/:id", workHandler.GetWork)
	authed.POST("/:id/images", workHandler.UploadImage)

	authed.POST("/:id/apply", workflowHandler.Apply)
	authed.POST("/:id/grant", workflowHandler.Grant)
	authed.POST("/:id/reject-applicant", workflowHandler.RejectApplicant)
	authed.POST("/:id/payment", workflowHandler.RecordPayment)
	authed.POST("/:id/completion", workflowHandler.SubmitCompletion)
	authed.POST("/:id/completion/confirm", workflowHandler.ConfirmCompletion)
	authed.POST("/:id/completion/reject", workflowHandler.RejectCompletion)
	authed.POST("/:id/rating", workflowHandler.Rate)
}
