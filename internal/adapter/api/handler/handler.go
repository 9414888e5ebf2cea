package handler

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/adapter/api/middleware"
	"loklagbe/internal/domain/entity"
	"loklagbe/internal/usecase"
	"loklagbe/pkg/errors"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	workHandler         *WorkHandler
	workflowHandler     *WorkflowHandler
	notificationHandler *NotificationHandler
	complaintHandler    *ComplaintHandler
	walletHandler       *WalletHandler
	adminHandler        *AdminHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	workUseCase *usecase.WorkUseCase,
	workflowUseCase *usecase.WorkflowUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	complaintUseCase *usecase.ComplaintUseCase,
	walletUseCase *usecase.WalletUseCase,
	adminUseCase *usecase.AdminUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	workHandler = NewWorkHandler(workUseCase)
	workflowHandler = NewWorkflowHandler(workflowUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	complaintHandler = NewComplaintHandler(complaintUseCase)
	walletHandler = NewWalletHandler(walletUseCase)
	adminHandler = NewAdminHandler(adminUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetWorkHandler() *WorkHandler {
	return workHandler
}

func GetWorkflowHandler() *WorkflowHandler {
	return workflowHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetComplaintHandler() *ComplaintHandler {
	return complaintHandler
}

func GetWalletHandler() *WalletHandler {
	return walletHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

// currentSession returns the authenticated caller or an UNAUTHORIZED error
// for routes mounted without the auth middleware.
func currentSession(c echo.Context) (entity.Session, error) {
	session, ok := middleware.Session(c)
	if !ok {
		return entity.Session{}, errors.Unauthorized("Authentication required", nil)
	}
	return session, nil
}

// bindAndValidate binds the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}
