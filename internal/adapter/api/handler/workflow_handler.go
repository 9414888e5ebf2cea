package handler

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/usecase"
	"loklagbe/pkg/response"
)

// WorkflowHandler exposes the status transitions of a work. Every route
// takes the work ID as :id.
type WorkflowHandler struct {
	workflowUseCase *usecase.WorkflowUseCase
}

func NewWorkflowHandler(workflowUseCase *usecase.WorkflowUseCase) *WorkflowHandler {
	return &WorkflowHandler{
		workflowUseCase: workflowUseCase,
	}
}

type grantRequest struct {
	NotificationID string `json:"notification_id"`
}

type paymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
}

type rateRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (h *WorkflowHandler) Apply(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.Apply(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) Grant(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req grantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.Grant(c.Request().Context(), session, c.Param("id"), req.NotificationID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) RejectApplicant(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.RejectApplicant(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) RecordPayment(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.RecordPayment(c.Request().Context(), session, c.Param("id"), req.TransactionID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) SubmitCompletion(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.SubmitCompletion(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) ConfirmCompletion(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.ConfirmCompletion(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) RejectCompletion(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	work, err := h.workflowUseCase.RejectCompletion(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, work)
}

func (h *WorkflowHandler) Rate(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req rateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.workflowUseCase.Rate(c.Request().Context(), session, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
