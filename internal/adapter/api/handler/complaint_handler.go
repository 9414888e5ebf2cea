package handler

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/usecase"
	"loklagbe/pkg/response"
	"loklagbe/pkg/utils"
)

type ComplaintHandler struct {
	complaintUseCase *usecase.ComplaintUseCase
}

func NewComplaintHandler(complaintUseCase *usecase.ComplaintUseCase) *ComplaintHandler {
	return &ComplaintHandler{
		complaintUseCase: complaintUseCase,
	}
}

type complaintRequest struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

type feedbackRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

func (h *ComplaintHandler) Submit(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req complaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	complaint, err := h.complaintUseCase.Submit(c.Request().Context(), session, req.Title, req.Details)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, complaint)
}

func (h *ComplaintHandler) List(c echo.Context) error {
	complaints, err := h.complaintUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	p := utils.GetPaginationParams(c)
	return response.Paginated(c, utils.PageSlice(complaints, p), int64(len(complaints)), p.Page, p.PageSize)
}

func (h *ComplaintHandler) Get(c echo.Context) error {
	complaint, err := h.complaintUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, complaint)
}

func (h *ComplaintHandler) SendFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	complaint, err := h.complaintUseCase.SendFeedback(c.Request().Context(), c.Param("id"), req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, complaint)
}
