package handler

import (
	"github.com/labstack/echo/v4"

	"loklagbe/internal/usecase"
	"loklagbe/pkg/logger"
	"loklagbe/pkg/response"
	"loklagbe/pkg/utils"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.adminUseCase.Dashboard(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminUseCase.Users(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	p := utils.GetPaginationParams(c)
	return response.Paginated(c, utils.PageSlice(users, p), int64(len(users)), p.Page, p.PageSize)
}

func (h *AdminHandler) ToggleVerified(c echo.Context) error {
	userID := c.Param("id")
	verified, err := h.adminUseCase.ToggleVerified(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	logger.Info("Admin set verified=%t for user %s", verified, userID)
	return response.Success(c, map[string]interface{}{
		"id":       userID,
		"verified": verified,
	})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	userID := c.Param("id")
	if err := h.adminUseCase.DeleteUser(c.Request().Context(), session, userID); err != nil {
		return response.Error(c, err)
	}

	logger.Info("Admin %s deleted user %s", session.UserID, userID)
	return response.Success(c, map[string]string{
		"id": userID,
	})
}

// ListPosts lists every work, optionally filtered by ?category= and ?location=.
func (h *AdminHandler) ListPosts(c echo.Context) error {
	posts, err := h.adminUseCase.Posts(c.Request().Context(), usecase.PostFilter{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	p := utils.GetPaginationParams(c)
	return response.Paginated(c, utils.PageSlice(posts, p), int64(len(posts)), p.Page, p.PageSize)
}

func (h *AdminHandler) CompletedPosts(c echo.Context) error {
	posts, err := h.adminUseCase.CompletedPosts(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, posts)
}

func (h *AdminHandler) DeletePost(c echo.Context) error {
	workID := c.Param("id")
	if err := h.adminUseCase.DeletePost(c.Request().Context(), workID); err != nil {
		return response.Error(c, err)
	}

	logger.Info("Admin deleted work %s", workID)
	return response.Success(c, map[string]string{
		"id": workID,
	})
}
