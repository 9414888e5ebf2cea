package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"loklagbe/internal/usecase"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
	"loklagbe/pkg/response"
	"loklagbe/pkg/utils"
)

const dateLayout = "2006-01-02"

type WorkHandler struct {
	workUseCase  *usecase.WorkUseCase
	maxImageSize int64
}

func NewWorkHandler(workUseCase *usecase.WorkUseCase) *WorkHandler {
	return &WorkHandler{
		workUseCase:  workUseCase,
		maxImageSize: 5 * 1024 * 1024,
	}
}

// Field presence is checked by the use case so that a missing field gets
// the same message whichever one it is.
type postWorkRequest struct {
	JobTitle    string  `json:"job_title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

func (h *WorkHandler) PostWork(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req postWorkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return response.Error(c, err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return response.Error(c, err)
	}

	work, err := h.workUseCase.Post(c.Request().Context(), session, usecase.PostWorkInput{
		JobTitle:    req.JobTitle,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Category:    req.Category,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return response.Error(c, err)
	}

	logger.Info("User %s posted work %s", session.UserID, work.ID)
	return response.Created(c, work)
}

func (h *WorkHandler) GetWork(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	detail, err := h.workUseCase.Get(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, detail)
}

// Feed lists active works, optionally filtered by ?category= and ?location=,
// one page at a time (?page=, ?limit=).
func (h *WorkHandler) Feed(c echo.Context) error {
	works, err := h.workUseCase.Feed(c.Request().Context(), usecase.FeedFilter{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	p := utils.GetPaginationParams(c)
	return response.Paginated(c, utils.PageSlice(works, p), int64(len(works)), p.Page, p.PageSize)
}

func (h *WorkHandler) ByCategory(c echo.Context) error {
	category, works, err := h.workUseCase.ByCategorySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"category": category,
		"works":    works,
	})
}

func (h *WorkHandler) UploadImage(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid image", err))
	}
	if file.Size > h.maxImageSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("Image exceeds the maximum size of %dMB", h.maxImageSize/(1024*1024)), nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read image", err))
	}
	defer src.Close()

	url, err := h.workUseCase.AttachImage(c.Request().Context(), session, c.Param("id"), src, file.Header.Get("Content-Type"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"url": url,
	})
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.BadRequest("Dates must be in YYYY-MM-DD format", err)
	}
	return t, nil
}
