package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/service"
)

// ContentHandler serves current affairs and advertisements.
type ContentHandler struct {
	content service.ContentService
}

func NewContentHandler(content service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// ListCurrentAffairs godoc
// @Summary List current affairs
// @Description Premium articles omit their body until unlocked.
// @Tags content
// @Produce json
// @Param category query string false "Filter by category"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.CurrentAffairResponse
// @Router /current-affairs [get]
func (h *ContentHandler) ListCurrentAffairs(c *fiber.Ctx) error {
	category, _ := c.Locals(middleware.CategoryKey).(string)
	req := dto.CurrentAffairListRequest{
		Category:   category,
		Pagination: middleware.PaginationFrom(c),
	}
	resp, err := h.content.ListCurrentAffairs(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCurrentAffair godoc
// @Summary Get a current affairs article
// @Tags content
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} dto.CurrentAffairResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /current-affairs/{id} [get]
func (h *ContentHandler) GetCurrentAffair(c *fiber.Ctx) error {
	resp, err := h.content.GetCurrentAffair(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UnlockCurrentAffair godoc
// @Summary Unlock a premium article
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Article ID"
// @Success 200 {object} dto.UnlockResponse
// @Failure 402 {object} middleware.ErrorResponse
// @Router /current-affairs/{id}/unlock [post]
func (h *ContentHandler) UnlockCurrentAffair(c *fiber.Ctx) error {
	resp, err := h.content.UnlockCurrentAffair(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListAdvertisements godoc
// @Summary List active advertisements
// @Tags content
// @Produce json
// @Param placement query string false "quiz, dashboard, results or current_affairs" default(dashboard)
// @Success 200 {array} dto.AdvertisementResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /advertisements [get]
func (h *ContentHandler) ListAdvertisements(c *fiber.Ctx) error {
	placement, _ := c.Locals(middleware.PlacementKey).(string)
	resp, err := h.content.ListAdvertisements(c.Context(), placement)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
