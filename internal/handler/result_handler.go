package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/service"
)

type ResultHandler struct {
	results      service.ResultService
	explanations service.ExplanationService
}

func NewResultHandler(results service.ResultService, explanations service.ExplanationService) *ResultHandler {
	return &ResultHandler{results: results, explanations: explanations}
}

// GetResult godoc
// @Summary Get a completed attempt
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Result ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) GetResult(c *fiber.Ctx) error {
	resp, err := h.results.GetResult(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetExplanation godoc
// @Summary Explain a question of a result
// @Description Returns the stored explanation, or one written by the LLM when none is stored.
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Result ID"
// @Param index path int true "Question index"
// @Success 200 {object} dto.ExplanationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /results/{id}/questions/{index}/explanation [get]
func (h *ResultHandler) GetExplanation(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("index", c.Params("index"))}
	}
	resp, err := h.explanations.Explain(c.Context(), middleware.UserID(c), c.Params("id"), index)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
