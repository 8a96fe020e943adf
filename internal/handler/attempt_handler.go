package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/service"
	"quiz-arena/internal/validation"
)

// AttemptHandler drives live quiz and exam attempts. The server owns the
// timers; clients poll GET /attempts/{id} for the current snapshot.
type AttemptHandler struct {
	attempts  service.AttemptService
	validator *validation.Validator
}

func NewAttemptHandler(attempts service.AttemptService, validator *validation.Validator) *AttemptHandler {
	return &AttemptHandler{attempts: attempts, validator: validator}
}

// CreateAttempt godoc
// @Summary Create an attempt
// @Description Loads the quiz or exam questions and returns the attempt in the ready phase.
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body dto.StartAttemptRequest true "Exactly one of quiz_id and exam_id"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse "Premium quiz not unlocked"
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Exam not open"
// @Router /attempts [post]
func (h *AttemptHandler) CreateAttempt(c *fiber.Ctx) error {
	var req dto.StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateStartAttempt(req); len(errs) > 0 {
		return errs
	}
	resp, err := h.attempts.CreateAttempt(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetAttempt godoc
// @Summary Get attempt state
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *fiber.Ctx) error {
	resp, err := h.attempts.GetAttempt(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// StartAttempt godoc
// @Summary Start the countdown of the first question
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{id}/start [post]
func (h *AttemptHandler) StartAttempt(c *fiber.Ctx) error {
	resp, err := h.attempts.StartAttempt(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Answer godoc
// @Summary Answer the current question
// @Description Costs one token. With an empty balance the answer is not recorded and the attempt waits for tokens.
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Param body body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 402 {object} middleware.ErrorResponse "Attempt is waiting for tokens"
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{id}/answer [post]
func (h *AttemptHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateIndex("selected_index", req.SelectedIndex); len(errs) > 0 {
		return errs
	}
	resp, err := h.attempts.Answer(c.Context(), middleware.UserID(c), c.Params("id"), *req.SelectedIndex)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SelectQuestion godoc
// @Summary Review an earlier question
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Param body body dto.SelectQuestionRequest true "Question index"
// @Success 200 {object} dto.QuestionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{id}/select [post]
func (h *AttemptHandler) SelectQuestion(c *fiber.Ctx) error {
	var req dto.SelectQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateIndex("index", req.Index); len(errs) > 0 {
		return errs
	}
	resp, err := h.attempts.SelectQuestion(c.Context(), middleware.UserID(c), c.Params("id"), *req.Index)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DismissAd godoc
// @Summary Close the advertisement
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{id}/ad/dismiss [post]
func (h *AttemptHandler) DismissAd(c *fiber.Ctx) error {
	resp, err := h.attempts.DismissAd(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Resume godoc
// @Summary Resume after topping up tokens
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{id}/resume [post]
func (h *AttemptHandler) Resume(c *fiber.Ctx) error {
	resp, err := h.attempts.Resume(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Abandon godoc
// @Summary End an attempt without saving
// @Tags attempts
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{id} [delete]
func (h *AttemptHandler) Abandon(c *fiber.Ctx) error {
	if err := h.attempts.Abandon(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
