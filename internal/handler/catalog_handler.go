package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/service"
)

// CatalogHandler serves classes, subjects, quizzes and exams.
type CatalogHandler struct {
	quizzes service.QuizService
	exams   service.ExamService
}

func NewCatalogHandler(quizzes service.QuizService, exams service.ExamService) *CatalogHandler {
	return &CatalogHandler{quizzes: quizzes, exams: exams}
}

// ListClasses godoc
// @Summary List classes
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.ClassResponse
// @Router /classes [get]
func (h *CatalogHandler) ListClasses(c *fiber.Ctx) error {
	resp, err := h.quizzes.ListClasses(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListSubjects godoc
// @Summary List subjects
// @Tags catalog
// @Produce json
// @Param class_id query string false "Filter by class"
// @Success 200 {array} dto.SubjectResponse
// @Router /subjects [get]
func (h *CatalogHandler) ListSubjects(c *fiber.Ctx) error {
	resp, err := h.quizzes.ListSubjects(c.Context(), c.Query("class_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Premium quizzes report whether the caller already unlocked them.
// @Tags catalog
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Param category query string false "Filter by category"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quizzes [get]
func (h *CatalogHandler) ListQuizzes(c *fiber.Ctx) error {
	req := dto.QuizListRequest{
		SubjectID:  c.Query("subject_id"),
		Category:   c.Query("category"),
		Pagination: middleware.PaginationFrom(c),
	}
	resp, err := h.quizzes.ListQuizzes(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuiz godoc
// @Summary Get quiz details
// @Tags catalog
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *CatalogHandler) GetQuiz(c *fiber.Ctx) error {
	resp, err := h.quizzes.GetQuiz(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UnlockQuiz godoc
// @Summary Unlock a premium quiz
// @Description Charges the premium price once; repeated calls report already_unlocked.
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.UnlockResponse
// @Failure 402 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/unlock [post]
func (h *CatalogHandler) UnlockQuiz(c *fiber.Ctx) error {
	resp, err := h.quizzes.UnlockQuiz(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListExams godoc
// @Summary List exams
// @Tags catalog
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Success 200 {array} dto.ExamResponse
// @Router /exams [get]
func (h *CatalogHandler) ListExams(c *fiber.Ctx) error {
	resp, err := h.exams.ListExams(c.Context(), c.Query("subject_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetExam godoc
// @Summary Get exam details
// @Tags catalog
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id} [get]
func (h *CatalogHandler) GetExam(c *fiber.Ctx) error {
	resp, err := h.exams.GetExam(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
