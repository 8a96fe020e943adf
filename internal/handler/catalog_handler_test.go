package handler_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/handler"
	"quiz-arena/internal/middleware"
)

type MockQuizService struct {
	ListClassesFunc  func(ctx context.Context) ([]dto.ClassResponse, error)
	ListSubjectsFunc func(ctx context.Context, classID string) ([]dto.SubjectResponse, error)
	ListQuizzesFunc  func(ctx context.Context, userID string, req dto.QuizListRequest) ([]dto.QuizResponse, error)
	GetQuizFunc      func(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	UnlockQuizFunc   func(ctx context.Context, userID, quizID string) (*dto.UnlockResponse, error)
}

func (m *MockQuizService) ListClasses(ctx context.Context) ([]dto.ClassResponse, error) {
	return m.ListClassesFunc(ctx)
}
func (m *MockQuizService) ListSubjects(ctx context.Context, classID string) ([]dto.SubjectResponse, error) {
	return m.ListSubjectsFunc(ctx, classID)
}
func (m *MockQuizService) ListQuizzes(ctx context.Context, userID string, req dto.QuizListRequest) ([]dto.QuizResponse, error) {
	return m.ListQuizzesFunc(ctx, userID, req)
}
func (m *MockQuizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	return m.GetQuizFunc(ctx, userID, quizID)
}
func (m *MockQuizService) UnlockQuiz(ctx context.Context, userID, quizID string) (*dto.UnlockResponse, error) {
	return m.UnlockQuizFunc(ctx, userID, quizID)
}
func (m *MockQuizService) InvalidateQuizCache(ctx context.Context, quizID string) error {
	panic("MockQuizService.InvalidateQuizCache not implemented")
}

type MockExamService struct {
	ListExamsFunc func(ctx context.Context, subjectID string) ([]dto.ExamResponse, error)
	GetExamFunc   func(ctx context.Context, examID string) (*dto.ExamResponse, error)
}

func (m *MockExamService) ListExams(ctx context.Context, subjectID string) ([]dto.ExamResponse, error) {
	return m.ListExamsFunc(ctx, subjectID)
}
func (m *MockExamService) GetExam(ctx context.Context, examID string) (*dto.ExamResponse, error) {
	return m.GetExamFunc(ctx, examID)
}

func TestCatalogHandler(t *testing.T) {
	quizzes := &MockQuizService{
		ListClassesFunc: func(ctx context.Context) ([]dto.ClassResponse, error) {
			return []dto.ClassResponse{{ID: "c1", Name: "Class 8"}}, nil
		},
		ListSubjectsFunc: func(ctx context.Context, classID string) ([]dto.SubjectResponse, error) {
			assert.Equal(t, "c1", classID)
			return []dto.SubjectResponse{{ID: "s1", ClassID: "c1", Name: "Science"}}, nil
		},
		ListQuizzesFunc: func(ctx context.Context, userID string, req dto.QuizListRequest) ([]dto.QuizResponse, error) {
			assert.Equal(t, "", userID, "catalog is public")
			assert.Equal(t, "s1", req.SubjectID)
			assert.Equal(t, dto.DefaultPageLimit, req.Limit)
			return []dto.QuizResponse{{ID: "q1", IsPremium: true}}, nil
		},
		GetQuizFunc: func(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
			return nil, domain.NewQuizNotFoundError(quizID)
		},
	}
	exams := &MockExamService{
		GetExamFunc: func(ctx context.Context, examID string) (*dto.ExamResponse, error) {
			return &dto.ExamResponse{ID: examID, Available: false}, nil
		},
	}

	h := handler.NewCatalogHandler(quizzes, exams)
	app := newTestApp("")
	app.Get("/classes", h.ListClasses)
	app.Get("/subjects", h.ListSubjects)
	app.Get("/quizzes", middleware.NewValidationMiddleware().ValidatePagination(), h.ListQuizzes)
	app.Get("/quizzes/:id", h.GetQuiz)
	app.Get("/exams/:id", h.GetExam)

	status, body := doJSON(t, app, "GET", "/classes", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "Class 8")

	status, _ = doJSON(t, app, "GET", "/subjects?class_id=c1", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, "GET", "/quizzes?subject_id=s1", nil)
	assert.Equal(t, fiber.StatusOK, status)
	var list []dto.QuizResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.True(t, list[0].IsPremium)

	status, _ = doJSON(t, app, "GET", "/quizzes/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = doJSON(t, app, "GET", "/exams/e1", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"available":false`)
}

func TestCatalogHandler_UnlockInsufficientTokens(t *testing.T) {
	quizzes := &MockQuizService{UnlockQuizFunc: func(ctx context.Context, userID, quizID string) (*dto.UnlockResponse, error) {
		assert.Equal(t, "u1", userID)
		return nil, domain.NewInsufficientTokensError(2, 1)
	}}
	h := handler.NewCatalogHandler(quizzes, &MockExamService{})
	app := newTestApp("u1")
	app.Post("/quizzes/:id/unlock", h.UnlockQuiz)

	status, body := doJSON(t, app, "POST", "/quizzes/q1/unlock", nil)
	assert.Equal(t, fiber.StatusPaymentRequired, status)
	assert.Contains(t, string(body), `"required":2`)
}
