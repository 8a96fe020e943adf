package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

type explanationFixture struct {
	svc       ExplanationService
	results   *MockResultRepository
	exams     *MockExamRepository
	quizzes   *MockQuizRepository
	generator *MockTextGenerator
}

func newExplanationFixture(t *testing.T, withGenerator bool) *explanationFixture {
	f := &explanationFixture{
		results:   new(MockResultRepository),
		exams:     new(MockExamRepository),
		quizzes:   new(MockQuizRepository),
		generator: new(MockTextGenerator),
	}
	c, _ := newTestCache(t)
	var gen domain.TextGenerator
	if withGenerator {
		gen = f.generator
	}
	f.svc = NewExplanationService(f.results, f.exams, NewQuestionSource(f.quizzes, c, time.Minute), gen, c, time.Hour)
	return f
}

func TestExplanationService_StoredExplanation(t *testing.T) {
	f := newExplanationFixture(t, true)
	qs := sampleQuestions("quiz1", 2)
	qs[1].Explanation = "Because b."

	f.results.On("GetResultByID", mock.Anything, "r1").Return(&domain.Result{ID: "r1", UserID: "u1", QuizID: "quiz1", TotalQuestions: 2, Answers: []int{1, 0}}, nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "quiz1").Return(qs, nil)

	resp, err := f.svc.Explain(context.Background(), "u1", "r1", 1)
	require.NoError(t, err)
	assert.Equal(t, dto.ExplanationStored, resp.Source)
	assert.Equal(t, "Because b.", resp.Explanation)
	assert.Equal(t, 0, resp.Selected)
	assert.Equal(t, 1, resp.CorrectOptionIndex)
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestExplanationService_GeneratedAndCached(t *testing.T) {
	f := newExplanationFixture(t, true)

	f.results.On("GetResultByID", mock.Anything, "r1").Return(&domain.Result{ID: "r1", UserID: "u1", QuizID: "quiz1", TotalQuestions: 2, Answers: []int{-1, 1}}, nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "quiz1").Return(sampleQuestions("quiz1", 2), nil)
	f.generator.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Question: question") && strings.Contains(p, "Correct option: B) b")
	})).Return("B is right because...", nil).Once()

	for i := 0; i < 2; i++ {
		resp, err := f.svc.Explain(context.Background(), "u1", "r1", 0)
		require.NoError(t, err)
		assert.Equal(t, dto.ExplanationGenerated, resp.Source)
		assert.Equal(t, "B is right because...", resp.Explanation)
		assert.Equal(t, domain.NoAnswer, resp.Selected)
	}
	f.generator.AssertExpectations(t)
}

func TestExplanationService_Errors(t *testing.T) {
	f := newExplanationFixture(t, false)
	f.results.On("GetResultByID", mock.Anything, "r1").Return(&domain.Result{ID: "r1", UserID: "u1", QuizID: "quiz1", TotalQuestions: 2}, nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "quiz1").Return(sampleQuestions("quiz1", 2), nil)

	_, err := f.svc.Explain(context.Background(), "u1", "r1", 5)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInvalidInput, derr.Code)

	_, err = f.svc.Explain(context.Background(), "u1", "r1", 0)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeNotFound, derr.Code, "no stored explanation and no generator")

	_, err = f.svc.Explain(context.Background(), "other", "r1", 0)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeNotFound, derr.Code)
}

func TestExplanationService_ExamResultAndGeneratorFailure(t *testing.T) {
	f := newExplanationFixture(t, true)
	f.results.On("GetResultByID", mock.Anything, "r9").Return(&domain.Result{ID: "r9", UserID: "u1", ExamID: "e1", TotalQuestions: 3}, nil)
	f.exams.On("GetExamByID", mock.Anything, "e1").Return(&domain.Exam{ID: "e1", QuizIDs: []string{"qa", "qb"}}, nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "qa").Return(sampleQuestions("qa", 1), nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "qb").Return(sampleQuestions("qb", 2), nil)
	f.generator.On("Generate", mock.Anything, mock.Anything).Return("", domain.NewLLMServiceError(errors.New("offline")))

	_, err := f.svc.Explain(context.Background(), "u1", "r9", 2)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeLLMServiceError, derr.Code)
}
