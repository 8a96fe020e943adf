package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/attempt"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

// stillTicker never fires, so tests drive attempts only through actions.
type stillTicker struct{ ch chan time.Time }

func (s stillTicker) C() <-chan time.Time { return s.ch }
func (s stillTicker) Stop()               {}

type attemptFixture struct {
	svc      AttemptService
	quizzes  *MockQuizRepository
	exams    *MockExamRepository
	content  *MockContentRepository
	results  *MockResultRepository
	ledger   *MockTokenLedger
	registry *attempt.Registry
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	f := &attemptFixture{
		quizzes: new(MockQuizRepository),
		exams:   new(MockExamRepository),
		content: new(MockContentRepository),
		results: new(MockResultRepository),
		ledger:  new(MockTokenLedger),
	}
	f.registry = attempt.NewRegistry(time.Second, time.Hour,
		attempt.WithTickerFactory(func(time.Duration) attempt.Ticker { return stillTicker{ch: make(chan time.Time)} }))
	t.Cleanup(f.registry.Close)

	c, _ := newTestCache(t)
	cfg := testConfig()
	f.svc = NewAttemptService(
		f.quizzes, f.exams, f.content, f.results,
		NewQuestionSource(f.quizzes, c, time.Minute),
		NewUnlocker(f.content, f.ledger, &MockTransactionManager{}),
		f.ledger, f.registry, cfg,
	)
	return f
}

func (f *attemptFixture) expectQuiz(quiz *domain.Quiz, questions int) {
	f.quizzes.On("GetQuizByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, quiz.ID).Return(sampleQuestions(quiz.ID, questions), nil)
	f.content.On("ListActiveAdvertisements", mock.Anything, domain.PlacementQuiz).Return([]*domain.Advertisement{}, nil)
}

func TestAttemptService_CreateRequiresExactlyOneTarget(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.CreateAttempt(context.Background(), "u1", dto.StartAttemptRequest{})
	assert.Error(t, err)
	_, err = f.svc.CreateAttempt(context.Background(), "u1", dto.StartAttemptRequest{QuizID: "a", ExamID: "b"})
	assert.Error(t, err)
}

func TestAttemptService_QuizFlow(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	f.expectQuiz(&domain.Quiz{ID: "quiz1", Title: "Fractions", TimeLimit: 15}, 2)
	f.ledger.On("Balance", mock.Anything, "u1").Return(10, nil)
	f.ledger.On("Debit", mock.Anything, "u1", 1).Return(true, nil)

	created, err := f.svc.CreateAttempt(ctx, "u1", dto.StartAttemptRequest{QuizID: "quiz1"})
	require.NoError(t, err)
	assert.Equal(t, "ready", created.Phase)
	assert.Equal(t, 2, created.TotalQuestions)
	require.NotNil(t, created.Balance)
	assert.Equal(t, 10, *created.Balance)

	started, err := f.svc.StartAttempt(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "question", started.Phase)
	assert.Equal(t, 15, started.SecondsLeft, "quiz time limit overrides the default")
	require.NotNil(t, started.Question)
	assert.Nil(t, started.Question.CorrectOptionIndex)

	answer, err := f.svc.Answer(ctx, "u1", created.ID, 1)
	require.NoError(t, err)
	assert.True(t, answer.Accepted)
	assert.True(t, answer.Correct)
	require.NotNil(t, answer.CorrectOptionIndex)
	assert.Equal(t, "feedback", answer.Attempt.Phase)

	_, err = f.svc.GetAttempt(ctx, "intruder", created.ID)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeAttemptNotFound, derr.Code)

	require.NoError(t, f.svc.Abandon(ctx, "u1", created.ID))
	_, err = f.svc.GetAttempt(ctx, "u1", created.ID)
	assert.Error(t, err)
	f.results.AssertNotCalled(t, "CreateResult", mock.Anything, mock.Anything)
}

func TestAttemptService_InsufficientTokens(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	f.expectQuiz(&domain.Quiz{ID: "quiz1"}, 3)
	f.ledger.On("Balance", mock.Anything, "u1").Return(0, nil)
	f.ledger.On("Debit", mock.Anything, "u1", 1).Return(false, nil)

	created, err := f.svc.CreateAttempt(ctx, "u1", dto.StartAttemptRequest{QuizID: "quiz1"})
	require.NoError(t, err)
	_, err = f.svc.StartAttempt(ctx, "u1", created.ID)
	require.NoError(t, err)

	answer, err := f.svc.Answer(ctx, "u1", created.ID, 0)
	require.NoError(t, err)
	assert.False(t, answer.Accepted)
	assert.True(t, answer.InsufficientTokens)
	assert.Equal(t, "awaiting_tokens", answer.Attempt.Phase)
	assert.Empty(t, answer.Attempt.Answers)
	require.NotNil(t, answer.Attempt.Balance)
	assert.Zero(t, *answer.Attempt.Balance)

	resumed, err := f.svc.Resume(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "question", resumed.Phase)
}

func TestAttemptService_PremiumQuizNeedsUnlock(t *testing.T) {
	f := newAttemptFixture(t)

	f.expectQuiz(&domain.Quiz{ID: "gold", IsPremium: true}, 2)
	f.ledger.On("Balance", mock.Anything, "u1").Return(10, nil)
	f.content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeQuiz, "gold").Return(false, nil)

	_, err := f.svc.CreateAttempt(context.Background(), "u1", dto.StartAttemptRequest{QuizID: "gold"})
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeContentLocked, derr.Code)
	assert.Zero(t, f.registry.Len())
}

func TestAttemptService_QuizWithoutQuestions(t *testing.T) {
	f := newAttemptFixture(t)
	f.expectQuiz(&domain.Quiz{ID: "empty"}, 0)
	f.ledger.On("Balance", mock.Anything, "u1").Return(10, nil)

	_, err := f.svc.CreateAttempt(context.Background(), "u1", dto.StartAttemptRequest{QuizID: "empty"})
	assert.ErrorIs(t, err, attempt.ErrNoQuestions)
}

func TestAttemptService_ExamWindow(t *testing.T) {
	f := newAttemptFixture(t)
	future := time.Now().Add(48 * time.Hour)
	f.exams.On("GetExamByID", mock.Anything, "closed").Return(&domain.Exam{ID: "closed", StartDate: &future}, nil)

	_, err := f.svc.CreateAttempt(context.Background(), "u1", dto.StartAttemptRequest{ExamID: "closed"})
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeExamUnavailable, derr.Code)
}

func TestAttemptService_ExamAttempt(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	f.exams.On("GetExamByID", mock.Anything, "exam1").Return(&domain.Exam{ID: "exam1", Title: "Midterm", QuizIDs: []string{"qa", "qb"}}, nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "qa").Return(sampleQuestions("qa", 2), nil)
	f.quizzes.On("GetQuestionsByQuizID", mock.Anything, "qb").Return(sampleQuestions("qb", 2), nil)
	f.ledger.On("Balance", mock.Anything, "u1").Return(5, nil)

	created, err := f.svc.CreateAttempt(ctx, "u1", dto.StartAttemptRequest{ExamID: "exam1"})
	require.NoError(t, err)
	assert.Equal(t, "exam", created.Kind)
	assert.Equal(t, 4, created.TotalQuestions)

	started, err := f.svc.StartAttempt(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, started.SecondsLeft)
	f.content.AssertNotCalled(t, "ListActiveAdvertisements", mock.Anything, mock.Anything)
}

func TestAttemptService_SelectQuestion(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	f.expectQuiz(&domain.Quiz{ID: "quiz1"}, 2)
	f.ledger.On("Balance", mock.Anything, "u1").Return(10, nil)

	created, err := f.svc.CreateAttempt(ctx, "u1", dto.StartAttemptRequest{QuizID: "quiz1"})
	require.NoError(t, err)
	_, err = f.svc.SelectQuestion(ctx, "u1", created.ID, 0)
	assert.ErrorIs(t, err, attempt.ErrNotStarted)

	_, err = f.svc.StartAttempt(ctx, "u1", created.ID)
	require.NoError(t, err)
	q, err := f.svc.SelectQuestion(ctx, "u1", created.ID, 0)
	require.NoError(t, err)
	assert.False(t, q.Answered)
	assert.Nil(t, q.Selected)

	_, err = f.svc.SelectQuestion(ctx, "u1", created.ID, 1)
	assert.ErrorIs(t, err, attempt.ErrCannotSelect)

	_, err = f.svc.DismissAd(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, attempt.ErrNoAdShowing)
}
