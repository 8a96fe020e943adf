package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"quiz-arena/internal/adapter"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

// --- MockProfileRepository ---
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetProfileByGoogleID(ctx context.Context, googleID string) (*domain.Profile, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfileInfo(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) GetBalance(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockProfileRepository) DebitTokens(ctx context.Context, id string, amount int) (bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) CreditTokens(ctx context.Context, id string, amount int) (int, error) {
	args := m.Called(ctx, id, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockProfileRepository) ClaimTokens(ctx context.Context, id string, amount int, now, claimableBefore time.Time) (bool, error) {
	args := m.Called(ctx, id, amount, now, claimableBefore)
	return args.Bool(0), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Class), args.Error(1)
}

func (m *MockQuizRepository) ListSubjects(ctx context.Context, classID string) ([]*domain.Subject, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subject), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]*domain.Quiz, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]domain.Question, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuizRepository) CountQuestions(ctx context.Context, quizID string) (int, error) {
	args := m.Called(ctx, quizID)
	return args.Int(0), args.Error(1)
}

// --- MockExamRepository ---
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) ListExams(ctx context.Context, subjectID string) ([]*domain.Exam, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) GetExamByID(ctx context.Context, id string) (*domain.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

// --- MockResultRepository ---
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) CreateResult(ctx context.Context, result *domain.Result) error {
	return m.Called(ctx, result).Error(0)
}

func (m *MockResultRepository) GetResultByID(ctx context.Context, id string) (*domain.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *MockResultRepository) ListResultsByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Result, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Result), args.Int(1), args.Error(2)
}

// --- MockContentRepository ---
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) ListCurrentAffairs(ctx context.Context, category string, limit, offset int) ([]*domain.CurrentAffair, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CurrentAffair), args.Error(1)
}

func (m *MockContentRepository) GetCurrentAffairByID(ctx context.Context, id string) (*domain.CurrentAffair, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrentAffair), args.Error(1)
}

func (m *MockContentRepository) ListActiveAdvertisements(ctx context.Context, placement string) ([]*domain.Advertisement, error) {
	args := m.Called(ctx, placement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Advertisement), args.Error(1)
}

func (m *MockContentRepository) HasUnlocked(ctx context.Context, userID, contentType, contentID string) (bool, error) {
	args := m.Called(ctx, userID, contentType, contentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) CreateUnlock(ctx context.Context, unlock *domain.ContentUnlock) error {
	return m.Called(ctx, unlock).Error(0)
}

// --- MockTransactionManager ---
// Runs fn inline so repository mocks see the same context.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- MockTokenLedger ---
type MockTokenLedger struct {
	mock.Mock
	invalidated []string
}

func (m *MockTokenLedger) Balance(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTokenLedger) Debit(ctx context.Context, userID string, amount int) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenLedger) Credit(ctx context.Context, userID string, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockTokenLedger) HasEnough(ctx context.Context, userID string, amount int) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenLedger) ClaimDaily(ctx context.Context, userID string) (*dto.TokenCreditResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenCreditResponse), args.Error(1)
}

func (m *MockTokenLedger) Purchase(ctx context.Context, userID string) (*dto.TokenCreditResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenCreditResponse), args.Error(1)
}

// InvalidateBalance only records the call; unlocker tests assert on it when it matters.
func (m *MockTokenLedger) InvalidateBalance(ctx context.Context, userID string) {
	m.invalidated = append(m.invalidated, userID)
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newTestCache(t *testing.T) (domain.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return adapter.NewRedisCacheAdapter(client), mr
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "testsecretkeydontuseinproduction32bytes!",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Cache: config.CacheConfig{
			QuizTTL:        10 * time.Minute,
			BalanceTTL:     time.Minute,
			ExplanationTTL: time.Hour,
		},
		Tokens: config.TokensConfig{
			InitialBalance:     10,
			AnswerCost:         1,
			PremiumQuizCost:    2,
			DailyClaimAmount:   5,
			DailyClaimInterval: 24 * time.Hour,
			PurchasePack:       10,
		},
		Attempt: config.AttemptConfig{
			TickInterval:           time.Second,
			QuestionTimeLimit:      10,
			ExamQuestionTimeLimit:  20,
			FeedbackDelayCorrect:   3,
			FeedbackDelayIncorrect: 2,
			ExamFeedbackDelay:      3,
			AdEvery:                5,
			AdDuration:             5,
			IdleTimeout:            30 * time.Minute,
		},
	}
}

func sampleQuestions(quizID string, n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:                 quizID + "-q" + string(rune('0'+i)),
			QuizID:             quizID,
			Text:               "question",
			Options:            []string{"a", "b", "c"},
			CorrectOptionIndex: 1,
			OrderIndex:         i,
		}
	}
	return qs
}
