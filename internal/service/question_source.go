package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

// QuestionSource loads the ordered question list of quizzes and exams through
// the cache. Concurrent misses for the same quiz share one database read.
type QuestionSource struct {
	quizzes domain.QuizRepository
	cache   domain.Cache
	ttl     time.Duration
	group   singleflight.Group
}

func NewQuestionSource(quizzes domain.QuizRepository, c domain.Cache, ttl time.Duration) *QuestionSource {
	return &QuestionSource{quizzes: quizzes, cache: c, ttl: ttl}
}

func questionsCacheKey(quizID string) string {
	return cache.GenerateCacheKey("quiz", "questions", quizID)
}

// ForQuiz returns the quiz's questions ordered by order_index.
func (s *QuestionSource) ForQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	key := questionsCacheKey(quizID)

	var questions []domain.Question
	hit, err := cache.GetJSON(ctx, s.cache, key, &questions)
	if err != nil {
		logger.Get().Warn("Question cache read failed", zap.String("quizID", quizID), zap.Error(err))
	}
	if hit {
		return questions, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		qs, err := s.quizzes.GetQuestionsByQuizID(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if len(qs) > 0 {
			cache.SetJSON(ctx, s.cache, key, qs, s.ttl)
		}
		return qs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for quiz %s: %w", quizID, err)
	}
	if shared {
		logger.Get().Debug("Shared question load", zap.String("quizID", quizID))
	}
	return v.([]domain.Question), nil
}

// ForExam concatenates the questions of the exam's quizzes in exam order.
func (s *QuestionSource) ForExam(ctx context.Context, exam *domain.Exam) ([]domain.Question, error) {
	parts := make([][]domain.Question, len(exam.QuizIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, quizID := range exam.QuizIDs {
		i, quizID := i, quizID
		g.Go(func() error {
			qs, err := s.ForQuiz(gctx, quizID)
			if err != nil {
				return err
			}
			parts[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Question
	for _, p := range parts {
		all = append(all, p...)
	}
	return all, nil
}

// Invalidate drops the cached questions of a quiz.
func (s *QuestionSource) Invalidate(ctx context.Context, quizID string) {
	cache.Invalidate(ctx, s.cache, questionsCacheKey(quizID))
}
