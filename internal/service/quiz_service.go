package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

// QuizService serves the class/subject/quiz catalog and premium quiz unlocks.
type QuizService interface {
	ListClasses(ctx context.Context) ([]dto.ClassResponse, error)
	ListSubjects(ctx context.Context, classID string) ([]dto.SubjectResponse, error)
	// ListQuizzes marks premium quizzes the caller unlocked. userID may be empty.
	ListQuizzes(ctx context.Context, userID string, req dto.QuizListRequest) ([]dto.QuizResponse, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	UnlockQuiz(ctx context.Context, userID, quizID string) (*dto.UnlockResponse, error)
	// InvalidateQuizCache drops cached metadata and questions, used after seeding.
	InvalidateQuizCache(ctx context.Context, quizID string) error
}

type quizServiceImpl struct {
	quizzes   domain.QuizRepository
	questions *QuestionSource
	unlocker  Unlocker
	cache     domain.Cache
	cacheTTL  time.Duration
	price     int
	group     singleflight.Group
}

func NewQuizService(quizzes domain.QuizRepository, questions *QuestionSource, unlocker Unlocker, c domain.Cache, cfg *config.Config) QuizService {
	return &quizServiceImpl{
		quizzes:   quizzes,
		questions: questions,
		unlocker:  unlocker,
		cache:     c,
		cacheTTL:  cfg.Cache.QuizTTL,
		price:     cfg.Tokens.PremiumQuizCost,
	}
}

func quizCacheKey(quizID string) string {
	return cache.GenerateCacheKey("quiz", "detail", quizID)
}

func (s *quizServiceImpl) ListClasses(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.quizzes.ListClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	out := make([]dto.ClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, dto.ClassResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out, nil
}

func (s *quizServiceImpl) ListSubjects(ctx context.Context, classID string) ([]dto.SubjectResponse, error) {
	subjects, err := s.quizzes.ListSubjects(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, sub := range subjects {
		out = append(out, dto.SubjectResponse{ID: sub.ID, ClassID: sub.ClassID, Name: sub.Name, Description: sub.Description})
	}
	return out, nil
}

func (s *quizServiceImpl) toResponse(q *domain.Quiz, unlocked bool) dto.QuizResponse {
	resp := dto.QuizResponse{
		ID:          q.ID,
		SubjectID:   q.SubjectID,
		Title:       q.Title,
		Description: q.Description,
		Category:    q.Category,
		TimeLimit:   q.TimeLimit,
		IsPremium:   q.IsPremium,
		Unlocked:    !q.IsPremium || unlocked,
	}
	if q.IsPremium {
		resp.TokenPrice = s.price
	}
	return resp
}

func (s *quizServiceImpl) isUnlocked(ctx context.Context, userID string, q *domain.Quiz) (bool, error) {
	if !q.IsPremium {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}
	return s.unlocker.IsUnlocked(ctx, userID, domain.ContentTypeQuiz, q.ID)
}

func (s *quizServiceImpl) ListQuizzes(ctx context.Context, userID string, req dto.QuizListRequest) ([]dto.QuizResponse, error) {
	page := req.Pagination.Normalize()
	quizzes, err := s.quizzes.ListQuizzes(ctx, domain.QuizFilter{
		SubjectID: req.SubjectID,
		Category:  req.Category,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	out := make([]dto.QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		unlocked, err := s.isUnlocked(ctx, userID, q)
		if err != nil {
			return nil, err
		}
		out = append(out, s.toResponse(q, unlocked))
	}
	return out, nil
}

// quiz returns quiz metadata through the cache.
func (s *quizServiceImpl) quiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	key := quizCacheKey(quizID)
	var cached domain.Quiz
	if hit, _ := cache.GetJSON(ctx, s.cache, key, &cached); hit {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		q, err := s.quizzes.GetQuizByID(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if q == nil {
			return nil, domain.NewQuizNotFoundError(quizID)
		}
		cache.SetJSON(ctx, s.cache, key, q, s.cacheTTL)
		return q, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Quiz), nil
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	q, err := s.quiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.isUnlocked(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	count, err := s.quizzes.CountQuestions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	resp := s.toResponse(q, unlocked)
	resp.QuestionCount = count
	return &resp, nil
}

func (s *quizServiceImpl) UnlockQuiz(ctx context.Context, userID, quizID string) (*dto.UnlockResponse, error) {
	q, err := s.quiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !q.IsPremium {
		return &dto.UnlockResponse{ContentType: domain.ContentTypeQuiz, ContentID: quizID, AlreadyUnlocked: true}, nil
	}
	return s.unlocker.Unlock(ctx, userID, domain.ContentTypeQuiz, quizID, s.price)
}

func (s *quizServiceImpl) InvalidateQuizCache(ctx context.Context, quizID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, quizCacheKey(quizID)); err != nil {
		return fmt.Errorf("failed to invalidate quiz cache: %w", err)
	}
	s.questions.Invalidate(ctx, quizID)
	return nil
}
