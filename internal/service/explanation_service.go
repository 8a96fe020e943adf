package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
)

// ExplanationService explains a question of a completed result. Stored
// explanations win; otherwise a generator, when configured, writes one.
type ExplanationService interface {
	Explain(ctx context.Context, userID, resultID string, index int) (*dto.ExplanationResponse, error)
}

type explanationServiceImpl struct {
	results   domain.ResultRepository
	exams     domain.ExamRepository
	questions *QuestionSource
	generator domain.TextGenerator
	cache     domain.Cache
	ttl       time.Duration
}

// NewExplanationService accepts a nil generator when LLM explanations are disabled.
func NewExplanationService(
	results domain.ResultRepository,
	exams domain.ExamRepository,
	questions *QuestionSource,
	generator domain.TextGenerator,
	c domain.Cache,
	ttl time.Duration,
) ExplanationService {
	return &explanationServiceImpl{
		results:   results,
		exams:     exams,
		questions: questions,
		generator: generator,
		cache:     c,
		ttl:       ttl,
	}
}

func (s *explanationServiceImpl) questionsFor(ctx context.Context, r *domain.Result) ([]domain.Question, error) {
	if r.QuizID != "" {
		return s.questions.ForQuiz(ctx, r.QuizID)
	}
	exam, err := s.exams.GetExamByID(ctx, r.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if exam == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("exam %s not found", r.ExamID))
	}
	return s.questions.ForExam(ctx, exam)
}

func (s *explanationServiceImpl) Explain(ctx context.Context, userID, resultID string, index int) (*dto.ExplanationResponse, error) {
	r, err := ownedResult(ctx, s.results, userID, resultID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= r.TotalQuestions {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("question index %d is out of range", index))
	}

	questions, err := s.questionsFor(ctx, r)
	if err != nil {
		return nil, err
	}
	if index >= len(questions) {
		return nil, domain.NewNotFoundError("question no longer exists")
	}
	q := questions[index]

	selected := domain.NoAnswer
	if index < len(r.Answers) {
		selected = r.Answers[index]
	}
	resp := &dto.ExplanationResponse{
		ResultID:           r.ID,
		Index:              index,
		QuestionID:         q.ID,
		Question:           q.Text,
		Selected:           selected,
		CorrectOptionIndex: q.CorrectOptionIndex,
	}

	if strings.TrimSpace(q.Explanation) != "" {
		resp.Explanation = q.Explanation
		resp.Source = dto.ExplanationStored
		return resp, nil
	}
	if s.generator == nil {
		return nil, domain.NewNotFoundError("no explanation available for this question")
	}

	text, err := s.generate(ctx, q)
	if err != nil {
		return nil, err
	}
	resp.Explanation = text
	resp.Source = dto.ExplanationGenerated
	return resp, nil
}

// generate caches per question since the explanation does not depend on the player's choice.
func (s *explanationServiceImpl) generate(ctx context.Context, q domain.Question) (string, error) {
	key := cache.GenerateCacheKey("explanation", "question", q.ID)
	var cached string
	if hit, _ := cache.GetJSON(ctx, s.cache, key, &cached); hit && cached != "" {
		return cached, nil
	}

	text, err := s.generator.Generate(ctx, explanationPrompt(q))
	if err != nil {
		logger.Get().Error("Failed to generate explanation", zap.String("questionID", q.ID), zap.Error(err))
		return "", err
	}
	cache.SetJSON(ctx, s.cache, key, text, s.ttl)
	return text, nil
}

func explanationPrompt(q domain.Question) string {
	var b strings.Builder
	b.WriteString("You are a patient tutor. Explain in under 80 words why the correct option answers the question.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%c) %s\n", 'A'+i, opt)
	}
	if q.ValidOption(q.CorrectOptionIndex) {
		fmt.Fprintf(&b, "Correct option: %c) %s\n", 'A'+q.CorrectOptionIndex, q.Options[q.CorrectOptionIndex])
	}
	b.WriteString("\nRespond with the explanation only.")
	return b.String()
}
