package service

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

type ExamService interface {
	ListExams(ctx context.Context, subjectID string) ([]dto.ExamResponse, error)
	GetExam(ctx context.Context, examID string) (*dto.ExamResponse, error)
}

type examServiceImpl struct {
	exams domain.ExamRepository
	now   func() time.Time
}

func NewExamService(exams domain.ExamRepository) ExamService {
	return &examServiceImpl{exams: exams, now: time.Now}
}

func (s *examServiceImpl) toResponse(e *domain.Exam) dto.ExamResponse {
	return dto.ExamResponse{
		ID:          e.ID,
		SubjectID:   e.SubjectID,
		Title:       e.Title,
		Description: e.Description,
		Duration:    e.Duration,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		QuizIDs:     e.QuizIDs,
		Available:   e.AvailableAt(s.now()),
	}
}

func (s *examServiceImpl) ListExams(ctx context.Context, subjectID string) ([]dto.ExamResponse, error) {
	exams, err := s.exams.ListExams(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	out := make([]dto.ExamResponse, 0, len(exams))
	for _, e := range exams {
		out = append(out, s.toResponse(e))
	}
	return out, nil
}

func (s *examServiceImpl) GetExam(ctx context.Context, examID string) (*dto.ExamResponse, error) {
	e, err := s.exams.GetExamByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if e == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("exam %s not found", examID))
	}
	resp := s.toResponse(e)
	return &resp, nil
}
