package service

import (
	"context"
	"fmt"
	"math"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

// ResultService reads a user's completed attempts.
type ResultService interface {
	GetResult(ctx context.Context, userID, resultID string) (*dto.ResultResponse, error)
	ListResults(ctx context.Context, userID string, page dto.Pagination) (*dto.ResultListResponse, error)
}

type resultServiceImpl struct {
	results domain.ResultRepository
}

func NewResultService(results domain.ResultRepository) ResultService {
	return &resultServiceImpl{results: results}
}

func toResultResponse(r *domain.Result) *dto.ResultResponse {
	resp := &dto.ResultResponse{
		ID:             r.ID,
		QuizID:         r.QuizID,
		ExamID:         r.ExamID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		TimeSpent:      r.TimeSpent,
		Answers:        r.Answers,
		CompletedAt:    r.CompletedAt,
	}
	if r.TotalQuestions > 0 {
		resp.Percentage = math.Round(float64(r.Score)*10000/float64(r.TotalQuestions)) / 100
	}
	return resp
}

// ownedResult hides results of other users behind a not-found error.
func ownedResult(ctx context.Context, repo domain.ResultRepository, userID, resultID string) (*domain.Result, error) {
	r, err := repo.GetResultByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if r == nil || r.UserID != userID {
		return nil, domain.NewNotFoundError(fmt.Sprintf("result %s not found", resultID))
	}
	return r, nil
}

func (s *resultServiceImpl) GetResult(ctx context.Context, userID, resultID string) (*dto.ResultResponse, error) {
	r, err := ownedResult(ctx, s.results, userID, resultID)
	if err != nil {
		return nil, err
	}
	return toResultResponse(r), nil
}

func (s *resultServiceImpl) ListResults(ctx context.Context, userID string, page dto.Pagination) (*dto.ResultListResponse, error) {
	page = page.Normalize()
	results, total, err := s.results.ListResultsByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	out := make([]dto.ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, *toResultResponse(r))
	}
	return &dto.ResultListResponse{
		Results: out,
		PaginationInfo: dto.PaginationInfo{
			TotalItems: total,
			Limit:      page.Limit,
			Offset:     page.Offset,
		},
	}, nil
}
