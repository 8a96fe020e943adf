package repository

import (
	"context"
	"fmt"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"
	"quiz-arena/internal/util"

	"github.com/jmoiron/sqlx"
)

const resultColumns = `id, quiz_id, exam_id, user_id, score, total_questions, time_spent, answers, completed_at`

type sqlxResultRepository struct {
	db DBTX
}

func NewSQLXResultRepository(db *sqlx.DB) domain.ResultRepository {
	return &sqlxResultRepository{db: db}
}

func toDomainResult(m *models.QuizResult) *domain.Result {
	answers := make([]int, len(m.Answers))
	copy(answers, m.Answers)
	return &domain.Result{
		ID:             m.ID,
		QuizID:         m.QuizID.String,
		ExamID:         m.ExamID.String,
		UserID:         m.UserID,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		TimeSpent:      m.TimeSpent,
		Answers:        answers,
		CompletedAt:    m.CompletedAt,
	}
}

func fromDomainResult(r *domain.Result) *models.QuizResult {
	return &models.QuizResult{
		ID:             r.ID,
		QuizID:         util.StringToNullString(r.QuizID),
		ExamID:         util.StringToNullString(r.ExamID),
		UserID:         r.UserID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		TimeSpent:      r.TimeSpent,
		Answers:        models.IntSlice(r.Answers),
		CompletedAt:    r.CompletedAt,
	}
}

func (r *sqlxResultRepository) CreateResult(ctx context.Context, result *domain.Result) error {
	if result.ID == "" {
		result.ID = util.NewULID()
	}
	m := fromDomainResult(result)
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO quiz_results (` + resultColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.QuizID, m.ExamID, m.UserID, m.Score, m.TotalQuestions, m.TimeSpent, m.Answers, m.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *sqlxResultRepository) GetResultByID(ctx context.Context, id string) (*domain.Result, error) {
	var m models.QuizResult
	exec := GetExecutor(ctx, r.db)
	if err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT `+resultColumns+` FROM quiz_results WHERE id = ?`), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result by id: %w", err)
	}
	return toDomainResult(&m), nil
}

func (r *sqlxResultRepository) ListResultsByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Result, int, error) {
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, exec.Rebind(`SELECT COUNT(*) FROM quiz_results WHERE user_id = ?`), userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}
	if total == 0 {
		return []*domain.Result{}, 0, nil
	}

	var rows []models.QuizResult
	query := exec.Rebind(`SELECT ` + resultColumns + ` FROM quiz_results WHERE user_id = ?
		ORDER BY completed_at DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`)
	if err := exec.SelectContext(ctx, &rows, query, userID, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list results: %w", err)
	}
	results := make([]*domain.Result, 0, len(rows))
	for i := range rows {
		results = append(results, toDomainResult(&rows[i]))
	}
	return results, total, nil
}
