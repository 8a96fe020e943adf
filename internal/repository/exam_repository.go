package repository

import (
	"context"
	"fmt"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"
	"quiz-arena/internal/util"

	"github.com/jmoiron/sqlx"
)

const examColumns = `id, subject_id, title, description, duration, start_date, end_date, created_at`

type sqlxExamRepository struct {
	db DBTX
}

func NewSQLXExamRepository(db *sqlx.DB) domain.ExamRepository {
	return &sqlxExamRepository{db: db}
}

func toDomainExam(m *models.Exam) *domain.Exam {
	return &domain.Exam{
		ID:          m.ID,
		SubjectID:   m.SubjectID.String,
		Title:       m.Title,
		Description: m.Description.String,
		Duration:    m.Duration,
		StartDate:   util.NullTimeToPtr(m.StartDate),
		EndDate:     util.NullTimeToPtr(m.EndDate),
		CreatedAt:   m.CreatedAt,
	}
}

func (r *sqlxExamRepository) ListExams(ctx context.Context, subjectID string) ([]*domain.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams`
	args := []interface{}{}
	if subjectID != "" {
		query += ` WHERE subject_id = ?`
		args = append(args, subjectID)
	}
	query += ` ORDER BY created_at DESC`

	var rows []models.Exam
	exec := GetExecutor(ctx, r.db)
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	exams := make([]*domain.Exam, 0, len(rows))
	for i := range rows {
		exams = append(exams, toDomainExam(&rows[i]))
	}
	return exams, nil
}

func (r *sqlxExamRepository) GetExamByID(ctx context.Context, id string) (*domain.Exam, error) {
	var m models.Exam
	exec := GetExecutor(ctx, r.db)
	if err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT `+examColumns+` FROM exams WHERE id = ?`), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam by id: %w", err)
	}
	exam := toDomainExam(&m)

	query := exec.Rebind(`SELECT quiz_id FROM exam_quizzes WHERE exam_id = ? ORDER BY order_index`)
	if err := exec.SelectContext(ctx, &exam.QuizIDs, query, id); err != nil {
		return nil, fmt.Errorf("failed to get quizzes for exam %s: %w", id, err)
	}
	return exam, nil
}
