package repository

import (
	"context"
	"fmt"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const (
	quizColumns     = `id, subject_id, title, description, category, time_limit, is_premium, created_at`
	questionColumns = `id, quiz_id, question_text, options, correct_option_index, explanation, image_url, order_index`
)

type sqlxQuizRepository struct {
	db DBTX
}

// NewSQLXQuizRepository creates the catalog store for classes, subjects, quizzes and questions.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:          m.ID,
		SubjectID:   m.SubjectID.String,
		Title:       m.Title,
		Description: m.Description.String,
		Category:    m.Category.String,
		TimeLimit:   m.TimeLimit,
		IsPremium:   m.IsPremium,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainQuestion(m *models.Question) domain.Question {
	options := make([]string, len(m.Options))
	copy(options, m.Options)
	return domain.Question{
		ID:                 m.ID,
		QuizID:             m.QuizID,
		Text:               m.QuestionText,
		Options:            options,
		CorrectOptionIndex: m.CorrectOptionIndex,
		Explanation:        m.Explanation.String,
		ImageURL:           m.ImageURL.String,
		OrderIndex:         m.OrderIndex,
	}
}

func (r *sqlxQuizRepository) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	var rows []models.Class
	exec := GetExecutor(ctx, r.db)
	if err := exec.SelectContext(ctx, &rows, `SELECT id, name, description, created_at FROM classes ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	classes := make([]*domain.Class, 0, len(rows))
	for _, m := range rows {
		classes = append(classes, &domain.Class{ID: m.ID, Name: m.Name, Description: m.Description.String, CreatedAt: m.CreatedAt})
	}
	return classes, nil
}

func (r *sqlxQuizRepository) ListSubjects(ctx context.Context, classID string) ([]*domain.Subject, error) {
	var rows []models.Subject
	exec := GetExecutor(ctx, r.db)
	query := `SELECT id, class_id, name, description, created_at FROM subjects`
	args := []interface{}{}
	if classID != "" {
		query += ` WHERE class_id = ?`
		args = append(args, classID)
	}
	query += ` ORDER BY name`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	subjects := make([]*domain.Subject, 0, len(rows))
	for _, m := range rows {
		subjects = append(subjects, &domain.Subject{
			ID: m.ID, ClassID: m.ClassID, Name: m.Name, Description: m.Description.String, CreatedAt: m.CreatedAt,
		})
	}
	return subjects, nil
}

func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]*domain.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE 1 = 1`
	args := []interface{}{}
	if filter.SubjectID != "" {
		query += ` AND subject_id = ?`
		args = append(args, filter.SubjectID)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`
		args = append(args, filter.Offset, filter.Limit)
	}

	var rows []models.Quiz
	exec := GetExecutor(ctx, r.db)
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var m models.Quiz
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + quizColumns + ` FROM quizzes WHERE id = ?`)
	if err := exec.GetContext(ctx, &m, query, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&m), nil
}

func (r *sqlxQuizRepository) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]domain.Question, error) {
	var rows []models.Question
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + questionColumns + ` FROM questions WHERE quiz_id = ? ORDER BY order_index, id`)
	if err := exec.SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (r *sqlxQuizRepository) CountQuestions(ctx context.Context, quizID string) (int, error) {
	var count int
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT COUNT(*) FROM questions WHERE quiz_id = ?`)
	if err := exec.GetContext(ctx, &count, query, quizID); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
