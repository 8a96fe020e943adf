package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"
	"quiz-arena/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxCatalogWriter struct {
	db *sqlx.DB
}

// NewSQLXCatalogWriter assigns ULIDs to rows without an id. Calls join the transaction in ctx.
func NewSQLXCatalogWriter(db *sqlx.DB) domain.CatalogWriter {
	return &sqlxCatalogWriter{db: db}
}

func ensureID(id *string) {
	if *id == "" {
		*id = util.NewULID()
	}
}

func ensureTime(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

func (w *sqlxCatalogWriter) exec(ctx context.Context, what, query string, args ...any) error {
	exec := GetExecutor(ctx, w.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to create %s: %w", what, err)
	}
	return nil
}

func (w *sqlxCatalogWriter) CreateClass(ctx context.Context, class *domain.Class) error {
	ensureID(&class.ID)
	ensureTime(&class.CreatedAt)
	m := models.Class{ID: class.ID, Name: class.Name, Description: util.StringToNullString(class.Description), CreatedAt: class.CreatedAt}
	return w.exec(ctx, "class",
		`INSERT INTO classes (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Description, m.CreatedAt)
}

func (w *sqlxCatalogWriter) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	ensureID(&subject.ID)
	ensureTime(&subject.CreatedAt)
	m := models.Subject{ID: subject.ID, ClassID: subject.ClassID, Name: subject.Name, Description: util.StringToNullString(subject.Description), CreatedAt: subject.CreatedAt}
	return w.exec(ctx, "subject",
		`INSERT INTO subjects (id, class_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ClassID, m.Name, m.Description, m.CreatedAt)
}

func (w *sqlxCatalogWriter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	ensureID(&quiz.ID)
	ensureTime(&quiz.CreatedAt)
	m := models.Quiz{
		ID:          quiz.ID,
		SubjectID:   util.StringToNullString(quiz.SubjectID),
		Title:       quiz.Title,
		Description: util.StringToNullString(quiz.Description),
		Category:    util.StringToNullString(quiz.Category),
		TimeLimit:   quiz.TimeLimit,
		IsPremium:   quiz.IsPremium,
		CreatedAt:   quiz.CreatedAt,
	}
	return w.exec(ctx, "quiz",
		`INSERT INTO quizzes (id, subject_id, title, description, category, time_limit, is_premium, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SubjectID, m.Title, m.Description, m.Category, m.TimeLimit, m.IsPremium, m.CreatedAt)
}

func (w *sqlxCatalogWriter) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if err := question.Validate(); err != nil {
		return err
	}
	ensureID(&question.ID)
	m := models.Question{
		ID:                 question.ID,
		QuizID:             question.QuizID,
		QuestionText:       question.Text,
		Options:            models.StringSlice(question.Options),
		CorrectOptionIndex: question.CorrectOptionIndex,
		Explanation:        util.StringToNullString(question.Explanation),
		ImageURL:           util.StringToNullString(question.ImageURL),
		OrderIndex:         question.OrderIndex,
	}
	return w.exec(ctx, "question",
		`INSERT INTO questions (id, quiz_id, question_text, options, correct_option_index, explanation, image_url, order_index) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.QuizID, m.QuestionText, m.Options, m.CorrectOptionIndex, m.Explanation, m.ImageURL, m.OrderIndex)
}

// CreateExam also writes the exam_quizzes rows in QuizIDs order.
func (w *sqlxCatalogWriter) CreateExam(ctx context.Context, exam *domain.Exam) error {
	ensureID(&exam.ID)
	ensureTime(&exam.CreatedAt)
	m := models.Exam{
		ID:          exam.ID,
		SubjectID:   util.StringToNullString(exam.SubjectID),
		Title:       exam.Title,
		Description: util.StringToNullString(exam.Description),
		Duration:    exam.Duration,
		StartDate:   util.PtrToNullTime(exam.StartDate),
		EndDate:     util.PtrToNullTime(exam.EndDate),
		CreatedAt:   exam.CreatedAt,
	}
	if err := w.exec(ctx, "exam",
		`INSERT INTO exams (id, subject_id, title, description, duration, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SubjectID, m.Title, m.Description, m.Duration, m.StartDate, m.EndDate, m.CreatedAt); err != nil {
		return err
	}
	for i, quizID := range exam.QuizIDs {
		if err := w.exec(ctx, "exam quiz",
			`INSERT INTO exam_quizzes (exam_id, quiz_id, order_index) VALUES (?, ?, ?)`,
			exam.ID, quizID, i); err != nil {
			return err
		}
	}
	return nil
}

func (w *sqlxCatalogWriter) CreateCurrentAffair(ctx context.Context, item *domain.CurrentAffair) error {
	ensureID(&item.ID)
	ensureTime(&item.PublishedAt)
	m := models.CurrentAffair{
		ID:          item.ID,
		Title:       item.Title,
		Summary:     util.StringToNullString(item.Summary),
		Content:     item.Content,
		Category:    util.StringToNullString(item.Category),
		Tags:        models.StringSlice(item.Tags),
		ImageURL:    util.StringToNullString(item.ImageURL),
		IsPremium:   item.IsPremium,
		TokenPrice:  item.TokenPrice,
		PublishedAt: item.PublishedAt,
	}
	return w.exec(ctx, "current affair",
		`INSERT INTO current_affairs (`+currentAffairColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Summary, m.Content, m.Category, m.Tags, m.ImageURL, m.IsPremium, m.TokenPrice, m.PublishedAt)
}

func (w *sqlxCatalogWriter) CreateAdvertisement(ctx context.Context, ad *domain.Advertisement) error {
	if !domain.IsValidPlacement(ad.Placement) {
		return domain.NewInvalidInputError(fmt.Sprintf("unknown placement %q", ad.Placement))
	}
	ensureID(&ad.ID)
	m := models.Advertisement{
		ID:        ad.ID,
		Title:     ad.Title,
		ImageURL:  util.StringToNullString(ad.ImageURL),
		TargetURL: util.StringToNullString(ad.TargetURL),
		Placement: ad.Placement,
		IsActive:  ad.IsActive,
	}
	return w.exec(ctx, "advertisement",
		`INSERT INTO advertisements (id, title, image_url, target_url, placement, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.ImageURL, m.TargetURL, m.Placement, m.IsActive)
}
