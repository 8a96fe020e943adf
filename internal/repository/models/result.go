package models

import (
	"database/sql"
	"time"
)

// QuizResult maps quiz_results. Answers is a JSON array of selected option indices.
type QuizResult struct {
	ID             string         `db:"id"`
	QuizID         sql.NullString `db:"quiz_id"`
	ExamID         sql.NullString `db:"exam_id"`
	UserID         string         `db:"user_id"`
	Score          int            `db:"score"`
	TotalQuestions int            `db:"total_questions"`
	TimeSpent      int            `db:"time_spent"`
	Answers        IntSlice       `db:"answers"`
	CompletedAt    time.Time      `db:"completed_at"`
}
