package models

import (
	"database/sql"
	"time"
)

type Class struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

type Subject struct {
	ID          string         `db:"id"`
	ClassID     string         `db:"class_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

type Quiz struct {
	ID          string         `db:"id"`
	SubjectID   sql.NullString `db:"subject_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Category    sql.NullString `db:"category"`
	TimeLimit   int            `db:"time_limit"`
	IsPremium   bool           `db:"is_premium"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Question stores its options as a JSON array.
type Question struct {
	ID                 string         `db:"id"`
	QuizID             string         `db:"quiz_id"`
	QuestionText       string         `db:"question_text"`
	Options            StringSlice    `db:"options"`
	CorrectOptionIndex int            `db:"correct_option_index"`
	Explanation        sql.NullString `db:"explanation"`
	ImageURL           sql.NullString `db:"image_url"`
	OrderIndex         int            `db:"order_index"`
}

type Exam struct {
	ID          string         `db:"id"`
	SubjectID   sql.NullString `db:"subject_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Duration    int            `db:"duration"`
	StartDate   sql.NullTime   `db:"start_date"`
	EndDate     sql.NullTime   `db:"end_date"`
	CreatedAt   time.Time      `db:"created_at"`
}
