package domain

import (
	"time"
)

// Class groups subjects, e.g. "Grade 10".
type Class struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Subject belongs to a class and groups quizzes and exams.
type Subject struct {
	ID          string
	ClassID     string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Question is immutable once loaded for an attempt.
type Question struct {
	ID                 string
	QuizID             string
	Text               string
	Options            []string
	CorrectOptionIndex int
	Explanation        string
	ImageURL           string
	OrderIndex         int
}

// ValidOption reports whether idx addresses one of the question's options.
func (q *Question) ValidOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}

// Validate checks the invariants a question must satisfy before it is stored.
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidInputError("a question needs at least two options")
	}
	if !q.ValidOption(q.CorrectOptionIndex) {
		return NewInvalidInputError("correct option index is out of range")
	}
	return nil
}

// Quiz is read-only to an attempt. TimeLimit is seconds per question; zero means the configured default.
type Quiz struct {
	ID          string
	SubjectID   string
	Title       string
	Description string
	Category    string
	TimeLimit   int
	IsPremium   bool
	Questions   []Question
	CreatedAt   time.Time
}

// QuizFilter narrows catalog listings. Empty fields are ignored.
type QuizFilter struct {
	SubjectID string
	Category  string
	Limit     int
	Offset    int
}

// Exam is an ordered set of quizzes taken as one timed attempt.
type Exam struct {
	ID          string
	SubjectID   string
	Title       string
	Description string
	Duration    int // minutes
	StartDate   *time.Time
	EndDate     *time.Time
	QuizIDs     []string
	CreatedAt   time.Time
}

// AvailableAt reports whether the exam window contains t. Unset bounds are open.
func (e *Exam) AvailableAt(t time.Time) bool {
	if e.StartDate != nil && t.Before(*e.StartDate) {
		return false
	}
	if e.EndDate != nil && t.After(*e.EndDate) {
		return false
	}
	return true
}
