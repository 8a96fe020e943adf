package dto

import "time"

type ClassResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SubjectResponse struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// QuizListRequest is bound from query parameters.
type QuizListRequest struct {
	SubjectID string `query:"subject_id"`
	Category  string `query:"category"`
	Pagination
}

// QuizResponse describes a quiz without its questions.
// @Description Quiz metadata
type QuizResponse struct {
	ID            string `json:"id"`
	SubjectID     string `json:"subject_id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	TimeLimit     int    `json:"time_limit"`
	IsPremium     bool   `json:"is_premium"`
	TokenPrice    int    `json:"token_price,omitempty"`
	Unlocked      bool   `json:"unlocked"`
	QuestionCount int    `json:"question_count,omitempty"`
}

// ExamResponse describes an exam and whether it can be started now.
type ExamResponse struct {
	ID          string     `json:"id"`
	SubjectID   string     `json:"subject_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	QuizIDs     []string   `json:"quiz_ids,omitempty"`
	Available   bool       `json:"available"`
}

// UnlockResponse reports a premium unlock.
type UnlockResponse struct {
	ContentType     string `json:"content_type"`
	ContentID       string `json:"content_id"`
	TokensSpent     int    `json:"tokens_spent"`
	Balance         int    `json:"balance"`
	AlreadyUnlocked bool   `json:"already_unlocked"`
}
