package dto

import "time"

// ResultResponse is a persisted attempt outcome.
// @Description Completed attempt result
type ResultResponse struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id,omitempty"`
	ExamID         string    `json:"exam_id,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	TimeSpent      int       `json:"time_spent"`
	Answers        []int     `json:"answers"`
	CompletedAt    time.Time `json:"completed_at"`
}

type ResultListResponse struct {
	Results        []ResultResponse `json:"results"`
	PaginationInfo PaginationInfo   `json:"pagination_info"`
}

// Explanation sources.
const (
	ExplanationStored    = "stored"
	ExplanationGenerated = "generated"
)

// ExplanationResponse explains one question of a result.
type ExplanationResponse struct {
	ResultID           string `json:"result_id"`
	Index              int    `json:"index"`
	QuestionID         string `json:"question_id"`
	Question           string `json:"question"`
	Selected           int    `json:"selected"`
	CorrectOptionIndex int    `json:"correct_option_index"`
	Explanation        string `json:"explanation"`
	Source             string `json:"source"`
}
